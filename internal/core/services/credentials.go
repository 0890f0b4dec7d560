package services

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/logger"
)

// Environment variables holding credentials. A .env file in the working
// directory is read first, without overriding the real environment.
const (
	EnvAPIKey   = "CODELIME_API_KEY"
	EnvEmail    = "CODELIME_EMAIL"
	EnvPassword = "CODELIME_PASSWORD"
)

// Credentials is a resolved set of platform credentials. Either APIKey
// or the Email/Password pair is set.
type Credentials struct {
	APIKey   string
	Email    string
	Password string
}

// HasAPIKey reports whether API-key authentication is available.
func (c Credentials) HasAPIKey() bool { return c.APIKey != "" }

// HasLogin reports whether session authentication is available.
func (c Credentials) HasLogin() bool { return c.Email != "" && c.Password != "" }

// CredentialResolver finds credentials in the environment, a local .env
// file, or by prompting the user.
type CredentialResolver struct {
	in           io.Reader
	out          io.Writer
	readPassword func(fd int) ([]byte, error)
	allowPrompt  bool
}

// NewCredentialResolver creates a resolver. allowPrompt controls whether
// missing credentials may be asked for interactively.
func NewCredentialResolver(allowPrompt bool) *CredentialResolver {
	return &CredentialResolver{
		in:           os.Stdin,
		out:          os.Stderr,
		readPassword: term.ReadPassword,
		allowPrompt:  allowPrompt,
	}
}

// Resolve returns usable credentials, preferring the API key, then the
// email/password pair, then an interactive prompt.
func (r *CredentialResolver) Resolve() (Credentials, error) {
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded credentials from .env")
	}

	creds := Credentials{
		APIKey:   strings.TrimSpace(os.Getenv(EnvAPIKey)),
		Email:    strings.TrimSpace(os.Getenv(EnvEmail)),
		Password: os.Getenv(EnvPassword),
	}
	if creds.HasAPIKey() || creds.HasLogin() {
		return creds, nil
	}

	if !r.allowPrompt {
		return Credentials{}, fmt.Errorf("%w: set %s, or %s and %s",
			domain.ErrNotAuthenticated, EnvAPIKey, EnvEmail, EnvPassword)
	}
	return r.prompt(creds)
}

// prompt asks for whichever of email and password is still missing. The
// password is read without echo when stdin is a terminal.
func (r *CredentialResolver) prompt(creds Credentials) (Credentials, error) {
	reader := bufio.NewReader(r.in)

	if creds.Email == "" {
		fmt.Fprint(r.out, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return Credentials{}, fmt.Errorf("read email: %w", err)
		}
		creds.Email = strings.TrimSpace(line)
	}

	if creds.Password == "" {
		fmt.Fprint(r.out, "Password: ")
		if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			raw, err := r.readPassword(int(f.Fd()))
			fmt.Fprintln(r.out)
			if err != nil {
				return Credentials{}, fmt.Errorf("read password: %w", err)
			}
			creds.Password = string(raw)
		} else {
			line, err := reader.ReadString('\n')
			if err != nil {
				return Credentials{}, fmt.Errorf("read password: %w", err)
			}
			creds.Password = strings.TrimRight(line, "\r\n")
		}
	}

	if !creds.HasLogin() {
		return Credentials{}, fmt.Errorf("%w: email and password are required", domain.ErrNotAuthenticated)
	}
	return creds, nil
}
