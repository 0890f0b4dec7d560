// Package codelime implements the REST client for the Codelime coding
// platform: session or API-key authentication, request plumbing with
// client-side rate limiting, and typed wrappers for the project, question
// and prediction endpoints.
package codelime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
	"github.com/codelime/codelime-cli/internal/logger"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.codelime.io/api"

	// DefaultTimeout is the default HTTP request timeout. Synchronous
	// project creation with rows can take a while server-side.
	DefaultTimeout = 120 * time.Second

	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFTOKEN"
)

// validContentLanguages are the Accept-Language values the API localises
// its messages for.
var validContentLanguages = []string{"en", "de"}

// Ensure Client implements the port.
var _ driven.CodingAPI = (*Client)(nil)

// Client talks to the Codelime REST API. Authentication is either a
// session cookie plus CSRF token obtained via Login, or a static API key
// sent on every request. The client is not safe for concurrent use; the
// CLI is strictly sequential.
type Client struct {
	baseURL       string
	language      string
	apiKey        string
	csrfToken     string
	authenticated bool
	httpClient    *http.Client
	rateLimiter   *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (used against staging instances and
// in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithAPIKey authenticates with a static API key instead of a session.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
		c.authenticated = key != ""
	}
}

// WithHTTPClient replaces the underlying http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the client-side rate limit.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) { c.rateLimiter = NewRateLimiterWithConfig(cfg) }
}

// NewClient creates a client. language selects the Accept-Language for
// API messages ("en" or "de").
func NewClient(language string, opts ...Option) (*Client, error) {
	valid := false
	for _, l := range validContentLanguages {
		if language == l {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w %q, accepted values are %v",
			domain.ErrInvalidLanguage, language, validContentLanguages)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &Client{
		baseURL:  DefaultBaseURL,
		language: language,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		rateLimiter: NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// A replacement http.Client still needs the jar for session auth.
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return c, nil
}

// Authenticated reports whether the client can make non-public calls.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login authenticates with email and password. On success all subsequent
// calls ride on the session cookie; the CSRF token from the cookie is
// echoed as a header on mutating requests.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login/", nil, body, nil, true, http.StatusOK); err != nil {
		return err
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			c.csrfToken = cookie.Value
		}
	}
	if c.csrfToken == "" {
		return fmt.Errorf("login response did not set a %s cookie", csrfCookieName)
	}
	c.authenticated = true
	logger.Debug("authenticated as %s", email)
	return nil
}

// uploadQuery translates upload options into the write-endpoint query
// parameters. The async flag is only sent when set.
func uploadQuery(opts driven.UploadOptions) url.Values {
	q := url.Values{}
	q.Set("request_training", strconv.FormatBool(opts.RequestTraining))
	if opts.Async {
		q.Set("async", "true")
	}
	return q
}

// do performs one API call: rate limit, marshal, send, map errors,
// decode. public skips the authentication check (login only).
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
	public bool,
	wantStatus int,
) error {
	if !public && !c.authenticated {
		return fmt.Errorf("%w: call Login first or configure an API key", domain.ErrNotAuthenticated)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.language)
	req.Header.Set("Referer", c.baseURL)
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.csrfToken != "" {
		req.Header.Set(csrfHeaderName, c.csrfToken)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	}

	logger.Debug("%s %s", method, fullURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			c.rateLimiter.RecordRateLimitError(retryAfter)
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
			URL:        fullURL,
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return nil
}
