// Package cli implements the codelime command-line interface using
// cobra. Commands talk to the core services; the services talk to the
// coding platform through the driven ports.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/codelime/codelime-cli/internal/adapters/driven/config/file"
	"github.com/codelime/codelime-cli/internal/adapters/driven/history/sqlite"
	"github.com/codelime/codelime-cli/internal/connectors/codelime"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
	"github.com/codelime/codelime-cli/internal/core/services"
	"github.com/codelime/codelime-cli/internal/loaders"
	"github.com/codelime/codelime-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verboseFlag bool

// Package-level collaborators. They are wired lazily so read-only
// commands never touch credentials, and tests can swap them out.
var (
	configStore driven.ConfigStore
	codingAPI   driven.CodingAPI
	reportStore driven.ReportStore
	tableLoader *loaders.Registry
)

var rootCmd = &cobra.Command{
	Use:   "codelime",
	Short: "Upload and manage survey answers on the Codelime platform",
	Long: `codelime normalises tabular survey exports (CSV, Excel, JSON) and
uploads them to the Codelime coding platform: create projects, append
rows in batches, copy projects, link question inheritance and fetch
model predictions.

Credentials come from the environment (CODELIME_API_KEY, or
CODELIME_EMAIL and CODELIME_PASSWORD), a local .env file, or an
interactive prompt.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
}

// Execute runs the CLI. It is the only entry point main needs.
func Execute() error {
	defer func() {
		if reportStore != nil {
			_ = reportStore.Close()
		}
	}()
	return rootCmd.Execute()
}

// getConfig returns the config store, opening it on first use. Config
// problems are not fatal: the CLI falls back to defaults.
func getConfig() driven.ConfigStore {
	if configStore == nil {
		store, err := file.NewConfigStore("")
		if err != nil {
			logger.Warn("could not open config: %v", err)
			return nil
		}
		configStore = store
	}
	return configStore
}

// getLoader returns the table loader registry.
func getLoader() *loaders.Registry {
	if tableLoader == nil {
		tableLoader = loaders.Defaults()
	}
	return tableLoader
}

// getReportStore opens the upload history store. A nil return disables
// history, it never fails a command.
func getReportStore() driven.ReportStore {
	if reportStore == nil {
		store, err := sqlite.NewStore("")
		if err != nil {
			logger.Warn("upload history disabled: %v", err)
			return nil
		}
		reportStore = store
	}
	return reportStore
}

// getAPI returns an authenticated API client. Credentials are resolved
// from the environment or an interactive prompt; base URL and language
// may be overridden in the config file.
func getAPI(ctx context.Context) (driven.CodingAPI, error) {
	if codingAPI != nil {
		return codingAPI, nil
	}

	language := "en"
	var opts []codelime.Option
	if cfg := getConfig(); cfg != nil {
		if u := cfg.GetString("api.base_url"); u != "" {
			opts = append(opts, codelime.WithBaseURL(u))
		}
		if l := cfg.GetString("api.language"); l != "" {
			language = l
		}
	}
	// The environment wins over the config file.
	if u := os.Getenv("CODELIME_BASE_URL"); u != "" {
		opts = append(opts, codelime.WithBaseURL(u))
	}

	creds, err := services.NewCredentialResolver(true).Resolve()
	if err != nil {
		return nil, err
	}
	if creds.HasAPIKey() {
		opts = append(opts, codelime.WithAPIKey(creds.APIKey))
	}

	client, err := codelime.NewClient(language, opts...)
	if err != nil {
		return nil, err
	}
	if !creds.HasAPIKey() {
		if err := client.Login(ctx, creds.Email, creds.Password); err != nil {
			return nil, err
		}
	}

	codingAPI = client
	return codingAPI, nil
}

// newUploader builds an uploader with config-file overrides applied.
func newUploader(api driven.CodingAPI, batchSize int, dryRun bool) *services.Uploader {
	uploader := services.NewUploader(api, getReportStore())
	cfg := getConfig()
	if batchSize > 0 {
		uploader.SetBatchSize(batchSize)
	} else if cfg != nil {
		uploader.SetBatchSize(cfg.GetInt("upload.batch_size"))
	}
	if cfg != nil {
		if secs := cfg.GetInt("upload.async_wait_seconds"); secs > 0 {
			uploader.SetAsyncWait(time.Duration(secs) * time.Second)
		}
	}
	uploader.SetDryRun(dryRun)
	return uploader
}
