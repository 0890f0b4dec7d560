package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `View and set configuration stored in ~/.codelime/config.toml.

Recognised keys:
  api.base_url               override the API root
  api.language               language for API messages (en, de)
  upload.batch_size          rows per upload request
  upload.async_wait_seconds  pause between async batches`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configKeys = []string{
	"api.base_url",
	"api.language",
	"upload.batch_size",
	"upload.async_wait_seconds",
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg := getConfig()
	if cfg == nil {
		return errors.New("configuration is not available")
	}
	for _, key := range configKeys {
		if val, ok := cfg.Get(key); ok {
			cmd.Printf("%s = %v\n", key, val)
		}
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	if cfg == nil {
		return errors.New("configuration is not available")
	}
	if val, ok := cfg.Get(args[0]); ok {
		cmd.Printf("%v\n", val)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	if cfg == nil {
		return errors.New("configuration is not available")
	}

	key, raw := args[0], args[1]

	// Store numbers and booleans typed so the getters work.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("%s = %v\n", key, value)
	return nil
}
