package cli

import (
	"github.com/spf13/cobra"

	"github.com/codelime/codelime-cli/internal/core/services"
)

var inheritCmd = &cobra.Command{
	Use:   "inherit <question-id> <source-question-id>",
	Short: "Make a question inherit codebook and training from another",
	Long: `Links a question to an already trained source question. The model
starts from the source's codebook and training instead of from
scratch. Use "projects inheritable" to find valid sources.

Retraining is requested automatically after the link is saved.`,
	Args: cobra.ExactArgs(2),
	RunE: runInherit,
}

func init() {
	rootCmd.AddCommand(inheritCmd)
}

func runInherit(cmd *cobra.Command, args []string) error {
	questionID, err := parseID(args[0])
	if err != nil {
		return err
	}
	sourceID, err := parseID(args[1])
	if err != nil {
		return err
	}

	api, err := getAPI(cmd.Context())
	if err != nil {
		return err
	}
	updated, err := services.NewInheritance(api).Link(cmd.Context(), questionID, sourceID)
	if err != nil {
		return err
	}

	cmd.Printf("Question %d (%s) now inherits from question %d\n", questionID, updated.Name, sourceID)
	return nil
}
