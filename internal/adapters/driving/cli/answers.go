package cli

import (
	"github.com/spf13/cobra"
)

var (
	answersJSON    bool
	answersNoGroup bool
)

var answersCmd = &cobra.Command{
	Use:   "answers <question-id>",
	Short: "List the answers of a question",
	Long: `Lists the answers of a question. By default identical answers are
grouped server-side; --no-group returns every row individually.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnswers,
}

func init() {
	answersCmd.Flags().BoolVar(&answersJSON, "json", false, "output as JSON")
	answersCmd.Flags().BoolVar(&answersNoGroup, "no-group", false, "do not group identical answers")
	rootCmd.AddCommand(answersCmd)
}

func runAnswers(cmd *cobra.Command, args []string) error {
	questionID, err := parseID(args[0])
	if err != nil {
		return err
	}
	api, err := getAPI(cmd.Context())
	if err != nil {
		return err
	}

	answers, err := api.ListAnswers(cmd.Context(), questionID, !answersNoGroup)
	if err != nil {
		return err
	}

	if answersJSON {
		return printJSON(cmd, answers)
	}
	cmd.Printf("%d answers\n", len(answers))
	for _, a := range answers {
		marker := " "
		if a.Reviewed {
			marker = "*"
		}
		cmd.Printf("%s %s  %v\n", marker, a.Text, a.Codes)
	}
	return nil
}
