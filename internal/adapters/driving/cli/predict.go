package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/codelime/codelime-cli/internal/core/domain"
)

var predictJSON bool

var predictCmd = &cobra.Command{
	Use:   "predict <question-id>",
	Short: "Fetch model predictions for a question",
	Long: `Fetches the model's predicted code assignments for every answer of a
question. Predictions only exist after training has been requested and
completed.`,
	Args: cobra.ExactArgs(1),
	RunE: runPredict,
}

var predictTrainCmd = &cobra.Command{
	Use:   "train <question-id>",
	Short: "Request model training for a question",
	Args:  cobra.ExactArgs(1),
	RunE:  runPredictTrain,
}

func init() {
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "output as JSON")
	predictCmd.AddCommand(predictTrainCmd)
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	questionID, err := parseID(args[0])
	if err != nil {
		return err
	}
	api, err := getAPI(cmd.Context())
	if err != nil {
		return err
	}

	predictions, err := api.GetPredictions(cmd.Context(), questionID)
	if errors.Is(err, domain.ErrNoPredictions) {
		cmd.Printf("No predictions for question %d yet. Request training with \"codelime predict train %d\".\n", questionID, questionID)
		return nil
	}
	if err != nil {
		return err
	}

	if predictJSON {
		return printJSON(cmd, predictions)
	}
	cmd.Printf("Predictions for question %d (%d answers, %d trainings)\n",
		questionID, len(predictions.Answers), predictions.NTrainings)
	for _, a := range predictions.Answers {
		cmd.Printf("  answer %d: codes %v\n", a.ID, a.Codes)
	}
	return nil
}

func runPredictTrain(cmd *cobra.Command, args []string) error {
	questionID, err := parseID(args[0])
	if err != nil {
		return err
	}
	api, err := getAPI(cmd.Context())
	if err != nil {
		return err
	}
	if err := api.RequestTraining(cmd.Context(), questionID); err != nil {
		return err
	}
	cmd.Printf("Training requested for question %d\n", questionID)
	return nil
}
