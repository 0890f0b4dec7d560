package cli

import (
	"github.com/spf13/cobra"

	"github.com/codelime/codelime-cli/internal/core/ports/driven"
	"github.com/codelime/codelime-cli/internal/core/services"
)

var (
	copyName  string
	copyAsync bool
)

var copyCmd = &cobra.Command{
	Use:   "copy <project-id>",
	Short: "Duplicate a project with all its questions and rows",
	Long: `Copies a project: questions, codebooks, settings and every row.
The platform assigns fresh ids, so the copy is fully independent of
the source.`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

func init() {
	copyCmd.Flags().StringVarP(&copyName, "name", "n", "", "name for the copy (default: source name + \" (copy)\")")
	copyCmd.Flags().BoolVar(&copyAsync, "async", false, "queue row processing server-side")
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	sourceID, err := parseID(args[0])
	if err != nil {
		return err
	}
	api, err := getAPI(cmd.Context())
	if err != nil {
		return err
	}

	copier := services.NewCopier(api, newUploader(api, 0, false))
	created, report, err := copier.Copy(cmd.Context(), sourceID, copyName, driven.UploadOptions{Async: copyAsync})
	if err != nil {
		return err
	}
	if created.ID != nil {
		cmd.Printf("Copied project %d to %d (%s)\n", sourceID, *created.ID, created.Name)
	}
	return printReport(cmd, report)
}
