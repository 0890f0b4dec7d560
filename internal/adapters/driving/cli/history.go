package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/codelime/codelime-cli/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past upload runs",
	Long: `Shows past upload runs with their batch outcomes. Failed batches list
their row ranges so a retry can target exactly the missing rows.`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one upload run in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to show")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store := getReportStore()
	if store == nil {
		return errors.New("upload history is not available")
	}

	reports, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		cmd.Println("No upload runs recorded.")
		return nil
	}

	for _, r := range reports {
		status := "ok"
		if r.Failed() > 0 {
			status = "FAILED"
		}
		if r.DryRun {
			status = "dry-run"
		}
		cmd.Printf("%s  %s  project %d  %d/%d rows  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.ID, r.ProjectID, r.RowsUploaded(), r.TotalRows, status)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store := getReportStore()
	if store == nil {
		return errors.New("upload history is not available")
	}

	report, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if report == nil {
		cmd.Printf("No run with id %s\n", args[0])
		return nil
	}

	cmd.Printf("Run %s\n", report.ID)
	cmd.Printf("  project:    %d\n", report.ProjectID)
	cmd.Printf("  started:    %s\n", report.StartedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("  duration:   %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	cmd.Printf("  batch size: %d\n", report.BatchSize)
	cmd.Printf("  rows:       %d/%d uploaded\n", report.RowsUploaded(), report.TotalRows)
	for _, b := range report.Batches {
		switch b.Status {
		case domain.BatchFailed:
			cmd.Printf("  batch %d (rows %d-%d): failed: %s\n", b.Index+1, b.FirstRow, b.FirstRow+b.RowCount-1, b.Error)
		default:
			cmd.Printf("  batch %d (rows %d-%d): %s\n", b.Index+1, b.FirstRow, b.FirstRow+b.RowCount-1, b.Status)
		}
	}
	return nil
}
