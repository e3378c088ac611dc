package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anvil-dev/anvil/internal/executor"
)

// renderReport prints one line per extension and returns an error when the
// batch had failures, so the process exits non-zero.
func renderReport(cmd *cobra.Command, report *executor.BatchReport) error {
	out := cmd.OutOrStdout()
	for _, item := range report.Items {
		switch item.Outcome {
		case executor.OutcomeSuccess:
			fmt.Fprintf(out, "  ok       %s (%s)\n", item.Name, item.Duration.Round(time.Millisecond))
		case executor.OutcomeNoOp:
			fmt.Fprintf(out, "  ok       %s (already satisfied)\n", item.Name)
		case executor.OutcomeSkipped:
			fmt.Fprintf(out, "  skipped  %s: %s\n", item.Name, item.Reason)
		case executor.OutcomeFailed:
			fmt.Fprintf(out, "  failed   %s: %s\n", item.Name, item.Reason)
		}
	}

	success, failed, skipped, noop := report.Counts()
	fmt.Fprintf(out, "%s: %d succeeded, %d already satisfied, %d failed, %d skipped\n",
		report.Action, success, noop, failed, skipped)

	if report.Failed() {
		return fmt.Errorf("%s failed for %d extension(s)", report.Action, failed)
	}
	return nil
}
