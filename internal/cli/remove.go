package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvil-dev/anvil/internal/executor"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <extensions...>",
	Short: "Remove extensions",
	Long: `Run each extension's removal steps and deactivate its manifest entry.
The entry itself is kept as history. Protected extensions cannot be
removed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadServices()
		if err != nil {
			return err
		}

		// Refuse removals that would strand active dependents.
		doc, err := s.mgr.Load()
		if err != nil {
			return err
		}
		for _, name := range args {
			for _, dependent := range s.res.Dependents(name) {
				if entry, ok := doc.Get(dependent); ok && entry.Active && !contains(args, dependent) {
					return fmt.Errorf("cannot remove %q: active extension %q depends on it", name, dependent)
				}
			}
		}

		report := s.exec.Execute(cmd.Context(), args, executor.ActionRemove, executor.ContinueIndependentBranches)
		renderErr := renderReport(cmd, report)

		if err := regenerateBOM(s); err != nil {
			s.logger.Warn("could not regenerate bill of materials", "error", err)
		}
		return renderErr
	},
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
