package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvil-dev/anvil/internal/executor"
)

var upgradeFailFast bool

func init() {
	upgradeCmd.Flags().BoolVar(&upgradeFailFast, "fail-fast", false, "Abort the batch at the first failure")
	rootCmd.AddCommand(upgradeCmd)
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [extensions...]",
	Short: "Upgrade installed extensions",
	Long: `Re-apply extensions according to their upgrade strategy. With no
arguments, every active extension is upgraded in dependency order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadServices()
		if err != nil {
			return err
		}

		names := args
		if len(names) == 0 {
			entries, err := s.mgr.List(false)
			if err != nil {
				return err
			}
			for _, e := range entries {
				names = append(names, e.Name)
			}
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to upgrade.")
			return nil
		}

		ordered, err := s.res.Resolve(names)
		if err != nil {
			return err
		}
		// Resolution may pull in dependencies that are not installed; an
		// upgrade only touches what is already active.
		doc, err := s.mgr.Load()
		if err != nil {
			return err
		}
		var active []string
		for _, name := range ordered {
			if entry, ok := doc.Get(name); ok && entry.Active {
				active = append(active, name)
			}
		}

		report := s.exec.Execute(cmd.Context(), active, executor.ActionUpgrade, policyFromFlag(upgradeFailFast))
		renderErr := renderReport(cmd, report)

		if err := regenerateBOM(s); err != nil {
			s.logger.Warn("could not regenerate bill of materials", "error", err)
		}
		return renderErr
	},
}
