package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvil-dev/anvil/internal/userdata"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the environment state",
	Long: `Create the state directory and seed the manifest with the registry's
protected extensions. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := userdata.EnsureRoot(); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}

		s, err := loadServices()
		if err != nil {
			return err
		}
		if err := s.mgr.Initialize(s.reg); err != nil {
			return fmt.Errorf("seeding manifest: %w", err)
		}

		entries, err := s.mgr.List(false)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized manifest with %d seeded extension(s).\n", len(entries))
		return nil
	},
}
