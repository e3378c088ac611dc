package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize environment state",
	Long: `Report manifest counts, registry coverage, and orphaned entries:
manifest extensions whose definition can no longer be loaded. Orphans are
warnings only; they are never deactivated automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadServices()
		if err != nil {
			return err
		}

		entries, err := s.mgr.List(true)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		active, protected := 0, 0
		var orphans []string
		for _, e := range entries {
			if e.Active {
				active++
			}
			if e.Protected {
				protected++
			}
			if _, err := s.loader.LoadOne(e.Name); err != nil {
				orphans = append(orphans, e.Name)
			}
		}

		fmt.Fprintf(out, "Manifest:  %d entries (%d active, %d protected)\n", len(entries), active, protected)
		fmt.Fprintf(out, "Registry:  %d extensions registered\n", len(s.reg.Names()))
		if s.profiles != nil {
			fmt.Fprintf(out, "Profiles:  %d defined\n", len(s.profiles.Names()))
		}

		regErrs := s.reg.Validate()
		// Unreadable definitions already show up as orphans; cross-check
		// whatever loaded.
		defs, _ := s.loader.LoadAll()
		regErrs = append(regErrs, s.reg.CrossCheck(defs)...)
		if len(regErrs) > 0 {
			fmt.Fprintf(out, "\nRegistry problems:\n")
			for _, err := range regErrs {
				fmt.Fprintf(out, "  warning  %v\n", err)
			}
		}

		if len(orphans) > 0 {
			fmt.Fprintf(out, "\nOrphaned entries (definition missing or unreadable):\n")
			for _, name := range orphans {
				fmt.Fprintf(out, "  warning  %s\n", name)
			}
		}
		return nil
	},
}
