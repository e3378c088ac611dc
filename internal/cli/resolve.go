package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveProfile string

func init() {
	resolveCmd.Flags().StringVar(&resolveProfile, "profile", "", "Resolve a named profile")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [extensions...]",
	Short: "Print the dependency-ordered execution plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if resolveProfile == "" && len(args) == 0 {
			return fmt.Errorf("nothing to resolve: pass extension names or --profile")
		}

		s, err := loadServices()
		if err != nil {
			return err
		}

		var ordered []string
		if resolveProfile != "" {
			if s.profiles == nil {
				return fmt.Errorf("no profiles file found")
			}
			ordered, err = s.res.ResolveProfile(s.profiles, resolveProfile)
		} else {
			ordered, err = s.res.Resolve(args)
		}
		if err != nil {
			return err
		}

		for i, name := range ordered {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, name)
		}
		return nil
	},
}
