package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvil-dev/anvil/internal/executor"
	"github.com/anvil-dev/anvil/internal/extension"
)

var (
	validateAll         bool
	validateDefinitions bool
	validateProbe       bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateAll, "all", false, "Validate every extension, not just active ones")
	validateCmd.Flags().BoolVar(&validateDefinitions, "definitions", false, "Check definition documents instead of installed state")
	validateCmd.Flags().BoolVar(&validateProbe, "probe", false, "With --definitions, probe declared download domains (warnings only)")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [extensions...]",
	Short: "Validate installed extensions or their definitions",
	Long: `By default, run each extension's declared validation commands against
the installed environment. With --definitions, check the definition
documents themselves: schema, semantic rules, and download domains.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadServices()
		if err != nil {
			return err
		}

		if validateDefinitions {
			return runDefinitionValidation(cmd, s, args)
		}

		names := args
		if len(names) == 0 {
			if validateAll {
				names, err = s.loader.Names()
				if err != nil {
					return err
				}
			} else {
				entries, err := s.mgr.List(false)
				if err != nil {
					return err
				}
				for _, e := range entries {
					names = append(names, e.Name)
				}
			}
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to validate.")
			return nil
		}

		report := s.exec.Execute(cmd.Context(), names, executor.ActionValidate, executor.ContinueIndependentBranches)
		return renderReport(cmd, report)
	},
}

func runDefinitionValidation(cmd *cobra.Command, s *services, args []string) error {
	v := extension.NewValidator(s.loader, validateProbe)
	out := cmd.OutOrStdout()

	var results []extension.Result
	if len(args) > 0 {
		for _, name := range args {
			res, err := v.ValidateOne(cmd.Context(), name)
			if err != nil {
				return err
			}
			results = append(results, res)
		}
	} else {
		var err error
		results, err = v.ValidateAll(cmd.Context())
		if err != nil {
			return err
		}
	}

	invalid := 0
	for _, res := range results {
		if res.Valid() {
			fmt.Fprintf(out, "  ok       %s\n", res.Name)
		} else {
			invalid++
			fmt.Fprintf(out, "  invalid  %s\n", res.Name)
			for _, issue := range res.Issues {
				fmt.Fprintf(out, "             %s\n", issue)
			}
		}
		for _, warning := range res.Warnings {
			fmt.Fprintf(out, "  warning  %s: %s\n", res.Name, warning)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d definition(s) failed validation", invalid)
	}
	fmt.Fprintf(out, "%d definition(s) valid.\n", len(results))
	return nil
}
