package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anvil-dev/anvil/internal/config"
	"github.com/anvil-dev/anvil/internal/executor"
)

var (
	installProfile  string
	installFailFast bool
	installWorkers  int
)

func init() {
	installCmd.Flags().StringVar(&installProfile, "profile", "", "Install a named profile instead of individual extensions")
	installCmd.Flags().BoolVar(&installFailFast, "fail-fast", false, "Abort the batch at the first failure")
	installCmd.Flags().IntVar(&installWorkers, "workers", 1, "Concurrent extensions (independent branches only)")
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install [extensions...]",
	Short: "Install extensions and their dependencies",
	Long: `Resolve the requested extensions (or a profile) into dependency order
and bring each one to its declared state. Extensions whose validation
checks already pass are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if installProfile == "" && len(args) == 0 {
			return fmt.Errorf("nothing to install: pass extension names or --profile")
		}
		if installProfile != "" && len(args) > 0 {
			return fmt.Errorf("--profile cannot be combined with extension names")
		}

		s, err := loadServices()
		if err != nil {
			return err
		}

		var ordered []string
		if installProfile != "" {
			if s.profiles == nil {
				return fmt.Errorf("no profiles file found")
			}
			ordered, err = s.res.ResolveProfile(s.profiles, installProfile)
		} else {
			ordered, err = s.res.Resolve(args)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installing %d extension(s): %s\n", len(ordered), strings.Join(ordered, ", "))

		if !cmd.Flags().Changed("workers") {
			config.Load()
			if n, err := strconv.Atoi(config.Get("workers")); err == nil && n > 0 {
				installWorkers = n
			}
		}
		s.exec.Workers = installWorkers
		report := s.exec.Execute(cmd.Context(), ordered, executor.ActionInstall, policyFromFlag(installFailFast))
		renderErr := renderReport(cmd, report)

		// Successful items belong in the bill of materials even when the
		// batch as a whole failed.
		if err := regenerateBOM(s); err != nil {
			s.logger.Warn("could not regenerate bill of materials", "error", err)
		}
		return renderErr
	},
}

func policyFromFlag(failFast bool) executor.FailPolicy {
	if failFast {
		return executor.FailFast
	}
	return executor.ContinueIndependentBranches
}
