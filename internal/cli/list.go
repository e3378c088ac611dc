package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listAll      bool
	listCategory string
	listJSON     bool
)

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include removed (inactive) extensions")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one manifest entry for display.
type listEntry struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Active    bool   `json:"active"`
	Protected bool   `json:"protected"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List extensions recorded in the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadServices()
		if err != nil {
			return err
		}

		entries, err := s.mgr.List(listAll)
		if err != nil {
			return err
		}

		var rows []listEntry
		for _, e := range entries {
			if listCategory != "" && e.Category != listCategory {
				continue
			}
			rows = append(rows, listEntry{
				Name:      e.Name,
				Category:  e.Category,
				Active:    e.Active,
				Protected: e.Protected,
			})
		}

		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No extensions recorded yet.")
			return nil
		}

		if listJSON {
			out, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling list: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCATEGORY\tSTATE\tPROTECTED")
		for _, r := range rows {
			state := "active"
			if !r.Active {
				state = "removed"
			}
			protected := ""
			if r.Protected {
				protected = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Category, state, protected)
		}
		return w.Flush()
	},
}
