package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var searchCategory string

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Restrict results to a category")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search registered extensions by name or description",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := ""
		if len(args) > 0 {
			term = args[0]
		}

		s, err := loadServices()
		if err != nil {
			return err
		}

		names := s.reg.Search(term)
		if searchCategory != "" {
			var filtered []string
			for _, name := range names {
				if entry, _ := s.reg.Get(name); entry.Category == searchCategory {
					filtered = append(filtered, name)
				}
			}
			names = filtered
		}

		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching extensions.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCATEGORY\tDESCRIPTION")
		for _, name := range names {
			entry, _ := s.reg.Get(name)
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, entry.Category, entry.Description)
		}
		return w.Flush()
	},
}
