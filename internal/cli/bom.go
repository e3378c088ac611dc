package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anvil-dev/anvil/internal/bom"
	"github.com/anvil-dev/anvil/internal/userdata"
)

var bomRegenerate bool

func init() {
	bomCmd.Flags().BoolVar(&bomRegenerate, "regenerate", false, "Regenerate the document before printing")
	rootCmd.AddCommand(bomCmd)
}

var bomCmd = &cobra.Command{
	Use:   "bom",
	Short: "Show the environment's bill of materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadServices()
		if err != nil {
			return err
		}

		if bomRegenerate {
			if err := regenerateBOM(s); err != nil {
				return err
			}
		}

		entries, err := s.mgr.List(false)
		if err != nil {
			return err
		}
		doc, err := s.tracker.Generate(entries, s.loader)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if doc.Total == 0 {
			fmt.Fprintln(out, "No components recorded.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EXTENSION\tCOMPONENT\tVERSION\tTYPE\tSOURCE")
		for _, c := range doc.Components {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Extension, c.Name, c.Version, c.Type, c.Source)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d component(s), generated %s\n", doc.Total, doc.Generated.Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

// regenerateBOM rebuilds and persists the bill of materials from the
// manifest's active entries.
func regenerateBOM(s *services) error {
	entries, err := s.mgr.List(false)
	if err != nil {
		return err
	}
	doc, err := s.tracker.Generate(entries, s.loader)
	if err != nil {
		return err
	}
	path, err := userdata.GetBomPath()
	if err != nil {
		return err
	}
	return bom.Write(path, doc)
}
