package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <extension>",
	Short: "Show details for one extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		s, err := loadServices()
		if err != nil {
			return err
		}

		def, err := s.loader.LoadOne(name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:        %s\n", def.Metadata.Name)
		fmt.Fprintf(out, "Version:     %s\n", def.Metadata.Version)
		fmt.Fprintf(out, "Category:    %s\n", def.Metadata.Category)
		fmt.Fprintf(out, "Description: %s\n", def.Metadata.Description)
		fmt.Fprintf(out, "Method:      %s\n", def.Install.Method)

		if entry, ok := s.reg.Get(name); ok {
			if len(entry.Dependencies) > 0 {
				fmt.Fprintf(out, "Depends on:  %s\n", strings.Join(entry.Dependencies, ", "))
			}
			if entry.Protected {
				fmt.Fprintln(out, "Protected:   yes")
			}
		} else {
			fmt.Fprintln(out, "Registry:    not registered")
		}

		doc, err := s.mgr.Load()
		if err != nil {
			return err
		}
		if e, ok := doc.Get(name); ok {
			state := "active"
			if !e.Active {
				state = "removed"
			}
			fmt.Fprintf(out, "State:       %s\n", state)
		} else {
			fmt.Fprintln(out, "State:       not installed")
		}

		if def.BOM != nil && len(def.BOM.Tools) > 0 {
			var tools []string
			for _, tool := range def.BOM.Tools {
				tools = append(tools, fmt.Sprintf("%s@%s", tool.Name, tool.Version))
			}
			fmt.Fprintf(out, "Components:  %s\n", strings.Join(tools, ", "))
		}
		return nil
	},
}
