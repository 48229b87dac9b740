package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekslens/leadgen-cli/internal/industry"
)

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "List available industry policies",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := industry.NewRegistry()
		if err := reg.ApplyOverridesFile(cfg.Industry.OverridesFile); err != nil {
			return err
		}

		for _, id := range reg.IDs() {
			p := reg.Resolve(id)
			marker := " "
			if id == cfg.Industry.Default {
				marker = "*"
			}
			fmt.Printf("%s %-24s %s (%d keywords)\n", marker, id, p.Name(), len(p.DefaultKeywords()))
		}
		return nil
	},
}

var industriesInfoCmd = &cobra.Command{
	Use:   "info [id]",
	Short: "Show a policy's search vocabulary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := industry.NewRegistry()
		if err := reg.ApplyOverridesFile(cfg.Industry.OverridesFile); err != nil {
			return err
		}

		id := cfg.Industry.Default
		if len(args) > 0 {
			id = args[0]
		}
		p := reg.Resolve(id)

		fmt.Printf("Name:        %s\n", p.Name())
		fmt.Printf("Keywords:    %s\n", strings.Join(p.DefaultKeywords(), ", "))
		fmt.Printf("Search terms: %s\n", strings.Join(p.SearchTerms(), ", "))
		fmt.Printf("Indicators:  %s\n", strings.Join(p.CompanyIndicators(), ", "))
		return nil
	},
}

func init() {
	industriesCmd.AddCommand(industriesInfoCmd)
	rootCmd.AddCommand(industriesCmd)
}
