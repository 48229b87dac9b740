package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ekslens/leadgen-cli/internal/session"
)

var (
	searchCities      []string
	searchKeywords    []string
	searchMaxSearches int
	searchIndustry    string
	searchNoSerp      bool
	searchNoPlaces    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one lead aggregation session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if len(searchCities) == 0 {
			return eris.New("at least one city is required")
		}
		if searchMaxSearches > cfg.Search.MaxSearches {
			return eris.Errorf("max %d searches allowed", cfg.Search.MaxSearches)
		}

		env, err := initEnv(ctx, searchIndustry)
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := env.orch.RunSync(ctx, session.Request{
			Cities:      searchCities,
			Keywords:    searchKeywords,
			MaxSearches: searchMaxSearches,
			Sources: map[string]bool{
				"serpapi": !searchNoSerp,
				"places":  !searchNoPlaces,
			},
		})
		if err != nil {
			return err
		}
		if report == nil {
			return eris.New("session produced no report")
		}

		fmt.Printf("Industry:          %s\n", report.Industry)
		fmt.Printf("Searches:          %d\n", report.Stats.SearchesPerformed)
		fmt.Printf("Leads found:       %d\n", report.Stats.LeadsFound)
		fmt.Printf("Leads saved:       %d\n", report.Stats.LeadsSaved)
		fmt.Printf("Duplicates:        %d\n", report.Stats.DuplicatesResolved)
		fmt.Printf("Rejected:          %d\n", report.Stats.Rejected)
		fmt.Printf("Messages drafted:  %d\n", report.Stats.MessagesDrafted)
		fmt.Printf("Elapsed:           %s\n", report.Stats.Elapsed.Round(1e7))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchCities, "cities", nil, "target cities (comma separated)")
	searchCmd.Flags().StringSliceVar(&searchKeywords, "keywords", nil, "search keywords (default: industry keywords)")
	searchCmd.Flags().IntVar(&searchMaxSearches, "max-searches", 3, "external search budget per collector")
	searchCmd.Flags().StringVar(&searchIndustry, "industry", "", "industry policy id (default from config)")
	searchCmd.Flags().BoolVar(&searchNoSerp, "no-serp", false, "disable the web search collector")
	searchCmd.Flags().BoolVar(&searchNoPlaces, "no-places", false, "disable the places collector")
	rootCmd.AddCommand(searchCmd)
}
