package main

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekslens/leadgen-cli/pkg/serp"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lead counts by source and status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		bySource, err := st.CountsBySource(ctx)
		if err != nil {
			return err
		}
		byStatus, err := st.CountsByStatus(ctx)
		if err != nil {
			return err
		}

		fmt.Println("By source:")
		printCounts(bySource)
		fmt.Println("\nBy status:")
		printCounts(byStatus)

		if cfg.Serp.Key != "" {
			client := serp.NewClient(cfg.Serp.Key,
				serp.WithBaseURL(cfg.Serp.BaseURL),
				serp.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Serp.TimeoutSecs) * time.Second}),
			)
			account, err := client.Account(ctx)
			if err != nil {
				zap.L().Warn("serp quota lookup failed", zap.Error(err))
			} else {
				fmt.Printf("\nSearch quota: %d/%d used this month (%d left)\n",
					account.ThisMonthUsage, account.SearchesPerMonth, account.PlanSearchesLeft)
			}
		}
		return nil
	},
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	total := 0
	for k, n := range counts {
		keys = append(keys, k)
		total += n
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-20s %d\n", k, counts[k])
	}
	fmt.Printf("  %-20s %d\n", "total", total)
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
