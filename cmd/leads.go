package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ekslens/leadgen-cli/internal/model"
)

var (
	leadsLimit  int
	leadsStatus string
	leadsSearch string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List recently found leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status := model.LeadStatus(leadsStatus)
		if leadsStatus != "" && !status.Valid() {
			return eris.Errorf("unknown status %q", leadsStatus)
		}
		if leadsSearch != "" && leadsStatus != "" {
			return eris.New("--search and --status cannot be combined")
		}

		var leads []model.Lead
		if leadsSearch != "" {
			leads, err = st.SearchLeads(ctx, leadsSearch, leadsLimit)
		} else {
			leads, err = st.ListRecent(ctx, leadsLimit, status)
		}
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			fmt.Println("No leads found.")
			return nil
		}

		for _, l := range leads {
			fmt.Printf("%-36s  %-10s  %-12s  %s\n", l.ID, l.Status, l.Source, l.DisplayName)
			if l.CanonicalURL != "" {
				fmt.Printf("%-36s  %-10s  %-12s  %s\n", "", "", "", l.CanonicalURL)
			}
		}
		fmt.Printf("\n%d leads\n", len(leads))
		return nil
	},
}

var leadsMarkCmd = &cobra.Command{
	Use:   "mark <lead-id> <status>",
	Short: "Update the outreach status of a lead",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		status := model.LeadStatus(args[1])
		if !status.Valid() {
			return eris.Errorf("unknown status %q", args[1])
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.UpdateLeadStatus(ctx, args[0], status); err != nil {
			return err
		}
		fmt.Printf("Lead %s marked %s\n", args[0], status)
		return nil
	},
}

var leadsMessagesCmd = &cobra.Command{
	Use:   "messages <lead-id>",
	Short: "Show drafted outreach messages for a lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		messages, err := st.ListMessages(ctx, args[0])
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			fmt.Println("No messages drafted for this lead.")
			return nil
		}

		for _, m := range messages {
			fmt.Printf("--- %s (%s)\n%s\n\n", m.LeadName, m.Drafted.Format("2006-01-02 15:04"), m.Content)
		}
		return nil
	},
}

func init() {
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 50, "max leads to list")
	leadsCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by status (pending, contacted, responded, discarded)")
	leadsCmd.Flags().StringVar(&leadsSearch, "search", "", "filter by keyword in name or description")
	leadsCmd.AddCommand(leadsMarkCmd)
	leadsCmd.AddCommand(leadsMessagesCmd)
	rootCmd.AddCommand(leadsCmd)
}
