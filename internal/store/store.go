package store

import (
	"context"

	"github.com/ekslens/leadgen-cli/internal/model"
)

// Store defines the persistence boundary for leads and drafted
// messages. Implementations are safe for a single writer at a time; the
// orchestrator serializes its own calls.
type Store interface {
	// Leads
	FindByIdentity(ctx context.Context, name, url string) (string, bool, error)
	InsertLead(ctx context.Context, lead model.Lead) (string, error)
	ListRecent(ctx context.Context, limit int, status model.LeadStatus) ([]model.Lead, error)
	SearchLeads(ctx context.Context, term string, limit int) ([]model.Lead, error)
	UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error
	CountsBySource(ctx context.Context) (map[string]int, error)
	CountsByStatus(ctx context.Context) (map[string]int, error)

	// Outreach drafts
	SaveMessage(ctx context.Context, msg model.DraftedMessage) (string, error)
	ListMessages(ctx context.Context, leadID string) ([]model.DraftedMessage, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
