package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekslens/leadgen-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleLead(name, url string) model.Lead {
	return model.Lead{
		DisplayName:  name,
		CanonicalURL: url,
		Description:  "aesthetic clinic",
		Source:       "serpapi",
		SearchTerm:   "botox Madrid",
		Industry:     "Medical Aesthetics",
		Status:       model.LeadStatusPending,
		FoundAt:      time.Now().UTC(),
	}
}

func TestSQLiteStore_InsertAndFind(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	id, err := s.InsertLead(ctx, sampleLead("Clinica Nova", "https://nova.example"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Name matching is normalized.
	got, found, err := s.FindByIdentity(ctx, "  CLINICA   nova ", "")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, got)

	// URL matching is exact.
	got, found, err = s.FindByIdentity(ctx, "Different Name", "https://nova.example")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, got)

	_, found, err = s.FindByIdentity(ctx, "Unknown", "https://other.example")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStore_FindByIdentity_EmptyURLNeverMatches(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.InsertLead(ctx, sampleLead("No Website LLC", ""))
	require.NoError(t, err)

	// An empty URL on both sides must not join the two leads.
	_, found, err := s.FindByIdentity(ctx, "Another Company", "")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStore_ListRecent(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	older := sampleLead("Older Clinic", "")
	older.FoundAt = time.Now().UTC().Add(-time.Hour)
	_, err := s.InsertLead(ctx, older)
	require.NoError(t, err)

	_, err = s.InsertLead(ctx, sampleLead("Newer Clinic", ""))
	require.NoError(t, err)

	leads, err := s.ListRecent(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Newer Clinic", leads[0].DisplayName)
	assert.Equal(t, "Older Clinic", leads[1].DisplayName)

	leads, err = s.ListRecent(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, leads, 1)
}

func TestSQLiteStore_ListRecent_StatusFilter(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	id, err := s.InsertLead(ctx, sampleLead("Clinica Nova", ""))
	require.NoError(t, err)
	_, err = s.InsertLead(ctx, sampleLead("Estetica Centro", ""))
	require.NoError(t, err)

	require.NoError(t, s.UpdateLeadStatus(ctx, id, model.LeadStatusContacted))

	contacted, err := s.ListRecent(ctx, 10, model.LeadStatusContacted)
	require.NoError(t, err)
	require.Len(t, contacted, 1)
	assert.Equal(t, "Clinica Nova", contacted[0].DisplayName)
	assert.Equal(t, model.LeadStatusContacted, contacted[0].Status)
}

func TestSQLiteStore_SearchLeads(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.InsertLead(ctx, sampleLead("Clinica Nova", ""))
	require.NoError(t, err)

	centro := sampleLead("Estetica Centro", "")
	centro.Description = "dermal fillers and peels"
	_, err = s.InsertLead(ctx, centro)
	require.NoError(t, err)

	// Matches the description, case-insensitively.
	leads, err := s.SearchLeads(ctx, "FILLERS", 10)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Estetica Centro", leads[0].DisplayName)

	// Matches the display name.
	leads, err = s.SearchLeads(ctx, "nova", 10)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Clinica Nova", leads[0].DisplayName)

	// Matches the search term that produced the lead.
	leads, err = s.SearchLeads(ctx, "botox", 10)
	require.NoError(t, err)
	assert.Len(t, leads, 2)

	leads, err = s.SearchLeads(ctx, "no such thing", 10)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestSQLiteStore_UpdateLeadStatus_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	err := s.UpdateLeadStatus(context.Background(), "no-such-id", model.LeadStatusContacted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_Counts(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.InsertLead(ctx, sampleLead("A Clinic", ""))
	require.NoError(t, err)
	_, err = s.InsertLead(ctx, sampleLead("B Clinic", ""))
	require.NoError(t, err)

	placesLead := sampleLead("C Clinic", "")
	placesLead.Source = "places"
	_, err = s.InsertLead(ctx, placesLead)
	require.NoError(t, err)

	bySource, err := s.CountsBySource(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"serpapi": 2, "places": 1}, bySource)

	byStatus, err := s.CountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"pending": 3}, byStatus)
}

func TestSQLiteStore_Messages(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	leadID, err := s.InsertLead(ctx, sampleLead("Clinica Nova", ""))
	require.NoError(t, err)

	msgID, err := s.SaveMessage(ctx, model.DraftedMessage{
		LeadID:   leadID,
		Content:  "Dear Clinica Nova team, ...",
		Industry: "Medical Aesthetics",
		Drafted:  time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msgID)

	msgs, err := s.ListMessages(ctx, leadID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, leadID, msgs[0].LeadID)
	assert.Equal(t, "Clinica Nova", msgs[0].LeadName)
	assert.Equal(t, "Dear Clinica Nova team, ...", msgs[0].Content)

	none, err := s.ListMessages(ctx, "no-such-lead")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_InsertLead_Defaults(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	id, err := s.InsertLead(ctx, model.Lead{DisplayName: "Minimal Clinic"})
	require.NoError(t, err)

	leads, err := s.ListRecent(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, id, leads[0].ID)
	assert.Equal(t, model.LeadStatusPending, leads[0].Status)
	assert.False(t, leads[0].FoundAt.IsZero())
}

func TestOpen_DefaultsToSQLite(t *testing.T) {
	s, err := Open(context.Background(), "", filepath.Join(t.TempDir(), "open.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*SQLiteStore)
	assert.True(t, ok)
}
