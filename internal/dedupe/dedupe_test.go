package dedupe

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/ekslens/leadgen-cli/internal/model"
)

// mockStore implements store.Store; only FindByIdentity matters here.
type mockStore struct {
	ids     map[string]string // normalized name or url -> id
	err     error
	lookups int
}

func (m *mockStore) FindByIdentity(_ context.Context, name, url string) (string, bool, error) {
	m.lookups++
	if m.err != nil {
		return "", false, m.err
	}
	if id, ok := m.ids[model.NormalizedName(name)]; ok {
		return id, true, nil
	}
	if url != "" {
		if id, ok := m.ids[url]; ok {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (m *mockStore) InsertLead(_ context.Context, _ model.Lead) (string, error) { return "", nil }
func (m *mockStore) ListRecent(_ context.Context, _ int, _ model.LeadStatus) ([]model.Lead, error) {
	return nil, nil
}
func (m *mockStore) SearchLeads(_ context.Context, _ string, _ int) ([]model.Lead, error) {
	return nil, nil
}
func (m *mockStore) UpdateLeadStatus(_ context.Context, _ string, _ model.LeadStatus) error {
	return nil
}
func (m *mockStore) CountsBySource(_ context.Context) (map[string]int, error) { return nil, nil }
func (m *mockStore) CountsByStatus(_ context.Context) (map[string]int, error) { return nil, nil }
func (m *mockStore) SaveMessage(_ context.Context, _ model.DraftedMessage) (string, error) {
	return "", nil
}
func (m *mockStore) ListMessages(_ context.Context, _ string) ([]model.DraftedMessage, error) {
	return nil, nil
}
func (m *mockStore) Migrate(_ context.Context) error { return nil }
func (m *mockStore) Close() error                    { return nil }

func TestBatch_Add_Match(t *testing.T) {
	b := NewBatch()
	b.Add(model.Lead{DisplayName: "Clinica Nova", CanonicalURL: "https://nova.example"}, "id-1")

	// Name matches are case and whitespace insensitive.
	id, ok := b.match(model.Lead{DisplayName: "  CLINICA   nova "})
	assert.True(t, ok)
	assert.Equal(t, "id-1", id)

	// URL matches require exact equality.
	id, ok = b.match(model.Lead{DisplayName: "Different Name", CanonicalURL: "https://nova.example"})
	assert.True(t, ok)
	assert.Equal(t, "id-1", id)

	_, ok = b.match(model.Lead{DisplayName: "Other", CanonicalURL: "https://other.example"})
	assert.False(t, ok)
}

func TestBatch_EmptyURLNeverMatches(t *testing.T) {
	b := NewBatch()
	b.Add(model.Lead{DisplayName: "No Website LLC"}, "id-1")

	_, ok := b.match(model.Lead{DisplayName: "Another Company", CanonicalURL: ""})
	assert.False(t, ok)
	assert.Equal(t, 1, b.Len())
}

func TestDeduplicator_Resolve_BatchTier(t *testing.T) {
	st := &mockStore{}
	d := New(st)
	b := NewBatch()
	b.Add(model.Lead{DisplayName: "Clinica Nova"}, "id-1")

	id, dup := d.Resolve(context.Background(), model.Lead{DisplayName: "clinica nova"}, b)
	assert.True(t, dup)
	assert.Equal(t, "id-1", id)

	// Batch hits never reach the store.
	assert.Equal(t, 0, st.lookups)
}

func TestDeduplicator_Resolve_StoreTier(t *testing.T) {
	st := &mockStore{ids: map[string]string{"clinica nova": "stored-1"}}
	d := New(st)

	id, dup := d.Resolve(context.Background(), model.Lead{DisplayName: "Clinica Nova"}, NewBatch())
	assert.True(t, dup)
	assert.Equal(t, "stored-1", id)
	assert.Equal(t, 1, st.lookups)
}

func TestDeduplicator_Resolve_NotFound(t *testing.T) {
	d := New(&mockStore{})

	id, dup := d.Resolve(context.Background(), model.Lead{DisplayName: "Brand New"}, NewBatch())
	assert.False(t, dup)
	assert.Empty(t, id)
}

func TestDeduplicator_Resolve_StoreErrorTreatedAsNew(t *testing.T) {
	d := New(&mockStore{err: eris.New("connection refused")})

	_, dup := d.Resolve(context.Background(), model.Lead{DisplayName: "Clinica Nova"}, NewBatch())
	assert.False(t, dup)
}
