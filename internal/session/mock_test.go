package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/ekslens/leadgen-cli/internal/collector"
	"github.com/ekslens/leadgen-cli/internal/model"
	"github.com/ekslens/leadgen-cli/pkg/anthropic"
)

// mockStore implements store.Store for testing.
type mockStore struct {
	mu        sync.Mutex
	existing  map[string]string // normalized name -> id
	inserted  []model.Lead
	messages  []model.DraftedMessage
	insertErr error
	nextID    int
}

func (m *mockStore) FindByIdentity(_ context.Context, name, _ string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.existing[model.NormalizedName(name)]; ok {
		return id, true, nil
	}
	return "", false, nil
}

func (m *mockStore) InsertLead(_ context.Context, lead model.Lead) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return "", m.insertErr
	}
	m.nextID++
	lead.ID = fmt.Sprintf("lead-%d", m.nextID)
	m.inserted = append(m.inserted, lead)
	return lead.ID, nil
}

func (m *mockStore) ListRecent(_ context.Context, _ int, _ model.LeadStatus) ([]model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Lead{}, m.inserted...), nil
}

func (m *mockStore) SearchLeads(_ context.Context, _ string, _ int) ([]model.Lead, error) {
	return nil, nil
}

func (m *mockStore) UpdateLeadStatus(_ context.Context, _ string, _ model.LeadStatus) error {
	return nil
}

func (m *mockStore) CountsBySource(_ context.Context) (map[string]int, error) { return nil, nil }
func (m *mockStore) CountsByStatus(_ context.Context) (map[string]int, error) { return nil, nil }

func (m *mockStore) SaveMessage(_ context.Context, msg model.DraftedMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return "msg-1", nil
}

func (m *mockStore) ListMessages(_ context.Context, _ string) ([]model.DraftedMessage, error) {
	return nil, nil
}

func (m *mockStore) Migrate(_ context.Context) error { return nil }
func (m *mockStore) Close() error                    { return nil }

func (m *mockStore) insertedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inserted)
}

// stubCollector implements collector.Collector with canned results.
// onSearch, when set, runs inside Search with the worker's context.
type stubCollector struct {
	name        string
	available   bool
	leads       []model.Lead
	searches    int
	invocations int
	onSearch    func(ctx context.Context)
}

func (s *stubCollector) Name() string    { return s.name }
func (s *stubCollector) Available() bool { return s.available }

func (s *stubCollector) Search(ctx context.Context, _ collector.Request) collector.Result {
	s.invocations++
	if s.onSearch != nil {
		s.onSearch(ctx)
	}
	return collector.Result{Leads: s.leads, Searches: s.searches}
}

// mockAnthropicClient implements anthropic.Client for testing.
type mockAnthropicClient struct {
	text  string
	err   error
	calls int
}

func (m *mockAnthropicClient) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: m.text}},
	}, nil
}
