package collector

import (
	"context"

	"github.com/ekslens/leadgen-cli/pkg/places"
	"github.com/ekslens/leadgen-cli/pkg/serp"
)

// mockSerpClient implements serp.Client for testing.
type mockSerpClient struct {
	responses map[string]*serp.SearchResponse // keyed by query text
	err       error
	calls     int
	queries   []serp.Query
}

func (m *mockSerpClient) Search(_ context.Context, q serp.Query) (*serp.SearchResponse, error) {
	m.calls++
	m.queries = append(m.queries, q)
	if m.err != nil {
		return nil, m.err
	}
	if m.responses != nil {
		if resp, ok := m.responses[q.Text]; ok {
			return resp, nil
		}
	}
	return &serp.SearchResponse{}, nil
}

func (m *mockSerpClient) Account(_ context.Context) (*serp.AccountResponse, error) {
	return &serp.AccountResponse{PlanSearchesLeft: 42}, nil
}

// mockPlacesClient implements places.Client for testing.
type mockPlacesClient struct {
	responses map[string]*places.TextSearchResponse // keyed by query
	err       error
	calls     int
}

func (m *mockPlacesClient) TextSearch(_ context.Context, query string, _ int) (*places.TextSearchResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.responses != nil {
		if resp, ok := m.responses[query]; ok {
			return resp, nil
		}
	}
	return &places.TextSearchResponse{}, nil
}
