package main

import (
	"context"
	"net/http"
	"time"

	"github.com/ekslens/leadgen-cli/internal/augment"
	"github.com/ekslens/leadgen-cli/internal/collector"
	"github.com/ekslens/leadgen-cli/internal/industry"
	"github.com/ekslens/leadgen-cli/internal/job"
	"github.com/ekslens/leadgen-cli/internal/session"
	"github.com/ekslens/leadgen-cli/internal/store"
	"github.com/ekslens/leadgen-cli/pkg/anthropic"
	"github.com/ekslens/leadgen-cli/pkg/places"
	"github.com/ekslens/leadgen-cli/pkg/serp"
)

// appEnv wires the store, policies, collectors and orchestrator for a
// command invocation.
type appEnv struct {
	store store.Store
	orch  *session.Orchestrator
	ctrl  *job.Controller
}

func (e *appEnv) Close() {
	e.store.Close() //nolint:errcheck
}

// initStore opens the configured backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, &store.PoolConfig{
		MaxConns: cfg.Store.MaxConns,
		MinConns: cfg.Store.MinConns,
	})
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// initEnv builds the full orchestration environment. Collectors and the
// drafter degrade to unavailable when their credentials are missing.
func initEnv(ctx context.Context, industryID string) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	reg := industry.NewRegistry()
	if err := reg.ApplyOverridesFile(cfg.Industry.OverridesFile); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	var serpClient serp.Client
	if cfg.Serp.Key != "" {
		serpClient = serp.NewClient(cfg.Serp.Key,
			serp.WithBaseURL(cfg.Serp.BaseURL),
			serp.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Serp.TimeoutSecs) * time.Second}),
		)
	}

	var placesClient places.Client
	if cfg.Places.Key != "" {
		placesClient = places.NewClient(cfg.Places.Key,
			places.WithBaseURL(cfg.Places.BaseURL),
			places.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Places.TimeoutSecs) * time.Second}),
		)
	}

	var draftClient anthropic.Client
	if cfg.Anthropic.Key != "" {
		draftClient = anthropic.NewClient(cfg.Anthropic.Key)
	}
	drafter := augment.New(draftClient, cfg.Anthropic)

	// Fixed collector priority order: serpapi first, then places.
	bind := func(p industry.Policy) []collector.Collector {
		return []collector.Collector{
			collector.NewSerp(serpClient, p, cfg.Serp),
			collector.NewPlaces(placesClient, p, cfg.Places),
		}
	}

	if industryID == "" {
		industryID = cfg.Industry.Default
	}

	ctrl := job.New()
	orch := session.New(ctrl, st, reg, drafter, bind, industryID, session.Options{
		DraftSampleSize: cfg.Search.DraftSampleSize,
		ReportDir:       cfg.Search.ReportDir,
	})

	return &appEnv{store: st, orch: orch, ctrl: ctrl}, nil
}
