package collector

import (
	"context"

	"github.com/ekslens/leadgen-cli/internal/model"
)

// Request bounds one collector invocation. Budget caps the number of
// external searches; Stop is the cooperative cancellation checkpoint,
// consulted between keyword and city iterations (never mid-call).
type Request struct {
	Cities   []string
	Keywords []string
	Budget   int
	Stop     func() bool
}

// Result is what a collector hands back to the orchestrator. Collectors
// absorb their own failures; a failed attempt contributes zero leads.
type Result struct {
	Leads    []model.Lead
	Searches int
}

// Collector wraps one external lookup mechanism. Available reports
// whether the collector's external dependency is configured; when it is
// false, Search returns an empty result without error.
type Collector interface {
	Name() string
	Available() bool
	Search(ctx context.Context, req Request) Result
}

func stopped(req Request) bool {
	return req.Stop != nil && req.Stop()
}
