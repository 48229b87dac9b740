package dedupe

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekslens/leadgen-cli/internal/model"
	"github.com/ekslens/leadgen-cli/internal/store"
)

// Batch tracks the identities accepted so far during one run, so that
// in-run duplicates are caught without a store round-trip.
type Batch struct {
	byName map[string]string
	byURL  map[string]string
}

// NewBatch creates an empty batch index.
func NewBatch() *Batch {
	return &Batch{
		byName: make(map[string]string),
		byURL:  make(map[string]string),
	}
}

// Add records an accepted lead under both identity keys.
func (b *Batch) Add(lead model.Lead, id string) {
	b.byName[model.NormalizedName(lead.DisplayName)] = id
	if lead.CanonicalURL != "" {
		b.byURL[lead.CanonicalURL] = id
	}
}

// Len returns the number of distinct names accepted so far.
func (b *Batch) Len() int { return len(b.byName) }

func (b *Batch) match(lead model.Lead) (string, bool) {
	if id, ok := b.byName[model.NormalizedName(lead.DisplayName)]; ok {
		return id, true
	}
	if lead.CanonicalURL != "" {
		if id, ok := b.byURL[lead.CanonicalURL]; ok {
			return id, true
		}
	}
	return "", false
}

// Deduplicator decides whether a candidate denotes an entity already
// accepted in this run or already persisted. A match on either identity
// key (normalized name, non-empty canonical URL) is sufficient.
type Deduplicator struct {
	store store.Store
}

// New creates a Deduplicator backed by the given store.
func New(s store.Store) *Deduplicator {
	return &Deduplicator{store: s}
}

// Resolve returns the existing lead id and true when the candidate is a
// duplicate. Store lookup failures are absorbed as not-found so a flaky
// store cannot abort a run; the subsequent insert will surface real
// persistence problems.
func (d *Deduplicator) Resolve(ctx context.Context, candidate model.Lead, batch *Batch) (string, bool) {
	if id, ok := batch.match(candidate); ok {
		return id, true
	}

	id, found, err := d.store.FindByIdentity(ctx, candidate.DisplayName, candidate.CanonicalURL)
	if err != nil {
		zap.L().Warn("identity lookup failed, treating as new",
			zap.String("lead", candidate.DisplayName),
			zap.Error(err),
		)
		return "", false
	}
	return id, found
}
