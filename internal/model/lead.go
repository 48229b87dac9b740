package model

import (
	"strings"
	"time"
)

// LeadStatus represents the outreach lifecycle state of a lead.
// Transitions past "pending" are driven by downstream outreach
// workflows, never by the aggregation session itself.
type LeadStatus string

const (
	LeadStatusPending   LeadStatus = "pending"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusResponded LeadStatus = "responded"
	LeadStatusDiscarded LeadStatus = "discarded"
)

// Valid reports whether s is a known lifecycle state.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusPending, LeadStatusContacted, LeadStatusResponded, LeadStatusDiscarded:
		return true
	}
	return false
}

// Lead represents a discovered business or professional entity with
// provenance metadata. Two leads denote the same real-world entity when
// they match on normalized DisplayName or on a non-empty CanonicalURL.
type Lead struct {
	ID               string     `json:"id,omitempty"`
	DisplayName      string     `json:"display_name"`
	CanonicalURL     string     `json:"canonical_url,omitempty"`
	Description      string     `json:"description,omitempty"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Source           string     `json:"source"`
	SearchTerm       string     `json:"search_term,omitempty"`
	Industry         string     `json:"industry,omitempty"`
	ExtractionMethod string     `json:"extraction_method,omitempty"`
	Status           LeadStatus `json:"status"`
	FoundAt          time.Time  `json:"found_at"`
}

// HasIdentity reports whether the lead carries enough data to be
// persisted: a non-empty display name after trimming.
func (l Lead) HasIdentity() bool {
	return strings.TrimSpace(l.DisplayName) != ""
}
