package model

import "time"

// SessionStats is the aggregate counter set owned by a single
// orchestrator run. It is mutated only by the worker goroutine and
// copied by value into the final Report.
type SessionStats struct {
	SearchesPerformed  int           `json:"searches_performed"`
	LeadsFound         int           `json:"leads_found"`
	LeadsSaved         int           `json:"leads_saved"`
	DuplicatesResolved int           `json:"duplicates_resolved"`
	Rejected           int           `json:"rejected"`
	MessagesDrafted    int           `json:"messages_drafted"`
	Elapsed            time.Duration `json:"elapsed"`
	Industry           string        `json:"industry"`
}

// PhaseSummary describes one collector phase's contribution to a session.
type PhaseSummary struct {
	Source     string `json:"source"`
	Skipped    bool   `json:"skipped"`
	Found      int    `json:"found"`
	Saved      int    `json:"saved"`
	Duplicates int    `json:"duplicates"`
	Rejected   int    `json:"rejected"`
}

// DraftedMessage is an outreach draft generated for a persisted lead.
type DraftedMessage struct {
	LeadID   string    `json:"lead_id"`
	LeadName string    `json:"lead_name"`
	Content  string    `json:"content"`
	Industry string    `json:"industry"`
	Drafted  time.Time `json:"drafted_at"`
}

// Report is the session artifact produced by a completed run. It is
// retained as the controller's last result and serialized to a
// timestamped audit file.
type Report struct {
	ID         string           `json:"id"`
	Industry   string           `json:"industry"`
	TotalLeads int              `json:"total_leads"`
	Phases     []PhaseSummary   `json:"phases"`
	Sample     []Lead           `json:"sample_leads,omitempty"`
	Messages   []DraftedMessage `json:"messages,omitempty"`
	Stats      SessionStats     `json:"stats"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}
