package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ekslens/leadgen-cli/internal/augment"
	"github.com/ekslens/leadgen-cli/internal/collector"
	"github.com/ekslens/leadgen-cli/internal/dedupe"
	"github.com/ekslens/leadgen-cli/internal/industry"
	"github.com/ekslens/leadgen-cli/internal/job"
	"github.com/ekslens/leadgen-cli/internal/model"
	"github.com/ekslens/leadgen-cli/internal/store"
)

// ErrJobRunning is returned when a start is requested while a session
// is already active.
var ErrJobRunning = eris.New("session: job already in progress")

// Request describes one aggregation session. Sources toggles
// collectors by name; a source missing from the map stays enabled, so
// a nil map runs every bound collector.
type Request struct {
	Cities      []string        `json:"cities"`
	Keywords    []string        `json:"keywords"`
	MaxSearches int             `json:"max_searches"`
	Sources     map[string]bool `json:"sources,omitempty"`
}

// CollectorFactory binds the enabled collectors to an industry policy,
// in fixed priority order.
type CollectorFactory func(industry.Policy) []collector.Collector

// Options tunes orchestrator behavior.
type Options struct {
	DraftSampleSize int
	ReportDir       string
}

// Orchestrator composes policy, collectors, deduplication, persistence
// and drafting into one search session. One worker goroutine mutates
// session state; all observable state lives in the job controller.
type Orchestrator struct {
	ctrl     *job.Controller
	store    store.Store
	dedupe   *dedupe.Deduplicator
	registry *industry.Registry
	drafter  *augment.Drafter
	bind     CollectorFactory
	opts     Options

	mu         sync.Mutex
	industryID string
	policy     industry.Policy
	collectors []collector.Collector
}

// New creates an Orchestrator bound to the given industry.
func New(ctrl *job.Controller, s store.Store, reg *industry.Registry, drafter *augment.Drafter, bind CollectorFactory, industryID string, opts Options) *Orchestrator {
	if opts.DraftSampleSize <= 0 {
		opts.DraftSampleSize = 5
	}
	if opts.ReportDir == "" {
		opts.ReportDir = "."
	}
	o := &Orchestrator{
		ctrl:     ctrl,
		store:    s,
		dedupe:   dedupe.New(s),
		registry: reg,
		drafter:  drafter,
		bind:     bind,
		opts:     opts,
	}
	o.rebind(industryID)
	return o
}

// SetIndustry switches the active policy and rebinds collectors.
// Rejected while a job is running.
func (o *Orchestrator) SetIndustry(id string) (industry.Policy, error) {
	if o.ctrl.Running() {
		return nil, ErrJobRunning
	}
	o.rebind(id)
	return o.Policy(), nil
}

func (o *Orchestrator) rebind(id string) {
	p := o.registry.Resolve(id)
	if !o.registry.Known(id) {
		id = industry.DefaultID
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.industryID = id
	o.policy = p
	o.collectors = o.bind(p)
}

// Policy returns the active industry policy.
func (o *Orchestrator) Policy() industry.Policy {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.policy
}

// IndustryID returns the active policy identifier.
func (o *Orchestrator) IndustryID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.industryID
}

// Registry exposes the policy registry to the query surface.
func (o *Orchestrator) Registry() *industry.Registry { return o.registry }

// Controller exposes the job controller to the query surface.
func (o *Orchestrator) Controller() *job.Controller { return o.ctrl }

// Store exposes the lead store to the query surface.
func (o *Orchestrator) Store() store.Store { return o.store }

// Start launches a session on a background worker. It fails fast with
// ErrJobRunning when a session is already active; the check-and-set is
// atomic, so two concurrent callers can never both start. The worker
// detaches from the caller's cancellation: the HTTP layer hands in a
// request-scoped context that dies when the handler returns, and the
// session must outlive it.
func (o *Orchestrator) Start(ctx context.Context, req Request) error {
	if !o.ctrl.TryStart() {
		return ErrJobRunning
	}
	go o.run(context.WithoutCancel(ctx), req)
	return nil
}

// RunSync executes a session on the calling goroutine. Used by the CLI.
func (o *Orchestrator) RunSync(ctx context.Context, req Request) (*model.Report, error) {
	if !o.ctrl.TryStart() {
		return nil, ErrJobRunning
	}
	o.run(ctx, req)
	return o.ctrl.LastResults(), nil
}

// run drives all phases of one session. Collector and per-candidate
// failures are absorbed; only a fault in the orchestration itself fails
// the job.
func (o *Orchestrator) run(ctx context.Context, req Request) {
	o.mu.Lock()
	policy := o.policy
	industryID := o.industryID
	collectors := o.collectors
	o.mu.Unlock()

	log := zap.L().With(zap.String("industry", industryID))

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("search failed: %v", r)
			log.Error("session panic", zap.Any("panic", r))
			o.ctrl.Log("ERROR", msg)
			o.ctrl.Finish(job.TerminalFailed, msg)
		}
	}()

	started := time.Now().UTC()
	stats := model.SessionStats{Industry: policy.Name()}
	batch := dedupe.NewBatch()

	if len(req.Keywords) == 0 {
		req.Keywords = policy.DefaultKeywords()
		if len(req.Keywords) > 5 {
			req.Keywords = req.Keywords[:5]
		}
	}
	if req.MaxSearches <= 0 {
		req.MaxSearches = 3
	}

	o.ctrl.SetStatus("configuring search")
	o.ctrl.SetProgress(10)
	o.ctrl.Log("INFO", fmt.Sprintf("search started: %d cities, %d keywords, budget %d",
		len(req.Cities), len(req.Keywords), req.MaxSearches))

	enabled := enabledCollectors(collectors, req)

	var (
		phases   []model.PhaseSummary
		accepted []model.Lead
	)

	o.ctrl.SetStatus("running searches")
	for i, col := range enabled {
		if o.ctrl.Stopped() {
			o.finalize(job.TerminalCancelled, "search stopped by user", started, stats, phases, accepted, nil, industryID)
			return
		}

		phase := model.PhaseSummary{Source: col.Name()}
		if !col.Available() {
			phase.Skipped = true
			phases = append(phases, phase)
			o.ctrl.Log("INFO", fmt.Sprintf("phase skipped: %s not configured", col.Name()))
			log.Info("collector skipped", zap.String("collector", col.Name()))
			continue
		}

		o.ctrl.Log("INFO", fmt.Sprintf("phase started: %s", col.Name()))
		res := col.Search(ctx, collector.Request{
			Cities:   req.Cities,
			Keywords: req.Keywords,
			Budget:   req.MaxSearches,
			Stop:     o.ctrl.Stopped,
		})
		stats.SearchesPerformed += res.Searches
		stats.LeadsFound += len(res.Leads)
		phase.Found = len(res.Leads)

		for _, candidate := range res.Leads {
			if !candidate.HasIdentity() {
				stats.Rejected++
				phase.Rejected++
				continue
			}
			if !policy.Validate(candidate) {
				stats.Rejected++
				phase.Rejected++
				continue
			}

			if _, dup := o.dedupe.Resolve(ctx, candidate, batch); dup {
				// Idempotent insert: resolved to the existing record.
				stats.DuplicatesResolved++
				phase.Duplicates++
				continue
			}

			id, err := o.store.InsertLead(ctx, candidate)
			if err != nil {
				o.ctrl.Log("WARNING", fmt.Sprintf("could not save lead %q", candidate.DisplayName))
				log.Warn("insert lead failed", zap.String("lead", candidate.DisplayName), zap.Error(err))
				continue
			}
			candidate.ID = id
			batch.Add(candidate, id)
			accepted = append(accepted, candidate)
			stats.LeadsSaved++
			phase.Saved++
		}

		phases = append(phases, phase)
		o.ctrl.Log("INFO", fmt.Sprintf("phase complete: %s found %d, saved %d", col.Name(), phase.Found, phase.Saved))
		o.ctrl.SetProgress(10 + 70*(i+1)/len(enabled))
	}

	var messages []model.DraftedMessage
	if o.drafter != nil && o.drafter.Available() && !o.ctrl.Stopped() {
		o.ctrl.SetStatus("drafting outreach messages")
		messages = o.draftMessages(ctx, policy, accepted)
		stats.MessagesDrafted = len(messages)
	}
	o.ctrl.SetProgress(90)

	if o.ctrl.Stopped() {
		o.finalize(job.TerminalCancelled, "search stopped by user", started, stats, phases, accepted, messages, industryID)
		return
	}

	o.finalize(job.TerminalCompleted,
		fmt.Sprintf("completed: %d leads found, %d saved", stats.LeadsFound, stats.LeadsSaved),
		started, stats, phases, accepted, messages, industryID)
}

// draftMessages generates outreach drafts for a bounded sample of the
// accepted leads, skipping leads whose draft fails.
func (o *Orchestrator) draftMessages(ctx context.Context, policy industry.Policy, accepted []model.Lead) []model.DraftedMessage {
	sample := accepted
	if len(sample) > o.opts.DraftSampleSize {
		sample = sample[:o.opts.DraftSampleSize]
	}

	var messages []model.DraftedMessage
	for _, lead := range sample {
		text, err := o.drafter.Draft(ctx, policy.EmailContext(lead))
		if err != nil {
			o.ctrl.Log("WARNING", fmt.Sprintf("draft failed for %q", lead.DisplayName))
			zap.L().Warn("draft failed", zap.String("lead", lead.DisplayName), zap.Error(err))
			continue
		}
		msg := model.DraftedMessage{
			LeadID:   lead.ID,
			LeadName: lead.DisplayName,
			Content:  text,
			Industry: lead.Industry,
			Drafted:  time.Now().UTC(),
		}
		if _, err := o.store.SaveMessage(ctx, msg); err != nil {
			zap.L().Warn("save message failed", zap.String("lead", lead.DisplayName), zap.Error(err))
		}
		messages = append(messages, msg)
		o.ctrl.Log("INFO", fmt.Sprintf("message drafted for %q", lead.DisplayName))
	}
	return messages
}

// finalize assembles the session report and records the terminal
// transition. Cancelled runs keep their partial results.
func (o *Orchestrator) finalize(t job.Terminal, statusMsg string, started time.Time, stats model.SessionStats, phases []model.PhaseSummary, accepted []model.Lead, messages []model.DraftedMessage, industryID string) {
	finished := time.Now().UTC()
	stats.Elapsed = finished.Sub(started)

	sample := accepted
	if len(sample) > 5 {
		sample = sample[:5]
	}

	report := &model.Report{
		ID:         uuid.New().String(),
		Industry:   stats.Industry,
		TotalLeads: stats.LeadsSaved,
		Phases:     phases,
		Sample:     sample,
		Messages:   messages,
		Stats:      stats,
		StartedAt:  started,
		FinishedAt: finished,
	}

	if path, err := writeReport(o.opts.ReportDir, industryID, report); err != nil {
		zap.L().Warn("write session report failed", zap.Error(err))
	} else {
		o.ctrl.Log("INFO", fmt.Sprintf("session report written: %s", path))
	}

	o.ctrl.SetLastResults(report)
	o.ctrl.Log(levelFor(t), statusMsg)
	o.ctrl.Finish(t, statusMsg)

	zap.L().Info("session finished",
		zap.String("terminal", string(t)),
		zap.Int("searches", stats.SearchesPerformed),
		zap.Int("found", stats.LeadsFound),
		zap.Int("saved", stats.LeadsSaved),
		zap.Int("duplicates", stats.DuplicatesResolved),
		zap.Duration("elapsed", stats.Elapsed),
	)
}

func levelFor(t job.Terminal) string {
	switch t {
	case job.TerminalCompleted:
		return "SUCCESS"
	case job.TerminalCancelled:
		return "WARNING"
	default:
		return "ERROR"
	}
}

func enabledCollectors(all []collector.Collector, req Request) []collector.Collector {
	var out []collector.Collector
	for _, col := range all {
		if enabled, ok := req.Sources[col.Name()]; ok && !enabled {
			continue
		}
		out = append(out, col)
	}
	return out
}
