package job

import (
	"sync"
	"time"

	"github.com/ekslens/leadgen-cli/internal/model"
)

// LogCapacity bounds the in-memory log ring exposed to pollers.
const LogCapacity = 100

// Terminal is the outcome of a finished run.
type Terminal string

const (
	TerminalCompleted Terminal = "completed"
	TerminalFailed    Terminal = "failed"
	TerminalCancelled Terminal = "cancelled"
)

// Entry is one user-facing log line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Status is a consistent snapshot of the job state.
type Status struct {
	Running       bool   `json:"is_running"`
	Progress      int    `json:"progress"`
	StatusMessage string `json:"status_message"`
}

// Controller owns the single mutable run state shared between the
// worker goroutine and any number of status pollers. Every field is
// guarded by one mutex so readers never observe a torn snapshot.
type Controller struct {
	mu sync.Mutex

	running     bool
	progress    int
	status      string
	stopFlag    bool
	logs        []Entry
	lastResults *model.Report
}

// New creates an idle controller.
func New() *Controller {
	return &Controller{status: "system ready"}
}

// TryStart atomically transitions idle -> running. It returns false,
// with no state mutated, when a job is already active.
func (c *Controller) TryStart() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return false
	}
	c.running = true
	c.progress = 0
	c.status = "starting search"
	c.stopFlag = false
	c.logs = nil
	return true
}

// Finish records a terminal transition. The running flag clears in all
// cases. A failed run resets progress and leaves the previous results
// intact; a completed run pins progress at 100.
func (c *Controller) Finish(t Terminal, statusMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.status = statusMsg
	switch t {
	case TerminalCompleted:
		c.progress = 100
	case TerminalFailed:
		c.progress = 0
	}
}

// RequestStop raises the advisory cancellation flag. In-flight external
// calls are never interrupted; the worker observes the flag at phase
// boundaries.
func (c *Controller) RequestStop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopFlag = true
}

// Stopped reports whether a stop has been requested.
func (c *Controller) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopFlag
}

// Running reports whether a job is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetProgress advances the progress percentage. Within a run progress
// is monotonically non-decreasing; regressions are ignored and values
// are clamped to [0,100].
func (c *Controller) SetProgress(p int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p > 100 {
		p = 100
	}
	if p > c.progress {
		c.progress = p
	}
}

// SetStatus updates the human-readable status message.
func (c *Controller) SetStatus(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = msg
}

// Log appends a user-facing log entry, evicting the oldest entry once
// the ring is at capacity.
func (c *Controller) Log(level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, Entry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   msg,
	})
	if len(c.logs) > LogCapacity {
		c.logs = c.logs[len(c.logs)-LogCapacity:]
	}
}

// Logs returns a copy of the current log entries, oldest first.
func (c *Controller) Logs() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.logs))
	copy(out, c.logs)
	return out
}

// Snapshot returns a consistent view of the run state.
func (c *Controller) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Running:       c.running,
		Progress:      c.progress,
		StatusMessage: c.status,
	}
}

// SetLastResults stores the report of the most recent completed run.
func (c *Controller) SetLastResults(r *model.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastResults = r
}

// LastResults returns the most recent completed report, or nil.
func (c *Controller) LastResults() *model.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResults
}
