package sync

import (
	"sync"
	"time"
)

// Status is the terminal state of one supervised cloud task.
type Status string

const (
	// StatusPushed means the remote call completed.
	StatusPushed Status = "pushed"
	// StatusSkipped means the task decided not to call the cloud at all
	// (no session, sample record). Reason says why.
	StatusSkipped Status = "skipped"
	// StatusFailed means the remote call errored. Err carries the cause.
	StatusFailed Status = "failed"
)

// Outcome records how a single background cloud task ended. Mirror tasks
// are fire-and-forget from the caller's point of view, so outcomes are the
// only place their results exist.
type Outcome struct {
	RecordID string
	Op       string // "upsert", "delete", "pull-apply"
	Status   Status
	Reason   string
	Err      error
	At       time.Time
}

// Sink collects outcomes for diagnostics.
type Sink interface {
	Record(o Outcome)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Record(Outcome) {}

// MemorySink keeps the most recent outcomes in a bounded ring, for the
// status endpoint and for tests.
type MemorySink struct {
	mu       sync.Mutex
	max      int
	outcomes []Outcome
}

func NewMemorySink(max int) *MemorySink {
	if max <= 0 {
		max = 100
	}
	return &MemorySink{max: max}
}

func (s *MemorySink) Record(o Outcome) {
	if o.At.IsZero() {
		o.At = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, o)
	if len(s.outcomes) > s.max {
		s.outcomes = s.outcomes[len(s.outcomes)-s.max:]
	}
}

// Recent returns the retained outcomes, oldest first.
func (s *MemorySink) Recent() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

// Failures returns only the retained failures, oldest first.
func (s *MemorySink) Failures() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Outcome
	for _, o := range s.outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}
