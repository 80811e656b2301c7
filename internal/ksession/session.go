// Package ksession holds the session state (spec.md §4.10 and §3): the
// per-run accumulator of phase results, gate results, completed phases,
// and cumulative validator counters. Grounded in original_source/magnet/
// kernel/schema.py's SessionState/PhaseResult/GateResult dataclasses and
// the teacher's mutex-guarded-snapshot idiom (internal/nebula/worker.go's
// SnapshotNebula).
package ksession

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/quasar/internal/kregistry"
)

// Status is the overall session rollup status.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusActive       Status = "active"
	StatusPaused       Status = "paused"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
	StatusCancelled    Status = "cancelled"
)

// PhaseStatus is a phase result's terminal status.
type PhaseStatus string

const (
	PhasePending   PhaseStatus = "pending"
	PhaseRunning   PhaseStatus = "running"
	PhaseCompleted PhaseStatus = "completed"
	PhaseFailed    PhaseStatus = "failed"
	PhaseBlocked   PhaseStatus = "blocked"
	PhaseSkipped   PhaseStatus = "skipped"
)

// PhaseResult is one phase's outcome for this session.
type PhaseResult struct {
	PhaseName       string
	Status          PhaseStatus
	StartedAt       time.Time
	CompletedAt     time.Time
	ValidatorsRun   int
	ValidatorsPassed int
	ValidatorsFailed int
	Errors          []string
	Warnings        []string
}

// Duration returns the wall-clock time the phase took.
func (r PhaseResult) Duration() time.Duration {
	if r.CompletedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// PassRate returns validators passed / validators run, 0 if none ran.
func (r PhaseResult) PassRate() float64 {
	if r.ValidatorsRun == 0 {
		return 0
	}
	return float64(r.ValidatorsPassed) / float64(r.ValidatorsRun)
}

// GateResult is one gate's evaluation outcome.
type GateResult struct {
	GateName         string
	Condition        kregistry.GateCondition
	Passed           bool
	EvaluatedAt      time.Time
	Threshold        float64
	HasThreshold     bool
	ActualValue      float64
	HasActualValue   bool
	BlockingFailures []string
}

// Session is the per-run aggregate record.
type Session struct {
	mu sync.Mutex

	ID              string
	DesignID        string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CurrentPhase    string
	CompletedPhases []string
	PhaseResults    map[string]PhaseResult
	GateResults     map[string]GateResult

	totalValidatorsRun    int
	totalValidatorsPassed int
}

// New creates a session for designID.
func New(designID string) *Session {
	now := time.Now()
	return &Session{
		ID: uuid.NewString(), DesignID: designID, Status: StatusInitializing,
		CreatedAt: now, UpdatedAt: now,
		PhaseResults: make(map[string]PhaseResult),
		GateResults:  make(map[string]GateResult),
	}
}

// AddPhaseResult records r, updating cumulative counters and appending to
// CompletedPhases iff r.Status == PhaseCompleted.
func (s *Session) AddPhaseResult(r PhaseResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PhaseResults[r.PhaseName] = r
	s.totalValidatorsRun += r.ValidatorsRun
	s.totalValidatorsPassed += r.ValidatorsPassed
	s.CurrentPhase = r.PhaseName
	s.UpdatedAt = time.Now()

	if r.Status == PhaseCompleted {
		for _, done := range s.CompletedPhases {
			if done == r.PhaseName {
				return
			}
		}
		s.CompletedPhases = append(s.CompletedPhases, r.PhaseName)
		if s.Status == StatusInitializing {
			s.Status = StatusActive
		}
		return
	}
	if r.Status == PhaseFailed {
		s.Status = StatusFailed
	}
}

// AddGateResult records g.
func (s *Session) AddGateResult(g GateResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GateResults[g.GateName] = g
	s.UpdatedAt = time.Now()
}

// IsCompleted reports whether phaseName is in CompletedPhases.
func (s *Session) IsCompleted(phaseName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.CompletedPhases {
		if p == phaseName {
			return true
		}
	}
	return false
}

// OverallPassRate returns cumulative passed/run across every phase run so
// far, zero when no validators have run.
func (s *Session) OverallPassRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.totalValidatorsRun == 0 {
		return 0
	}
	return float64(s.totalValidatorsPassed) / float64(s.totalValidatorsRun)
}

// MarkCompletedIfAllDone sets Status to Completed when every phase in
// allPhases is present in CompletedPhases and no phase has failed.
func (s *Session) MarkCompletedIfAllDone(allPhases []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusFailed {
		return
	}
	done := make(map[string]bool, len(s.CompletedPhases))
	for _, p := range s.CompletedPhases {
		done[p] = true
	}
	for _, p := range allPhases {
		if !done[p] {
			return
		}
	}
	s.Status = StatusCompleted
}

// Snapshot returns a deep copy of the session, safe to read concurrently
// with further mutation.
func (s *Session) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := Session{
		ID: s.ID, DesignID: s.DesignID, Status: s.Status,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt, CurrentPhase: s.CurrentPhase,
		CompletedPhases:       append([]string(nil), s.CompletedPhases...),
		PhaseResults:          make(map[string]PhaseResult, len(s.PhaseResults)),
		GateResults:           make(map[string]GateResult, len(s.GateResults)),
		totalValidatorsRun:    s.totalValidatorsRun,
		totalValidatorsPassed: s.totalValidatorsPassed,
	}
	for k, v := range s.PhaseResults {
		cp.PhaseResults[k] = v
	}
	for k, v := range s.GateResults {
		cp.GateResults[k] = v
	}
	return cp
}
