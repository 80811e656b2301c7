// Package kvalidate is the validator pipeline executor (spec.md §4.7). A
// validator is modeled as a small interface — id, declared dependencies,
// a Run operation — dispatched by id with no inheritance hierarchy, per
// spec.md §9's "dynamic dispatch across validators" design note.
package kvalidate

import "context"

// State is a validator's terminal outcome for one run.
type State string

const (
	StatePassed  State = "passed"
	StateWarning State = "warning"
	StateFailed  State = "failed"
)

// Finding is one reportable issue surfaced by a validator.
type Finding struct {
	ID       string
	Severity string // e.g. "info", "warning", "error", "critical"
	Message  string
	Paths    []string
}

// Result is a single validator's reported outcome. A non-nil error from
// Run (infrastructure exception) is distinct from a Result with
// State == StateFailed (a validator reporting a bad but well-formed
// result) — the former may be retried once, the latter never is.
type Result struct {
	State        State
	Findings     []Finding
	ErrorCount   int
	WarningCount int
	Message      string
}

// Validator reads (and optionally writes) state and reports a Result.
type Validator interface {
	ID() string
	// DependsOn names other validator IDs, within the same phase, that
	// must run first. Most validators declare none.
	DependsOn() []string
	// ParallelSafe reports whether this validator may run concurrently
	// with others once its declared dependencies are satisfied.
	ParallelSafe() bool
	Run(ctx context.Context, state StateAccessor) (Result, error)
}

// StateAccessor is the minimal state-store surface a validator needs;
// kstate.Store satisfies it.
type StateAccessor interface {
	Get(path string, def any) any
	GetStrict(path string) (any, error)
}
