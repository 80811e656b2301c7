// Package kmeta is the kernel meta-validator (spec.md §4.11): it runs
// after, or independently of, the main phase pipeline and inspects
// kernel.phase_history and kernel.gate_status (not kernel.status) to
// produce a validation summary and a completeness boolean. compliance and
// stability are the critical phases this checker enforces.
package kmeta

import (
	"fmt"
	"sort"
)

// stateReader is the minimal surface this package needs from a state
// store.
type stateReader interface {
	Get(path string, def any) any
}

// CriticalPhases names the phases whose absence from a non-empty
// kernel.phase_history is an ERROR. An empty history is a WARNING.
var CriticalPhases = []string{"compliance", "stability"}

// State is the meta-validator's overall verdict.
type State string

const (
	StatePassed  State = "PASSED"
	StateWarning State = "WARNING"
	StateError   State = "ERROR"
)

// Summary is the meta-validator's report, written to
// kernel.validation_summary.
type Summary struct {
	State               State
	CompletedPhaseCount int
	MissingCriticalPhases []string
	FailedGates          []string
	Message              string
}

// Validator inspects kernel.* rollup fields and reports a Summary.
type Validator struct{}

// New builds a meta-validator.
func New() *Validator { return &Validator{} }

// Run reads kernel.phase_history/gate_status from state and builds a
// Summary; kernel.status is not read. It never errors: a missing or
// malformed kernel.phase_history reads as empty (WARNING) and a missing
// or malformed kernel.gate_status reads as no gates, rather than raising,
// since this validator's whole purpose is to report on rollup health.
func (v *Validator) Run(state stateReader) Summary {
	phaseHistory := toStringSlice(state.Get("kernel.phase_history", nil))
	gateStatus := toBoolMap(state.Get("kernel.gate_status", nil))

	completed := make(map[string]bool, len(phaseHistory))
	for _, p := range phaseHistory {
		completed[p] = true
	}

	var missingCritical []string
	for _, p := range CriticalPhases {
		if !completed[p] {
			missingCritical = append(missingCritical, p)
		}
	}
	sort.Strings(missingCritical)

	var failedGates []string
	for name, passed := range gateStatus {
		if !passed {
			failedGates = append(failedGates, name)
		}
	}
	sort.Strings(failedGates)

	summary := Summary{
		CompletedPhaseCount:   len(phaseHistory),
		MissingCriticalPhases: missingCritical,
		FailedGates:           failedGates,
	}

	switch {
	case len(phaseHistory) == 0:
		summary.State = StateWarning
		summary.Message = "no phases have completed yet"
	case len(missingCritical) > 0:
		summary.State = StateError
		summary.Message = fmt.Sprintf("missing critical phases: %v", missingCritical)
	case len(failedGates) > 0:
		summary.State = StateError
		summary.Message = fmt.Sprintf("failed gates: %v", failedGates)
	default:
		summary.State = StatePassed
		summary.Message = "all critical phases completed, no failed gates"
	}

	return summary
}

// IsComplete reports whether a Summary represents a fully validated run:
// no missing critical phases and no failed gates, regardless of warnings.
func (s Summary) IsComplete() bool {
	return len(s.MissingCriticalPhases) == 0 && len(s.FailedGates) == 0
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toBoolMap(v any) map[string]bool {
	switch vv := v.(type) {
	case map[string]bool:
		return vv
	case map[string]any:
		out := make(map[string]bool, len(vv))
		for k, e := range vv {
			if b, ok := e.(bool); ok {
				out[k] = b
			}
		}
		return out
	default:
		return nil
	}
}
