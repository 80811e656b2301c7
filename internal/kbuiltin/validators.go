// Package kbuiltin holds a small set of concrete validators wired into
// the default phase topology. These check presence, range, and margin
// conditions already named by each phase's contract (spec.md §4.6) —
// deliberately not a naval-engineering validation suite, which spec.md
// §1's non-goals exclude beyond what contracts require as inputs and
// outputs. Grounded in original_source/magnet/validators/executor.py's
// ValidatorInterface.validate(state, context) shape, translated to
// kvalidate.Validator's Run(ctx, state) shape.
package kbuiltin

import (
	"context"
	"fmt"

	"github.com/papapumpkin/quasar/internal/kvalidate"
)

// base supplies the DependsOn/ParallelSafe boilerplate most validators
// here share: no cross-validator dependency, safe to run concurrently.
type base struct {
	id string
}

func (b base) ID() string          { return b.id }
func (b base) DependsOn() []string { return nil }
func (b base) ParallelSafe() bool  { return true }

// MissionCompleteness checks that mission.max_speed_kts is a positive
// value, the one field the mission phase's contract requires as output.
type MissionCompleteness struct{ base }

// NewMissionCompleteness builds the mission-phase completeness check.
func NewMissionCompleteness() *MissionCompleteness {
	return &MissionCompleteness{base{id: "mission_completeness"}}
}

func (v *MissionCompleteness) Run(_ context.Context, state kvalidate.StateAccessor) (kvalidate.Result, error) {
	speed, _ := state.Get("mission.max_speed_kts", 0.0).(float64)
	if speed <= 0 {
		return kvalidate.Result{
			State:      kvalidate.StateFailed,
			ErrorCount: 1,
			Message:    "mission.max_speed_kts must be positive",
			Findings: []kvalidate.Finding{{
				ID: v.id, Severity: "error",
				Message: "missing or non-positive max speed", Paths: []string{"mission.max_speed_kts"},
			}},
		}, nil
	}
	return kvalidate.Result{State: kvalidate.StatePassed, Message: "mission speed present"}, nil
}

// HullShape checks that the hull's block coefficient (hull.cb) lies in
// the admissible (0, 1] range and that displacement is positive. The
// other form coefficients are not checked.
type HullShape struct{ base }

// NewHullShape builds the hull-phase shape check.
func NewHullShape() *HullShape { return &HullShape{base{id: "hull_shape"}} }

func (v *HullShape) Run(_ context.Context, state kvalidate.StateAccessor) (kvalidate.Result, error) {
	cb, _ := state.Get("hull.cb", 0.0).(float64)
	displacement, _ := state.Get("hull.displacement_m3", 0.0).(float64)

	var findings []kvalidate.Finding
	if cb <= 0 || cb > 1 {
		findings = append(findings, kvalidate.Finding{
			ID: v.id, Severity: "error", Message: "hull.cb out of (0,1] range", Paths: []string{"hull.cb"},
		})
	}
	if displacement <= 0 {
		findings = append(findings, kvalidate.Finding{
			ID: v.id, Severity: "error", Message: "hull.displacement_m3 must be positive",
			Paths: []string{"hull.displacement_m3"},
		})
	}
	if len(findings) > 0 {
		return kvalidate.Result{State: kvalidate.StateFailed, ErrorCount: len(findings), Findings: findings,
			Message: "hull shape check failed"}, nil
	}
	return kvalidate.Result{State: kvalidate.StatePassed, Message: "hull shape within bounds"}, nil
}

// StabilityMargin checks stability.gm_transverse_m against the
// mission's required minimum, warning rather than failing on a small
// shortfall since stability is refined further downstream.
type StabilityMargin struct{ base }

// NewStabilityMargin builds the stability-phase GM margin check.
func NewStabilityMargin() *StabilityMargin {
	return &StabilityMargin{base{id: "stability_margin"}}
}

func (v *StabilityMargin) Run(_ context.Context, state kvalidate.StateAccessor) (kvalidate.Result, error) {
	gmActual, _ := state.Get("stability.gm_transverse_m", 0.0).(float64)
	gmRequired, _ := state.Get("mission.gm_min_m", 0.0).(float64)
	if gmRequired <= 0 {
		gmRequired = 0.35
	}

	switch {
	case gmActual >= gmRequired:
		return kvalidate.Result{State: kvalidate.StatePassed, Message: "GM margin satisfied"}, nil
	case gmActual >= gmRequired*0.9:
		return kvalidate.Result{
			State: kvalidate.StateWarning, WarningCount: 1,
			Message: fmt.Sprintf("GM %.2fm is within 10%% of the %.2fm minimum", gmActual, gmRequired),
			Findings: []kvalidate.Finding{{
				ID: v.id, Severity: "warning", Message: "GM margin marginal", Paths: []string{"stability.gm_transverse_m"},
			}},
		}, nil
	default:
		return kvalidate.Result{
			State: kvalidate.StateFailed, ErrorCount: 1,
			Message: fmt.Sprintf("GM %.2fm below required %.2fm", gmActual, gmRequired),
			Findings: []kvalidate.Finding{{
				ID: v.id, Severity: "error", Message: "GM margin insufficient", Paths: []string{"stability.gm_transverse_m"},
			}},
		}, nil
	}
}

// ComplianceCritical checks compliance.fail_count, the field the
// compliance gate's CRITICAL_PASS condition reads directly.
type ComplianceCritical struct{ base }

// NewComplianceCritical builds the compliance-phase critical-failure check.
func NewComplianceCritical() *ComplianceCritical {
	return &ComplianceCritical{base{id: "compliance_critical"}}
}

func (v *ComplianceCritical) Run(_ context.Context, state kvalidate.StateAccessor) (kvalidate.Result, error) {
	failCount, _ := state.Get("compliance.fail_count", 0).(int)
	if failCount == 0 {
		return kvalidate.Result{State: kvalidate.StatePassed, Message: "no critical compliance failures"}, nil
	}
	return kvalidate.Result{
		State: kvalidate.StateFailed, ErrorCount: failCount,
		Message: fmt.Sprintf("%d critical compliance failure(s)", failCount),
		Findings: []kvalidate.Finding{{
			ID: v.id, Severity: "critical", Message: "critical compliance failures present", Paths: []string{"compliance.fail_count"},
		}},
	}, nil
}
