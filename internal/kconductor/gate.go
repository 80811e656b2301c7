package kconductor

import (
	"time"

	"github.com/papapumpkin/quasar/internal/kregistry"
	"github.com/papapumpkin/quasar/internal/ksession"
)

// evaluateGate dispatches on the phase's declared gate condition, one
// branch per kregistry.GateCondition, mirroring the per-mode strategy
// dispatch internal/nebula/gate.go uses for its gate modes — here
// inlined as a switch since there are only four fixed conditions (THRESHOLD
// reads the phase's GateThreshold) rather than pluggable user strategies.
func (c *Conductor) evaluateGate(phase kregistry.Phase, result ksession.PhaseResult) ksession.GateResult {
	gate := ksession.GateResult{
		GateName:    phase.Name + "_gate",
		Condition:   phase.GateCondition,
		EvaluatedAt: time.Now(),
	}

	switch phase.GateCondition {
	case kregistry.GateAllPass:
		gate.Passed = result.ValidatorsFailed == 0
		gate.ActualValue, gate.HasActualValue = result.PassRate(), true
		gate.Threshold, gate.HasThreshold = 1.0, true

	case kregistry.GateCriticalPass:
		failCount, _ := c.state.Get("compliance.fail_count", 0).(int)
		gate.Passed = failCount == 0
		gate.ActualValue, gate.HasActualValue = float64(failCount), true
		gate.Threshold, gate.HasThreshold = 0.0, true

	case kregistry.GateThreshold:
		gate.Threshold, gate.HasThreshold = phase.GateThreshold, true
		gate.ActualValue, gate.HasActualValue = result.PassRate(), true
		gate.Passed = result.PassRate() >= phase.GateThreshold

	case kregistry.GateManual:
		gate.Passed = false
		gate.BlockingFailures = []string{"manual approval required"}

	default:
		gate.Passed = false
		gate.BlockingFailures = []string{"unrecognized gate condition: " + string(phase.GateCondition)}
	}

	if !gate.Passed && len(gate.BlockingFailures) == 0 {
		gate.BlockingFailures = append([]string(nil), result.Errors...)
	}
	return gate
}

// ApproveGate manually approves a MANUAL gate already recorded in the
// session, the only way such a gate can pass.
func (c *Conductor) ApproveGate(gateName string) bool {
	if c.session == nil {
		return false
	}
	snap := c.session.Snapshot()
	gate, ok := snap.GateResults[gateName]
	if !ok || gate.Condition != kregistry.GateManual {
		return false
	}
	gate.Passed = true
	gate.BlockingFailures = nil
	c.session.AddGateResult(gate)
	return true
}
