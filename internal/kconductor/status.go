package kconductor

const conductorSource = "kernel/conductor"

// WriteToState publishes the session's rollup onto the kernel.* state
// paths, via the trusted internal write path (these are kernel
// bookkeeping fields, not user-refinable parameters).
func (c *Conductor) WriteToState() {
	if c.session == nil {
		return
	}
	snap := c.session.Snapshot()

	_, _ = c.state.SetInternal("kernel.status", string(snap.Status), conductorSource)
	_, _ = c.state.SetInternal("kernel.current_phase", snap.CurrentPhase, conductorSource)
	_, _ = c.state.SetInternal("kernel.phase_history", append([]string(nil), snap.CompletedPhases...), conductorSource)

	gateStatus := make(map[string]any, len(snap.GateResults))
	for name, g := range snap.GateResults {
		gateStatus[name] = g.Passed
	}
	_, _ = c.state.SetInternal("kernel.gate_status", gateStatus, conductorSource)
}

// GetStatusSummary reports a snapshot of the conductor's session state,
// grounded in original_source's get_status_summary.
func (c *Conductor) GetStatusSummary() map[string]any {
	if c.session == nil {
		return map[string]any{"status": "no_session"}
	}
	snap := c.session.Snapshot()

	gateResults := make(map[string]any, len(snap.GateResults))
	for name, g := range snap.GateResults {
		gateResults[name] = map[string]any{
			"passed":    g.Passed,
			"condition": string(g.Condition),
		}
	}

	var totalRun, totalPassed int
	for _, r := range snap.PhaseResults {
		totalRun += r.ValidatorsRun
		totalPassed += r.ValidatorsPassed
	}

	return map[string]any{
		"session_id":              snap.ID,
		"design_id":               snap.DesignID,
		"status":                  string(snap.Status),
		"current_phase":           snap.CurrentPhase,
		"completed_phases":        append([]string(nil), snap.CompletedPhases...),
		"total_validators_run":    totalRun,
		"total_validators_passed": totalPassed,
		"overall_pass_rate":       c.session.OverallPassRate(),
		"gate_results":            gateResults,
	}
}

// AvailablePhases lists every registered phase in declared order, a
// supplement over original_source's conductor (§4.14 facade addition).
func (c *Conductor) AvailablePhases() []string {
	return c.registry.PhasesInOrder()
}

// PhaseDependencies returns the transitive dependency set for a phase.
func (c *Conductor) PhaseDependencies(phaseName string) []string {
	return c.registry.Dependencies(phaseName)
}
