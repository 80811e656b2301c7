package kconductor

import (
	"context"

	"github.com/papapumpkin/quasar/internal/ksession"
)

// RunAllPhases runs every registered phase in declared order, stopping
// at the first failed or blocked phase when stopOnFailure is set.
func (c *Conductor) RunAllPhases(ctx context.Context, stopOnFailure bool) ([]ksession.PhaseResult, error) {
	var results []ksession.PhaseResult
	for _, name := range c.registry.PhasesInOrder() {
		result, err := c.RunPhase(ctx, name)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if stopOnFailure && (result.Status == ksession.PhaseFailed || result.Status == ksession.PhaseBlocked) {
			break
		}
	}
	if c.session != nil {
		c.session.MarkCompletedIfAllDone(c.registry.PhasesInOrder())
	}
	return results, nil
}

// RunToPhase runs phases in order up to and including targetPhase,
// stopping early on failure or blockage.
func (c *Conductor) RunToPhase(ctx context.Context, targetPhase string) ([]ksession.PhaseResult, error) {
	var results []ksession.PhaseResult
	for _, name := range c.registry.PhasesInOrder() {
		result, err := c.RunPhase(ctx, name)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if name == targetPhase {
			break
		}
		if result.Status == ksession.PhaseFailed || result.Status == ksession.PhaseBlocked {
			break
		}
	}
	return results, nil
}

// RunFromPhase runs phases in order starting at startPhase, stopping
// early on failure or blockage.
func (c *Conductor) RunFromPhase(ctx context.Context, startPhase string) ([]ksession.PhaseResult, error) {
	var results []ksession.PhaseResult
	started := false
	for _, name := range c.registry.PhasesInOrder() {
		if name == startPhase {
			started = true
		}
		if !started {
			continue
		}
		result, err := c.RunPhase(ctx, name)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if result.Status == ksession.PhaseFailed || result.Status == ksession.PhaseBlocked {
			break
		}
	}
	return results, nil
}
