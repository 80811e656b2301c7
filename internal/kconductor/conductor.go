// Package kconductor is the phase conductor (spec.md §4.8): the central
// run_phase algorithm that checks dependencies, runs the hull synthesis
// hook, checks input/output contracts, delegates validator execution to
// package kvalidate, evaluates gates, and updates the session.
//
// Grounded in original_source/magnet/kernel/conductor.py's Conductor
// class, and in internal/nebula/gate.go's per-mode strategy dispatch
// for the gate-condition evaluation in gate.go.
package kconductor

import (
	"context"
	"fmt"
	"time"

	"github.com/papapumpkin/quasar/internal/kcontract"
	"github.com/papapumpkin/quasar/internal/kregistry"
	"github.com/papapumpkin/quasar/internal/ksession"
	"github.com/papapumpkin/quasar/internal/ksynth"
	"github.com/papapumpkin/quasar/internal/kvalidate"
)

// stateStore is the state-store surface the conductor needs: validator
// pipeline reads, contract checks, and trusted internal writes for its
// own kernel.* bookkeeping.
type stateStore interface {
	kvalidate.StateAccessor
	SetInternal(path string, value any, source string) (bool, error)
}

// Conductor orchestrates phase execution against a registry, a state
// store, and a session.
type Conductor struct {
	registry   *kregistry.Registry
	state      stateStore
	contracts  *kcontract.Checker
	executor   *kvalidate.Executor
	synth      *ksynth.Engine
	session    *ksession.Session
	validators map[string][]kvalidate.Validator
}

// New builds a Conductor. session may be nil; a conductor with no
// session still runs phases but performs no session bookkeeping, matching
// original_source's "if self._session:" guards throughout conductor.py.
func New(registry *kregistry.Registry, state stateStore, session *ksession.Session) *Conductor {
	return &Conductor{
		registry:   registry,
		state:      state,
		contracts:  kcontract.New(),
		executor:   kvalidate.NewExecutor(),
		synth:      ksynth.NewEngine(),
		session:    session,
		validators: make(map[string][]kvalidate.Validator),
	}
}

// RegisterValidators attaches the validator list a phase runs.
func (c *Conductor) RegisterValidators(phaseName string, vs []kvalidate.Validator) {
	c.validators[phaseName] = vs
}

// Session returns the conductor's session, or nil if none was set.
func (c *Conductor) Session() *ksession.Session { return c.session }

// RunPhase runs a single phase end to end: dependency check, hull
// synthesis hook, input contract, validator pipeline, output contract,
// gate evaluation, session update.
func (c *Conductor) RunPhase(ctx context.Context, phaseName string) (ksession.PhaseResult, error) {
	phase, ok := c.registry.Get(phaseName)
	if !ok {
		result := ksession.PhaseResult{
			PhaseName: phaseName,
			Status:    ksession.PhaseFailed,
			Errors:    []string{fmt.Sprintf("unknown phase: %s", phaseName)},
		}
		c.updateSession(result)
		return result, nil
	}

	for _, dep := range phase.DependsOn {
		if c.session != nil && !c.session.IsCompleted(dep) {
			result := ksession.PhaseResult{
				PhaseName: phaseName,
				Status:    ksession.PhaseBlocked,
				Errors:    []string{fmt.Sprintf("dependency not completed: %s", dep)},
			}
			c.updateSession(result)
			return result, nil
		}
	}

	// Hull synthesis hook (spec.md §4.9): must run before the input
	// contract check, since synthesis is what populates hull.lwl etc.
	if phaseName == "hull" && !c.hullExists() {
		if msg, ok := c.runHullSynthesis(ctx); !ok {
			result := ksession.PhaseResult{
				PhaseName: phaseName,
				Status:    ksession.PhaseFailed,
				Errors:    []string{"hull synthesis failed: " + msg},
			}
			c.updateSession(result)
			return result, nil
		}
	}

	inputResult, err := c.contracts.CheckInputs(phaseName, phase.Contract.RequiredInputs, c.state)
	if err != nil {
		return ksession.PhaseResult{}, err
	}
	if !inputResult.Satisfied {
		result := ksession.PhaseResult{
			PhaseName: phaseName,
			Status:    ksession.PhaseBlocked,
			Errors:    []string{"missing required inputs: " + fmt.Sprint(inputResult.Missing)},
		}
		c.updateSession(result)
		return result, nil
	}

	result, err := c.executePhase(ctx, phase)
	if err != nil {
		return ksession.PhaseResult{}, err
	}

	outputResult, err := c.contracts.CheckOutputs(phaseName, phase.Contract.RequiredOutputs, c.state)
	if err != nil {
		return ksession.PhaseResult{}, err
	}
	if !outputResult.Satisfied {
		result.Status = ksession.PhaseFailed
		result.Errors = append(result.Errors, outputResult.Message)
	}

	if phase.IsGate && result.Status == ksession.PhaseCompleted {
		gateResult := c.evaluateGate(phase, result)
		if c.session != nil {
			c.session.AddGateResult(gateResult)
		}
		if !gateResult.Passed {
			result.Status = ksession.PhaseFailed
			result.Errors = append(result.Errors, fmt.Sprintf("gate failed: %v", gateResult.BlockingFailures))
		}
	}

	c.updateSession(result)

	return result, nil
}

func (c *Conductor) updateSession(result ksession.PhaseResult) {
	if c.session != nil {
		c.session.AddPhaseResult(result)
	}
}

// executePhase delegates validator execution to kvalidate.Executor and
// folds the aggregated outcome into a PhaseResult.
func (c *Conductor) executePhase(ctx context.Context, phase kregistry.Phase) (ksession.PhaseResult, error) {
	startedAt := time.Now()
	result := ksession.PhaseResult{PhaseName: phase.Name, Status: ksession.PhaseRunning, StartedAt: startedAt}

	exec, err := c.executor.ExecutePhase(ctx, c.validators[phase.Name], c.state)
	if err != nil {
		result.Status = ksession.PhaseFailed
		result.Errors = append(result.Errors, "phase execution error: "+err.Error())
		result.CompletedAt = time.Now()
		return result, nil
	}

	result.ValidatorsRun = exec.ValidatorsRun
	result.ValidatorsPassed = exec.ValidatorsPassed
	result.ValidatorsFailed = exec.ValidatorsFailed
	result.Errors = append(result.Errors, exec.Errors...)
	result.Warnings = append(result.Warnings, exec.Warnings...)

	if exec.ValidatorsFailed > 0 {
		result.Status = ksession.PhaseFailed
	} else {
		result.Status = ksession.PhaseCompleted
	}
	result.CompletedAt = time.Now()
	return result, nil
}
