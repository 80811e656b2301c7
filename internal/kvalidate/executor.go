package kvalidate

import (
	"context"
	"fmt"
	"sync"

	"github.com/papapumpkin/quasar/internal/dag"
)

// PhaseExecution is the aggregated outcome of running one phase's
// validator list, the "execution state" spec.md §4.7 describes.
type PhaseExecution struct {
	ValidatorsRun    int
	ValidatorsPassed int
	ValidatorsFailed int
	Errors           []string
	Warnings         []string
	Findings         []Finding
}

// Executor runs a phase's declared validators in dependency order,
// dispatching parallel-safe validators concurrently within a dependency
// layer.
type Executor struct {
	// RetryInfrastructureErrors enables the one-time automatic retry of a
	// validator whose Run returned a non-nil error (infrastructure
	// exception). Validation failures (Result.State == StateFailed) are
	// never retried regardless of this setting.
	RetryInfrastructureErrors bool
}

// NewExecutor builds an executor with infrastructure-error retry enabled,
// the kernel's default policy.
func NewExecutor() *Executor {
	return &Executor{RetryInfrastructureErrors: true}
}

// ExecutePhase runs validators against state and returns the aggregated
// execution outcome.
func (e *Executor) ExecutePhase(ctx context.Context, validators []Validator, state StateAccessor) (PhaseExecution, error) {
	order, err := topoOrder(validators)
	if err != nil {
		return PhaseExecution{}, err
	}

	var exec PhaseExecution
	byID := make(map[string]Validator, len(validators))
	for _, v := range validators {
		byID[v.ID()] = v
	}

	for _, layer := range order {
		results := e.runLayer(ctx, layer, byID, state)
		for _, rr := range results {
			e.fold(&exec, rr)
		}
	}
	return exec, nil
}

type runOutcome struct {
	id      string
	result  Result
	infraErr error
}

// runLayer executes one dependency layer: parallel-safe validators run
// concurrently, the rest run sequentially in the layer's (alphabetical)
// order.
func (e *Executor) runLayer(ctx context.Context, layer []string, byID map[string]Validator, state StateAccessor) []runOutcome {
	outcomes := make([]runOutcome, len(layer))
	var wg sync.WaitGroup
	for i, id := range layer {
		v := byID[id]
		if !v.ParallelSafe() {
			outcomes[i] = e.runOne(ctx, v, state)
			continue
		}
		wg.Add(1)
		go func(i int, v Validator) {
			defer wg.Done()
			outcomes[i] = e.runOne(ctx, v, state)
		}(i, v)
	}
	wg.Wait()
	return outcomes
}

func (e *Executor) runOne(ctx context.Context, v Validator, state StateAccessor) runOutcome {
	res, err := v.Run(ctx, state)
	if err != nil && e.RetryInfrastructureErrors {
		res, err = v.Run(ctx, state)
	}
	return runOutcome{id: v.ID(), result: res, infraErr: err}
}

func (e *Executor) fold(exec *PhaseExecution, rr runOutcome) {
	exec.ValidatorsRun++
	if rr.infraErr != nil {
		exec.ValidatorsFailed++
		exec.Errors = append(exec.Errors, fmt.Sprintf("%s: infrastructure error: %v", rr.id, rr.infraErr))
		return
	}
	exec.Findings = append(exec.Findings, rr.result.Findings...)
	switch rr.result.State {
	case StatePassed:
		exec.ValidatorsPassed++
	case StateWarning:
		exec.ValidatorsPassed++
		exec.Warnings = append(exec.Warnings, fmt.Sprintf("%s: %s", rr.id, rr.result.Message))
	case StateFailed:
		exec.ValidatorsFailed++
		exec.Errors = append(exec.Errors, fmt.Sprintf("%s: %s", rr.id, rr.result.Message))
	default:
		exec.ValidatorsFailed++
		exec.Errors = append(exec.Errors, fmt.Sprintf("%s: unrecognized validator state %q", rr.id, rr.result.State))
	}
}

// topoOrder resolves validator DependsOn declarations into dependency
// layers (each layer's validators have all dependencies satisfied by
// prior layers), using internal/dag rather than a bespoke sort.
func topoOrder(validators []Validator) ([][]string, error) {
	g := dag.New()
	for _, v := range validators {
		if err := g.AddNode(v.ID(), 0); err != nil {
			return nil, err
		}
	}
	for _, v := range validators {
		for _, dep := range v.DependsOn() {
			if err := g.AddEdge(v.ID(), dep); err != nil {
				return nil, fmt.Errorf("validator %q: %w", v.ID(), err)
			}
		}
	}
	waves, err := g.ComputeWaves()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(waves))
	for i, w := range waves {
		out[i] = w.NodeIDs
	}
	return out, nil
}
