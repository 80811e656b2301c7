package ksynth

import "context"

// Termination names how a synthesis run ended.
type Termination string

const (
	TerminationConverged Termination = "CONVERGED"
	TerminationMaxIter   Termination = "MAX_ITER"
	TerminationFallback  Termination = "FALLBACK"
)

// HullPhaseOutcome is what running the hull phase's validator pipeline
// against a written proposal reports back to the synthesis loop.
type HullPhaseOutcome struct {
	ValidatorsPassed     int
	Score                float64
	MaxSeverity          string
	GMActual             float64
	DisplacementOvershoot bool
}

// HullPhaseRunner lets the conductor supply "run the hull phase" without
// ksynth importing kconductor (which imports ksynth to drive synthesis).
type HullPhaseRunner interface {
	RunHullPhase(ctx context.Context) (HullPhaseOutcome, error)
}

// Result is what a synthesis run returns.
type Result struct {
	Proposal     Proposal
	Termination  Termination
	Reason       string
	IsUsable     bool
	ScoreHistory []float64
}

// Engine owns the hull lock shared across synthesis runs.
type Engine struct {
	Lock *Lock
}

// NewEngine builds an Engine with a fresh, unheld lock.
func NewEngine() *Engine {
	return &Engine{Lock: NewLock()}
}

const synthesisOwner = "synthesizer"

// Synthesize runs the bounded propose→validate→mutate loop described in
// spec.md §4.9. It always returns a usable proposal: on any write/run
// error, or when the loop exhausts its iteration bound without reaching
// a usable score, it falls back to an estimator-only proposal derived
// from the family prior alone.
func (e *Engine) Synthesize(ctx context.Context, req Request, store hullWriter, runner HullPhaseRunner) (Result, error) {
	prior, err := GetFamilyPrior(req.HullFamily)
	if err != nil {
		return Result{}, err
	}

	gmRequired := req.resolvedGMRequired(prior)
	maxIter := req.resolvedMaxIterations()

	proposal := proposeInitial(req, prior)
	var history []float64
	var loopErr error

	for i := 0; i < maxIter; i++ {
		proposal.Iteration = i

		writeErr := e.Lock.ExclusiveAccess(synthesisOwner, func() error {
			return e.Lock.WriteHullParams(proposal.hullPaths(), synthesisOwner, store)
		})
		if writeErr != nil {
			loopErr = writeErr
			break
		}

		outcome, runErr := runner.RunHullPhase(ctx)
		if runErr != nil {
			loopErr = runErr
			break
		}

		history = append(history, outcome.Score)
		if converged, reason := isConverged(outcome.Score, outcome.ValidatorsPassed, outcome.MaxSeverity, outcome.GMActual, gmRequired, history); converged {
			return Result{
				Proposal:     proposal,
				Termination:  TerminationConverged,
				Reason:       reason,
				IsUsable:     true,
				ScoreHistory: history,
			}, nil
		}

		proposal = mutate(proposal, outcome, prior, req.HullFamily)
	}

	if loopErr == nil && len(history) > 0 && history[len(history)-1] >= softFloorScore {
		return Result{
			Proposal:     proposal,
			Termination:  TerminationMaxIter,
			Reason:       "reached max iterations without full convergence",
			IsUsable:     true,
			ScoreHistory: history,
		}, nil
	}

	fallback := createFallbackProposal(req.HullFamily, req.MaxSpeedKts, req.LOAM)
	_ = e.Lock.ExclusiveAccess(synthesisOwner, func() error {
		return e.Lock.WriteHullParams(fallback.hullPaths(), synthesisOwner, store)
	})

	reason := "non-convergent: final score below soft floor"
	if loopErr != nil {
		reason = "synthesis loop error: " + loopErr.Error()
	}
	return Result{
		Proposal:     fallback,
		Termination:  TerminationFallback,
		Reason:       reason,
		IsUsable:     true,
		ScoreHistory: history,
	}, nil
}
