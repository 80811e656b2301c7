package ksynth

import (
	"context"
	"errors"
	"testing"
)

type scriptedRunner struct {
	outcomes []HullPhaseOutcome
	errs     []error
	calls    int
}

func (r *scriptedRunner) RunHullPhase(ctx context.Context) (HullPhaseOutcome, error) {
	i := r.calls
	r.calls++
	if i < len(r.errs) && r.errs[i] != nil {
		return HullPhaseOutcome{}, r.errs[i]
	}
	if i >= len(r.outcomes) {
		return r.outcomes[len(r.outcomes)-1], nil
	}
	return r.outcomes[i], nil
}

func TestSynthesizeConvergesImmediately(t *testing.T) {
	e := NewEngine()
	store := newFakeHullStore()
	runner := &scriptedRunner{outcomes: []HullPhaseOutcome{
		{ValidatorsPassed: 3, Score: 90, MaxSeverity: "info", GMActual: 1.0},
	}}
	req := Request{HullFamily: FamilyWorkboat, MaxSpeedKts: 22.0}
	res, err := e.Synthesize(context.Background(), req, store, runner)
	if err != nil {
		t.Fatal(err)
	}
	if res.Termination != TerminationConverged {
		t.Fatalf("expected convergence, got %v (%s)", res.Termination, res.Reason)
	}
	if !res.IsUsable {
		t.Fatal("expected a usable proposal")
	}
	if e.Lock.IsLocked() {
		t.Fatal("expected the lock to be released after synthesis completes")
	}
	if len(store.writes) == 0 {
		t.Fatal("expected hull params to have been written")
	}
}

func TestSynthesizeFallsBackOnRunnerError(t *testing.T) {
	e := NewEngine()
	store := newFakeHullStore()
	runner := &scriptedRunner{errs: []error{errors.New("infrastructure failure")}}
	req := Request{HullFamily: FamilyWorkboat, MaxSpeedKts: 22.0}
	res, err := e.Synthesize(context.Background(), req, store, runner)
	if err != nil {
		t.Fatal(err)
	}
	if res.Termination != TerminationFallback {
		t.Fatalf("expected fallback termination, got %v", res.Termination)
	}
	if res.Proposal.Source != SourceFallback {
		t.Fatalf("expected a fallback-sourced proposal, got %v", res.Proposal.Source)
	}
	if !res.IsUsable {
		t.Fatal("fallback proposals must always be usable")
	}
}

func TestSynthesizeFallsBackOnNonConvergence(t *testing.T) {
	e := NewEngine()
	store := newFakeHullStore()
	outcome := HullPhaseOutcome{ValidatorsPassed: 0, Score: 10, MaxSeverity: "critical", GMActual: 0.1}
	outcomes := make([]HullPhaseOutcome, 15)
	for i := range outcomes {
		outcomes[i] = outcome
	}
	runner := &scriptedRunner{outcomes: outcomes}
	req := Request{HullFamily: FamilyWorkboat, MaxSpeedKts: 22.0, MaxIterations: 5}
	res, err := e.Synthesize(context.Background(), req, store, runner)
	if err != nil {
		t.Fatal(err)
	}
	if res.Termination != TerminationFallback {
		t.Fatalf("expected fallback on a consistently low score, got %v", res.Termination)
	}
	if len(res.ScoreHistory) != 5 {
		t.Fatalf("expected exactly maxIter score samples, got %d", len(res.ScoreHistory))
	}
}

func TestSynthesizeReturnsMaxIterWhenUsableButNotConverged(t *testing.T) {
	e := NewEngine()
	store := newFakeHullStore()
	scores := []float64{72, 76, 71, 77, 74}
	outcomes := make([]HullPhaseOutcome, len(scores))
	for i, sc := range scores {
		outcomes[i] = HullPhaseOutcome{ValidatorsPassed: 1, Score: sc, MaxSeverity: "error", GMActual: 0.2}
	}
	runner := &scriptedRunner{outcomes: outcomes}
	req := Request{HullFamily: FamilyWorkboat, MaxSpeedKts: 22.0, MaxIterations: 5}
	res, err := e.Synthesize(context.Background(), req, store, runner)
	if err != nil {
		t.Fatal(err)
	}
	if res.Termination != TerminationMaxIter {
		t.Fatalf("expected MAX_ITER termination with a usable final score, got %v (%s)", res.Termination, res.Reason)
	}
	if !res.IsUsable {
		t.Fatal("expected IsUsable=true for a score at or above the soft floor")
	}
}

func TestResolvedMaxIterationsDefault(t *testing.T) {
	req := Request{}
	if req.resolvedMaxIterations() != 15 {
		t.Fatalf("expected default max iterations of 15, got %d", req.resolvedMaxIterations())
	}
}

func TestResolvedGMRequiredPrefersRequestOverride(t *testing.T) {
	req := Request{GMMinM: 0.9}
	prior := Prior{GMMinM: 0.5}
	if got := req.resolvedGMRequired(prior); got != 0.9 {
		t.Fatalf("expected request override 0.9, got %v", got)
	}
}

func TestResolvedGMRequiredFallsBackToPrior(t *testing.T) {
	req := Request{}
	prior := Prior{GMMinM: 0.5}
	if got := req.resolvedGMRequired(prior); got != 0.5 {
		t.Fatalf("expected prior default 0.5, got %v", got)
	}
}
