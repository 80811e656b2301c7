package kconductor

import (
	"context"
	"testing"

	"github.com/papapumpkin/quasar/internal/kregistry"
	"github.com/papapumpkin/quasar/internal/ksession"
	"github.com/papapumpkin/quasar/internal/kvalidate"
)

func TestRunAllPhasesMarksSessionCompleted(t *testing.T) {
	r := buildTestRegistry(t)
	state := newFakeState()
	c := New(r, state, ksession.New("design"))
	c.RegisterValidators("mission", []kvalidate.Validator{alwaysPass{id: "m1"}})
	c.RegisterValidators("compliance", []kvalidate.Validator{alwaysPass{id: "c1"}})

	results, err := c.RunAllPhases(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 phase results, got %d", len(results))
	}
	if c.Session().Snapshot().Status != ksession.StatusCompleted {
		t.Fatalf("expected session completed, got %v", c.Session().Snapshot().Status)
	}
}

func TestRunAllPhasesStopsOnFailure(t *testing.T) {
	r := newTwoPhaseRegistry(t)
	state := newFakeState()
	c := New(r, state, ksession.New("design"))
	c.RegisterValidators("a", []kvalidate.Validator{failingValidator{id: "a1"}})
	c.RegisterValidators("b", []kvalidate.Validator{alwaysPass{id: "b1"}})

	results, err := c.RunAllPhases(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected to stop after the first failing phase, got %d results", len(results))
	}
}

func TestRunToPhaseStopsAtTarget(t *testing.T) {
	r := buildTestRegistry(t)
	state := newFakeState()
	c := New(r, state, ksession.New("design"))
	c.RegisterValidators("mission", []kvalidate.Validator{alwaysPass{id: "m1"}})

	results, err := c.RunToPhase(context.Background(), "mission")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].PhaseName != "mission" {
		t.Fatalf("expected to stop at mission, got %+v", results)
	}
}

func TestRunFromPhaseSkipsEarlierPhases(t *testing.T) {
	r := newTwoPhaseRegistry(t)
	state := newFakeState()
	c := New(r, state, ksession.New("design"))
	c.RegisterValidators("a", []kvalidate.Validator{alwaysPass{id: "a1"}})
	c.RegisterValidators("b", []kvalidate.Validator{alwaysPass{id: "b1"}})

	results, err := c.RunFromPhase(context.Background(), "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].PhaseName != "b" {
		t.Fatalf("expected to run only phase b, got %+v", results)
	}
}

func newTwoPhaseRegistry(t *testing.T) *kregistry.Registry {
	t.Helper()
	r := kregistry.New()
	if err := r.Register(kregistry.Phase{Name: "a", Order: 1}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(kregistry.Phase{Name: "b", Order: 2}); err != nil {
		t.Fatal(err)
	}
	if err := r.Validate(); err != nil {
		t.Fatal(err)
	}
	return r
}

type failingValidator struct{ id string }

func (f failingValidator) ID() string          { return f.id }
func (f failingValidator) DependsOn() []string { return nil }
func (f failingValidator) ParallelSafe() bool  { return true }
func (f failingValidator) Run(ctx context.Context, state kvalidate.StateAccessor) (kvalidate.Result, error) {
	return kvalidate.Result{State: kvalidate.StateFailed, Message: "deliberate failure"}, nil
}
