package kbuiltin

import (
	"context"
	"testing"

	"github.com/papapumpkin/quasar/internal/kvalidate"
)

type fakeState struct {
	values map[string]any
}

func (f fakeState) Get(path string, def any) any {
	if v, ok := f.values[path]; ok {
		return v
	}
	return def
}

func (f fakeState) GetStrict(path string) (any, error) {
	return f.Get(path, nil), nil
}

func TestMissionCompletenessFailsOnMissingSpeed(t *testing.T) {
	v := NewMissionCompleteness()
	res, err := v.Run(context.Background(), fakeState{values: map[string]any{}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != kvalidate.StateFailed {
		t.Fatalf("expected failed state, got %v", res.State)
	}
}

func TestMissionCompletenessPassesWithPositiveSpeed(t *testing.T) {
	v := NewMissionCompleteness()
	res, err := v.Run(context.Background(), fakeState{values: map[string]any{"mission.max_speed_kts": 22.0}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != "passed" {
		t.Fatalf("expected passed state, got %v", res.State)
	}
}

func TestHullShapeFailsOnBadCb(t *testing.T) {
	v := NewHullShape()
	res, err := v.Run(context.Background(), fakeState{values: map[string]any{
		"hull.cb": 1.5, "hull.displacement_m3": 100.0,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != "failed" {
		t.Fatalf("expected failed state for out-of-range Cb, got %v", res.State)
	}
}

func TestHullShapePassesWithValidShape(t *testing.T) {
	v := NewHullShape()
	res, err := v.Run(context.Background(), fakeState{values: map[string]any{
		"hull.cb": 0.55, "hull.displacement_m3": 100.0,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != "passed" {
		t.Fatalf("expected passed, got %v", res.State)
	}
}

func TestStabilityMarginWarnsOnMarginalGM(t *testing.T) {
	v := NewStabilityMargin()
	res, err := v.Run(context.Background(), fakeState{values: map[string]any{
		"stability.gm_transverse_m": 0.32, "mission.gm_min_m": 0.35,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != "warning" {
		t.Fatalf("expected warning state for marginal GM, got %v", res.State)
	}
}

func TestStabilityMarginFailsOnInsufficientGM(t *testing.T) {
	v := NewStabilityMargin()
	res, err := v.Run(context.Background(), fakeState{values: map[string]any{
		"stability.gm_transverse_m": 0.1, "mission.gm_min_m": 0.35,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != "failed" {
		t.Fatalf("expected failed state, got %v", res.State)
	}
}

func TestStabilityMarginDefaultsGMRequired(t *testing.T) {
	v := NewStabilityMargin()
	res, err := v.Run(context.Background(), fakeState{values: map[string]any{
		"stability.gm_transverse_m": 0.4,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != "passed" {
		t.Fatalf("expected passed against default 0.35m minimum, got %v", res.State)
	}
}

func TestComplianceCriticalFailsOnNonzeroFailCount(t *testing.T) {
	v := NewComplianceCritical()
	res, err := v.Run(context.Background(), fakeState{values: map[string]any{"compliance.fail_count": 3}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != "failed" || res.ErrorCount != 3 {
		t.Fatalf("expected failed with ErrorCount=3, got %v errcount=%d", res.State, res.ErrorCount)
	}
}

func TestComplianceCriticalPasses(t *testing.T) {
	v := NewComplianceCritical()
	res, err := v.Run(context.Background(), fakeState{values: map[string]any{"compliance.fail_count": 0}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != "passed" {
		t.Fatalf("expected passed, got %v", res.State)
	}
}
