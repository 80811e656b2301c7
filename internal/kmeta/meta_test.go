package kmeta

import "testing"

type fakeState struct {
	values map[string]any
}

func (f fakeState) Get(path string, def any) any {
	if v, ok := f.values[path]; ok {
		return v
	}
	return def
}

func TestRunWarnsWhenNoPhasesCompleted(t *testing.T) {
	v := New()
	summary := v.Run(fakeState{values: map[string]any{}})
	if summary.State != StateWarning {
		t.Fatalf("expected WARNING with no completed phases, got %v", summary.State)
	}
	if summary.IsComplete() {
		t.Fatal("a WARNING summary with missing critical phases must not be IsComplete")
	}
}

func TestRunErrorsOnMissingCriticalPhase(t *testing.T) {
	v := New()
	summary := v.Run(fakeState{values: map[string]any{
		"kernel.phase_history": []string{"mission", "hull"},
	}})
	if summary.State != StateError {
		t.Fatalf("expected ERROR for missing compliance/stability, got %v", summary.State)
	}
	if len(summary.MissingCriticalPhases) != 2 {
		t.Fatalf("expected both critical phases reported missing, got %v", summary.MissingCriticalPhases)
	}
}

func TestRunErrorsOnFailedGate(t *testing.T) {
	v := New()
	summary := v.Run(fakeState{values: map[string]any{
		"kernel.phase_history": []string{"mission", "hull", "weight", "stability", "loading", "compliance"},
		"kernel.gate_status":   map[string]bool{"compliance_gate": false},
	}})
	if summary.State != StateError {
		t.Fatalf("expected ERROR on a failed gate, got %v", summary.State)
	}
	if len(summary.FailedGates) != 1 || summary.FailedGates[0] != "compliance_gate" {
		t.Fatalf("expected compliance_gate reported failed, got %v", summary.FailedGates)
	}
}

func TestRunPassesWhenAllCriticalPhasesDoneAndGatesPassed(t *testing.T) {
	v := New()
	summary := v.Run(fakeState{values: map[string]any{
		"kernel.phase_history": []string{"compliance", "stability"},
		"kernel.gate_status":   map[string]bool{"compliance_gate": true},
	}})
	if summary.State != StatePassed {
		t.Fatalf("expected PASSED, got %v (%s)", summary.State, summary.Message)
	}
	if !summary.IsComplete() {
		t.Fatal("expected IsComplete to be true")
	}
}

func TestRunAcceptsNativeAnySlicesFromSerializedState(t *testing.T) {
	v := New()
	summary := v.Run(fakeState{values: map[string]any{
		"kernel.phase_history": []any{"compliance", "stability"},
		"kernel.gate_status":   map[string]any{"compliance_gate": true},
	}})
	if summary.State != StatePassed {
		t.Fatalf("expected PASSED after decoding []any/map[string]any, got %v", summary.State)
	}
}
