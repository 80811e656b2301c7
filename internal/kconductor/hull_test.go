package kconductor

import "testing"

func TestBuildSynthesisRequestReadsGMMinFromMissionState(t *testing.T) {
	state := newFakeState()
	state.values["mission.max_speed_kts"] = 22.0
	state.values["mission.gm_min_m"] = 0.9

	c := &Conductor{state: state}
	req, ok := c.buildSynthesisRequest()
	if !ok {
		t.Fatal("expected a request to be built once mission.max_speed_kts is set")
	}
	if req.GMMinM != 0.9 {
		t.Fatalf("expected mission.gm_min_m to reach the synthesis request, got %v", req.GMMinM)
	}
}

func TestBuildSynthesisRequestDefaultsGMMinWhenUnset(t *testing.T) {
	state := newFakeState()
	state.values["mission.max_speed_kts"] = 22.0

	c := &Conductor{state: state}
	req, ok := c.buildSynthesisRequest()
	if !ok {
		t.Fatal("expected a request to be built once mission.max_speed_kts is set")
	}
	if req.GMMinM != 0 {
		t.Fatalf("expected GMMinM to be 0 (falling back to the family prior) when mission.gm_min_m is unset, got %v", req.GMMinM)
	}
}
