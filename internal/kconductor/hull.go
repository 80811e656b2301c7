package kconductor

import (
	"context"

	"github.com/papapumpkin/quasar/internal/ksynth"
)

// hullExists reports whether hull.lwl, hull.beam, and hull.draft are all
// already set to positive values, the signal original_source's
// _hull_exists uses to decide whether synthesis needs to run.
func (c *Conductor) hullExists() bool {
	for _, path := range []string{"hull.lwl", "hull.beam", "hull.draft"} {
		v, ok := c.state.Get(path, nil).(float64)
		if !ok || v <= 0 {
			return false
		}
	}
	return true
}

// buildSynthesisRequest reads mission parameters from state to build a
// ksynth.Request, defaulting the hull family to workboat when
// hull.hull_type/mission.vessel_type is absent or unrecognized.
func (c *Conductor) buildSynthesisRequest() (ksynth.Request, bool) {
	familyStr, _ := c.state.Get("hull.hull_type", "").(string)
	if familyStr == "" {
		familyStr, _ = c.state.Get("mission.vessel_type", "").(string)
	}
	family, err := ksynth.ParseFamily(familyStr)
	if err != nil {
		family = ksynth.FamilyWorkboat
	}

	maxSpeed, _ := c.state.Get("mission.max_speed_kts", 0.0).(float64)
	if maxSpeed <= 0 {
		return ksynth.Request{}, false
	}

	loa, _ := c.state.Get("mission.loa", 0.0).(float64)
	if loa <= 0 {
		loa, _ = c.state.Get("hull.loa", 0.0).(float64)
	}
	crew, _ := c.state.Get("mission.crew_berthed", 0).(int)
	rangeNM, _ := c.state.Get("mission.range_nm", 0.0).(float64)
	gmMin, _ := c.state.Get("mission.gm_min_m", 0.0).(float64)

	return ksynth.Request{
		HullFamily:  family,
		MaxSpeedKts: maxSpeed,
		LOAM:        loa,
		CrewCount:   crew,
		RangeNM:     rangeNM,
		GMMinM:      gmMin,
	}, true
}

// runHullSynthesis builds a request from state and runs the synthesis
// engine, returning (failure message, usable).
func (c *Conductor) runHullSynthesis(ctx context.Context) (string, bool) {
	req, ok := c.buildSynthesisRequest()
	if !ok {
		return "cannot build synthesis request: mission.max_speed_kts missing", false
	}

	result, err := c.synth.Synthesize(ctx, req, c.state, c)
	if err != nil {
		return err.Error(), false
	}
	return result.Reason, result.IsUsable
}

// RunHullPhase implements ksynth.HullPhaseRunner: it runs the hull
// phase's validators directly (not through RunPhase, to avoid
// re-entering the synthesis hook) and reports a synthesis-loop outcome.
func (c *Conductor) RunHullPhase(ctx context.Context) (ksynth.HullPhaseOutcome, error) {
	exec, err := c.executor.ExecutePhase(ctx, c.validators["hull"], c.state)
	if err != nil {
		return ksynth.HullPhaseOutcome{}, err
	}

	maxSeverity := "info"
	for _, f := range exec.Findings {
		if rankOfSeverity(f.Severity) > rankOfSeverity(maxSeverity) {
			maxSeverity = f.Severity
		}
	}

	score := 0.0
	if exec.ValidatorsRun > 0 {
		score = 100.0 * float64(exec.ValidatorsPassed) / float64(exec.ValidatorsRun)
	}
	score -= 5.0 * float64(len(exec.Warnings))
	score -= 15.0 * float64(exec.ValidatorsFailed)
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	gmActual, _ := c.state.Get("stability.gm_transverse_m", 0.0).(float64)

	overshoot := false
	if lightship, ok := c.state.Get("weight.lightship_weight_mt", 0.0).(float64); ok && lightship > 0 {
		if displacementMT, ok := c.state.Get("hull.displacement_mt", 0.0).(float64); ok {
			overshoot = displacementMT > lightship*1.5
		}
	}

	return ksynth.HullPhaseOutcome{
		ValidatorsPassed:      exec.ValidatorsPassed,
		Score:                 score,
		MaxSeverity:           maxSeverity,
		GMActual:              gmActual,
		DisplacementOvershoot: overshoot,
	}, nil
}

var severityOrder = map[string]int{"info": 0, "warning": 1, "error": 2, "critical": 3}

func rankOfSeverity(s string) int {
	if r, ok := severityOrder[s]; ok {
		return r
	}
	return severityOrder["critical"]
}
