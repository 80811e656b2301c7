// Package krefine is the refinable-path registry: a closed, exact-match
// enumeration of paths a user or agent may mutate directly, consulted by
// the state store's mutation gate. Membership is exact, never
// prefix-matched — a path not listed here is not refinable even if it
// shares a section with one that is.
package krefine

import "sort"

// refinable is the closed set of user/agent-mutable paths: principal
// dimensions, form coefficients, deadrise, mission speeds/range/crew,
// propulsion quantities, and the required-GM knob.
var refinable = map[string]bool{
	"hull.loa":          true,
	"hull.lwl":          true,
	"hull.beam":         true,
	"hull.beam_wl":      true,
	"hull.draft":        true,
	"hull.depth":        true,
	"hull.cb":           true,
	"hull.cp":           true,
	"hull.cm":           true,
	"hull.cwp":          true,
	"hull.deadrise_deg": true,
	"hull.hull_type":    true,

	"mission.vessel_type":       true,
	"mission.max_speed_kts":     true,
	"mission.cruise_speed_kts":  true,
	"mission.crew_berthed":      true,
	"mission.range_nm":          true,
	"mission.cargo_capacity_mt": true,
	"mission.gm_min_m":          true,

	"propulsion.num_engines":     true,
	"propulsion.num_propellers":  true,
	"propulsion.engine_power_kw": true,
	"propulsion.propulsion_type": true,
}

// IsRefinable reports whether a canonical path is in the refinable set.
// Kernel-owned paths (kernel.*, phase_states.*, metadata.*) and computed
// outputs (weight.*, stability.*, compliance.status, etc.) are never
// members regardless of their schema validity.
func IsRefinable(canonicalPath string) bool {
	return refinable[canonicalPath]
}

// Paths returns the full refinable set, sorted, for callers that need to
// enumerate it (e.g. a CLI listing user-editable knobs).
func Paths() []string {
	out := make([]string, 0, len(refinable))
	for p := range refinable {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
