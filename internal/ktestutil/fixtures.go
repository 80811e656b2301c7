// Package ktestutil holds small test fixtures and comparison helpers
// for the kernel's package tests, using google/go-cmp the way
// spec.md §11's domain-stack wiring calls for.
package ktestutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// AssertEqual fails t with a readable diff if got != want.
func AssertEqual(t *testing.T, got, want any, msgAndArgs ...any) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("%smismatch (-want +got):\n%s", formatPrefix(msgAndArgs), diff)
	}
}

func formatPrefix(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if s, ok := msgAndArgs[0].(string); ok {
		return s + ": "
	}
	return ""
}

// MinimalMissionState returns the smallest state-update set that
// satisfies the mission phase's output contract. No package test in this
// module imports it.
func MinimalMissionState() map[string]any {
	return map[string]any{
		"mission.max_speed_kts":     22.0,
		"mission.vessel_type":       "workboat",
		"mission.crew_berthed":      6,
		"mission.range_nm":          800.0,
		"mission.cargo_capacity_mt": 40.0,
	}
}
