package kschema

import "testing"

func TestNormalizeAliases(t *testing.T) {
	cases := map[string]string{
		"weight.lightship":        "weight.lightship_weight_mt",
		"stability.gm":            "stability.gm_transverse_m",
		"mission.max_speed_knots": "mission.max_speed_kts",
		"structure.frame_spacing_mm": "structural_design.frame_spacing_mm",
		"hull.lwl":                "hull.lwl", // no alias: passes through
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAuditAliasesNoChains(t *testing.T) {
	if offenders := AuditAliases(); len(offenders) != 0 {
		t.Fatalf("expected no alias chains, got %v", offenders)
	}
}

func TestFieldDefForKnownAndUnknown(t *testing.T) {
	if _, ok := FieldDefFor("hull.lwl"); !ok {
		t.Fatal("expected hull.lwl to be a declared field")
	}
	if _, ok := FieldDefFor("hull.nonexistent_field"); ok {
		t.Fatal("expected hull.nonexistent_field to be undeclared")
	}
}

func TestIsMissing(t *testing.T) {
	if !IsMissing(Missing{}) {
		t.Error("Missing{} should report IsMissing")
	}
	if IsMissing(0.0) {
		t.Error("zero value float64 should not report IsMissing")
	}
	if IsMissing(nil) {
		t.Error("nil should not report IsMissing (distinct sentinel)")
	}
}

func TestSectionOf(t *testing.T) {
	if got := SectionOf("hull.lwl"); got != "hull" {
		t.Errorf("SectionOf(hull.lwl) = %q, want hull", got)
	}
}
