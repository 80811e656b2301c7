package kconfig

import (
	"path/filepath"
	"testing"

	"github.com/papapumpkin/quasar/internal/ksynth"
)

func TestLoadPriorsOverrideEmptyPathReturnsEmpty(t *testing.T) {
	override, err := LoadPriorsOverride("")
	if err != nil {
		t.Fatal(err)
	}
	if len(override.Families) != 0 {
		t.Fatalf("expected an empty override, got %v", override.Families)
	}
}

func TestLoadPriorsOverrideMissingFileReturnsEmpty(t *testing.T) {
	override, err := LoadPriorsOverride(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(override.Families) != 0 {
		t.Fatalf("expected an empty override for a missing file, got %v", override.Families)
	}
}

func TestSaveThenLoadPriorsOverrideRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "priors.toml")
	override := PriorsOverride{Families: map[string]ksynth.Prior{
		"workboat": {LWLBeam: 5.0, GMMinM: 0.6},
	}}
	if err := SavePriorsOverride(path, override); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadPriorsOverride(path)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := loaded.Families["workboat"]
	if !ok {
		t.Fatal("expected workboat override to round-trip")
	}
	if got.LWLBeam != 5.0 || got.GMMinM != 0.6 {
		t.Fatalf("expected round-tripped values to match, got %+v", got)
	}
}

func TestApplyPriorsOverrideMergesWithoutMutatingOriginal(t *testing.T) {
	original := ksynth.FamilyPriors[ksynth.FamilyWorkboat]
	override := PriorsOverride{Families: map[string]ksynth.Prior{
		"workboat": {LWLBeam: 9.9},
	}}
	merged := ApplyPriorsOverride(override)
	if merged[ksynth.FamilyWorkboat].LWLBeam != 9.9 {
		t.Fatalf("expected merged override to take effect, got %v", merged[ksynth.FamilyWorkboat])
	}
	if ksynth.FamilyPriors[ksynth.FamilyWorkboat].LWLBeam != original.LWLBeam {
		t.Fatal("expected ksynth.FamilyPriors to remain untouched")
	}
}
