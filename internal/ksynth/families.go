// Package ksynth is the synthesis engine (spec.md §4.9): a bounded
// propose→validate→mutate loop that produces hull principal dimensions
// under an exclusive hull-write lock, falling back to an estimator-only
// proposal on non-convergence or error to guarantee termination.
//
// Grounded in original_source/magnet/kernel/priors/hull_families.py
// (FAMILY_PRIORS numeric table, reproduced verbatim below),
// synthesis_lock.py (lock discipline), and synthesis_fallback.py
// (fallback proposal construction). original_source/magnet/kernel/
// synthesis.py itself is a stub in the retrieved source (imports only,
// no loop body) — the loop in synth.go is built directly from spec.md
// §4.9's algorithm and conductor.py's calls into it.
package ksynth

import (
	"fmt"
	"strings"
)

// Family is one of the five hull-family priors.
type Family string

const (
	FamilyPatrol    Family = "patrol"
	FamilyWorkboat  Family = "workboat"
	FamilyFerry     Family = "ferry"
	FamilyPlaning   Family = "planing"
	FamilyCatamaran Family = "catamaran"
)

// Prior is one family's static design ratios and target Froude number.
type Prior struct {
	LWLBeam      float64
	BeamDraft    float64
	Cb, Cp, Cm, Cwp float64
	FroudeDesign float64
	GMMinM       float64
}

// FamilyPriors reproduces original_source's FAMILY_PRIORS table exactly.
var FamilyPriors = map[Family]Prior{
	FamilyPatrol:    {LWLBeam: 5.5, BeamDraft: 3.0, Cb: 0.45, Cp: 0.62, Cm: 0.82, Cwp: 0.72, FroudeDesign: 0.90, GMMinM: 0.5},
	FamilyWorkboat:  {LWLBeam: 4.5, BeamDraft: 2.8, Cb: 0.55, Cp: 0.68, Cm: 0.88, Cwp: 0.78, FroudeDesign: 0.45, GMMinM: 0.5},
	FamilyFerry:     {LWLBeam: 5.0, BeamDraft: 3.2, Cb: 0.55, Cp: 0.70, Cm: 0.92, Cwp: 0.80, FroudeDesign: 0.65, GMMinM: 0.75},
	FamilyPlaning:   {LWLBeam: 4.0, BeamDraft: 5.0, Cb: 0.42, Cp: 0.60, Cm: 0.75, Cwp: 0.70, FroudeDesign: 1.2, GMMinM: 0.35},
	FamilyCatamaran: {LWLBeam: 12.0, BeamDraft: 3.0, Cb: 0.42, Cp: 0.62, Cm: 0.78, Cwp: 0.72, FroudeDesign: 0.75, GMMinM: 0.5},
}

// GetFamilyPrior returns the prior for family, erroring on an unknown one.
func GetFamilyPrior(family Family) (Prior, error) {
	p, ok := FamilyPriors[family]
	if !ok {
		return Prior{}, fmt.Errorf("unknown hull family: %s", family)
	}
	return p, nil
}

// ParseFamily case-insensitively matches a family string, erroring if
// none match.
func ParseFamily(s string) (Family, error) {
	lower := Family(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := FamilyPriors[lower]; ok {
		return lower, nil
	}
	return "", fmt.Errorf("unrecognized hull family: %q", s)
}

// cbRangeFor returns the admissible Cb clamp range for a family, used by
// the mutation step. Planing-class hulls get a narrower range per
// spec.md §4.9; other families use a wider general range around their
// prior.
func cbRangeFor(family Family, prior Prior) (min, max float64) {
	if family == FamilyPlaning {
		return 0.35, 0.55
	}
	return prior.Cb - 0.15, prior.Cb + 0.15
}
