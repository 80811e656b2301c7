package ksynth

// FallbackMode names why a fallback proposal was produced, grounded in
// original_source/magnet/kernel/synthesis_fallback.py's FallbackMode enum.
type FallbackMode string

const (
	FallbackEstimatorOnly  FallbackMode = "ESTIMATOR_ONLY"
	FallbackReducedParams  FallbackMode = "REDUCED_PARAMS"
	FallbackManualRequired FallbackMode = "MANUAL_REQUIRED"
)

// createFallbackProposal builds a proposal from the family prior alone,
// with no validator call, tagged ESTIMATOR_ONLY at confidence 0.3. This
// is always complete and guarantees the synthesis loop terminates with a
// writable hull even when the propose-validate-mutate loop never
// converges or raises.
func createFallbackProposal(family Family, maxSpeedKts, loaM float64) Proposal {
	prior := FamilyPriors[family]
	base := proposeInitial(Request{HullFamily: family, MaxSpeedKts: maxSpeedKts, LOAM: loaM}, prior)
	base.Confidence = 0.3
	base.Source = SourceFallback
	return base
}
