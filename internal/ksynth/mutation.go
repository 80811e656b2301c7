package ksynth

// mutate applies spec.md §4.9's deterministic mutation step: widen beam
// when GM is short, trim draft when displacement overshoots, and nudge
// Cb toward the family's admissible range, clamping at each step.
func mutate(p Proposal, outcome HullPhaseOutcome, prior Prior, family Family) Proposal {
	next := p
	next.Iteration = p.Iteration + 1
	next.Source = SourceMutated

	gmShort := outcome.GMActual > 0 && outcome.GMActual < prior.GMMinM
	if gmShort {
		next.Beam *= 1.03
		next.Draft = next.Beam / prior.BeamDraft
	}

	if outcome.DisplacementOvershoot {
		next.Draft *= 0.98
	}

	min, max := cbRangeFor(family, prior)
	if next.Cb < min {
		next.Cb = min
	} else if next.Cb > max {
		next.Cb = max
	}
	if outcome.Score < 60 {
		// well below target: nudge Cb back toward the family's central
		// prior rather than continuing to drift at the clamp boundary.
		next.Cb = prior.Cb
	}

	next.Depth = next.Draft * 1.6
	next.DisplacementM3 = next.LWL * next.Beam * next.Draft * next.Cb
	next.Confidence = p.Confidence * 0.95

	return next
}
