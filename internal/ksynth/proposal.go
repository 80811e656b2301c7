package ksynth

// Source tags where a proposal came from.
type Source string

const (
	SourcePrior    Source = "prior"
	SourceMutated  Source = "mutated"
	SourceFallback Source = "fallback"
)

// Proposal is one candidate set of hull principal dimensions and form
// coefficients, the unit the synthesis loop proposes, validates, and
// mutates.
type Proposal struct {
	LWL, Beam, Draft, Depth float64
	Cb, Cp, Cm, Cwp         float64
	DisplacementM3          float64
	Confidence              float64
	Iteration               int
	Source                  Source
}

// IsComplete reports whether every numeric field is positive and the
// form coefficients lie in (0, 1], the definition spec.md §3 gives for a
// complete synthesis proposal.
func (p Proposal) IsComplete() bool {
	positive := p.LWL > 0 && p.Beam > 0 && p.Draft > 0 && p.Depth > 0 && p.DisplacementM3 > 0
	admissible := inUnit(p.Cb) && inUnit(p.Cp) && inUnit(p.Cm) && inUnit(p.Cwp)
	return positive && admissible
}

func inUnit(v float64) bool { return v > 0 && v <= 1 }

// hullPaths returns the lock-guarded path→value map for this proposal,
// matching synthesis_lock.py's HULL_PATHS (hull.depth is deliberately not
// part of the lock-guarded set, matching original_source).
func (p Proposal) hullPaths() map[string]float64 {
	return map[string]float64{
		"hull.lwl":              p.LWL,
		"hull.beam":             p.Beam,
		"hull.draft":            p.Draft,
		"hull.cb":                p.Cb,
		"hull.cp":                p.Cp,
		"hull.cm":                p.Cm,
		"hull.cwp":               p.Cwp,
		"hull.displacement_m3":  p.DisplacementM3,
		"hull.displacement_kg":  p.DisplacementM3 * 1025.0,
		"hull.displacement_mt":  p.DisplacementM3 * 1.025,
	}
}

// proposeInitial builds the first proposal from a request and its
// family's prior, per spec.md §4.9 "Proposal generation (initial)".
func proposeInitial(req Request, prior Prior) Proposal {
	speedMS := req.MaxSpeedKts * 0.5144

	var lwl float64
	if req.LOAM > 0 {
		lwl = req.LOAM * 0.95
	} else {
		fn := prior.FroudeDesign
		v := speedMS / fn
		lwl = (v * v) / 9.81
	}

	beam := lwl / prior.LWLBeam
	draft := beam / prior.BeamDraft
	depth := draft * 1.6
	displacement := lwl * beam * draft * prior.Cb

	return Proposal{
		LWL: lwl, Beam: beam, Draft: draft, Depth: depth,
		Cb: prior.Cb, Cp: prior.Cp, Cm: prior.Cm, Cwp: prior.Cwp,
		DisplacementM3: displacement,
		Confidence:     0.7,
		Iteration:      0,
		Source:         SourcePrior,
	}
}
