package ksynth

// softFloorScore is the "min_score_soft" spec.md §4.9 names but leaves
// numeric: the score below which a non-convergent final iteration is
// considered unusable and triggers the fallback path, and at or above
// which the plateau rule may declare convergence. Chosen as a value
// comfortably below the 85-point convergence threshold.
const softFloorScore = 70.0

var severityRank = map[string]int{
	"info":     0,
	"warning":  1,
	"error":    2,
	"critical": 3,
}

func rankOf(sev string) int {
	if r, ok := severityRank[sev]; ok {
		return r
	}
	return severityRank["critical"] // unrecognized severities are treated conservatively
}

// isConverged implements spec.md §4.9's default convergence criteria:
// at least 2 validators passed, aggregate score >= 85, worst finding
// severity <= warning, and GM margin satisfied — or the plateau rule
// (last three scores within 1.0 of each other and at/above the soft
// floor).
func isConverged(score float64, validatorsPassed int, maxSeverity string, gmActual, gmRequired float64, history []float64) (bool, string) {
	if validatorsPassed >= 2 && score >= 85 && rankOf(maxSeverity) <= severityRank["warning"] && gmActual >= gmRequired+0.1 {
		return true, "convergence criteria met"
	}
	if len(history) >= 3 {
		last3 := history[len(history)-3:]
		lo, hi := last3[0], last3[0]
		for _, v := range last3[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi-lo < 1.0 && score >= softFloorScore {
			return true, "score plateau"
		}
	}
	return false, ""
}
