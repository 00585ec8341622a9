package services

// ScoreResult is the outcome of one admission-score computation. Ephemeral,
// recomputed on every input change, never persisted.
type ScoreResult struct {
	TrackName      string
	GeneralAverage float64
	SpecificScore  float64
	AdmissionScore float64
}

// ScoreBand is the qualitative band of an admission score.
type ScoreBand struct {
	Level string
	Label string
}

// ComputeGeneralAverage sums grade×coefficient over every subject present in
// both the grade set and the track's subject table, divided by the sum of
// those coefficients. A subject the student has no grade for contributes to
// neither sum. Returns 0 when nothing overlaps.
func ComputeGeneralAverage(grades GradeSet, track *Track) float64 {
	var weighted, coefSum float64
	for subject, grade := range grades {
		coef, ok := track.Subjects[subject]
		if !ok {
			continue
		}
		weighted += grade * coef
		coefSum += coef
	}
	if coefSum == 0 {
		return 0
	}
	return weighted / coefSum
}

// ComputeAdmissionScore evaluates the track's FG formula. Unlike the general
// average, a missing grade counts as 0 inside the formula; the asymmetry is
// part of the official scoring rules.
func ComputeAdmissionScore(grades GradeSet, track *Track) ScoreResult {
	general := ComputeGeneralAverage(grades, track)

	specific := track.Formula.GeneralWeight * general
	for subject, weight := range track.Formula.SubjectWeights {
		specific += weight * grades[subject]
	}

	return ScoreResult{
		TrackName:      track.Name,
		GeneralAverage: general,
		SpecificScore:  specific,
		AdmissionScore: specific,
	}
}

// ClassifyScore places an admission score in one of three fixed bands. Lower
// bounds are inclusive.
func ClassifyScore(admissionScore float64) ScoreBand {
	switch {
	case admissionScore >= 130:
		return ScoreBand{Level: "high", Label: "Excellent"}
	case admissionScore >= 110:
		return ScoreBand{Level: "medium", Label: "Bon"}
	default:
		return ScoreBand{Level: "low", Label: "À améliorer"}
	}
}
