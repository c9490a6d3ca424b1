package scoring

import "math"

// MissingValue is substituted for the raw value of a criterion that is not
// present when a gate looks it up, and for an absent computed margin.
const MissingValue = 0.0

// Normalize maps a raw value onto a 0 to 100 scale. Inverted criteria are
// reversed first, so 0 competition normalizes to 100.
//
// maxValue must be greater than zero; zero yields NaN or ±Inf. Out-of-range
// values are not clamped.
func Normalize(id CriterionID, value, maxValue float64) float64 {
	raw := value
	if id.Inverted() {
		raw = maxValue - value
	}
	return (raw / maxValue) * 100
}

// Contribution is the weighted share of one criterion in the composite.
func Contribution(c Criterion) float64 {
	return Normalize(c.ID, c.Value, c.MaxValue) * c.Weight / 100
}

// ComputeFinalScore returns the rounded weighted sum of normalized criteria.
//
// Weights are used as given. When they do not total 100 the result is still
// the literal dot product and may fall outside 0 to 100. An empty slice scores 0.
func ComputeFinalScore(criteria []Criterion) int {
	var total float64
	for _, c := range criteria {
		total += Contribution(c)
	}
	return roundHalfUp(total)
}

// roundHalfUp rounds to the nearest integer with halves going toward +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
