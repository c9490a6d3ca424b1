package scoring

import "math"

// FactorResult captures one criterion's contribution to the composite.
type FactorResult struct {
	ID         CriterionID `json:"id" yaml:"id"`
	Label      string      `json:"label" yaml:"label"`
	Value      float64     `json:"value" yaml:"value"`
	MaxValue   float64     `json:"max_value" yaml:"max_value"`
	Inverted   bool        `json:"inverted" yaml:"inverted"`
	Normalized float64     `json:"normalized" yaml:"normalized"`
	Weight     float64     `json:"weight" yaml:"weight"`
	Weighted   float64     `json:"weighted" yaml:"weighted"`
}

// Evaluation is the complete engine output for one product.
type Evaluation struct {
	Score           int            `json:"score" yaml:"score"`
	Factors         []FactorResult `json:"factors" yaml:"factors"`
	Gates           GateResult     `json:"gates" yaml:"gates"`
	GatesPassed     int            `json:"gates_passed" yaml:"gates_passed"`
	Recommendation  Recommendation `json:"recommendation" yaml:"recommendation"`
	WeightTotal     float64        `json:"weight_total" yaml:"weight_total"`
	WeightsBalanced bool           `json:"weights_balanced" yaml:"weights_balanced"`
}

// Evaluate validates criteria and runs the full engine: composite score,
// gates and recommendation, plus a per-criterion breakdown.
//
// Unbalanced weights are reported through WeightsBalanced; the score is
// never re-normalized.
func Evaluate(criteria []Criterion, margins *Margins) (*Evaluation, error) {
	if err := ValidateCriteria(criteria); err != nil {
		return nil, err
	}
	if margins != nil && margins.ComputedMargin != nil {
		m := *margins.ComputedMargin
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, &ValidationError{Field: "computed_margin", Reason: "must be a finite number"}
		}
	}

	factors := make([]FactorResult, 0, len(criteria))
	for _, c := range criteria {
		normalized := Normalize(c.ID, c.Value, c.MaxValue)
		factors = append(factors, FactorResult{
			ID:         c.ID,
			Label:      c.ID.Label(),
			Value:      c.Value,
			MaxValue:   c.MaxValue,
			Inverted:   c.ID.Inverted(),
			Normalized: normalized,
			Weight:     c.Weight,
			Weighted:   normalized * c.Weight / 100,
		})
	}

	gates := CheckGates(criteria, margins)
	score := ComputeFinalScore(criteria)
	total := TotalWeight(criteria)

	return &Evaluation{
		Score:           score,
		Factors:         factors,
		Gates:           gates,
		GatesPassed:     gates.Passed(),
		Recommendation:  GetRecommendation(score, gates.Passed()),
		WeightTotal:     total,
		WeightsBalanced: math.Abs(total-100) <= 0.001,
	}, nil
}
