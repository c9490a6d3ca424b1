package scoring

// RubricCriterion describes one known criterion for display.
type RubricCriterion struct {
	ID            CriterionID `json:"id" yaml:"id"`
	Label         string      `json:"label" yaml:"label"`
	Inverted      bool        `json:"inverted" yaml:"inverted"`
	DefaultWeight float64     `json:"default_weight" yaml:"default_weight"`
}

// Rubric is the complete scoring reference: criteria, weights, gates and
// recommendation bands.
type Rubric struct {
	Criteria        []RubricCriterion `json:"criteria" yaml:"criteria"`
	Weights         WeightSet         `json:"weights" yaml:"weights"`
	Gates           []GateRule        `json:"gates" yaml:"gates"`
	Recommendations []Band            `json:"recommendations" yaml:"recommendations"`
}

func NewRubric(weights WeightSet) Rubric {
	criteria := make([]RubricCriterion, 0, len(AllCriteria))
	for _, id := range AllCriteria {
		criteria = append(criteria, RubricCriterion{
			ID:            id,
			Label:         id.Label(),
			Inverted:      id.Inverted(),
			DefaultWeight: weights.For(id),
		})
	}
	return Rubric{
		Criteria:        criteria,
		Weights:         weights,
		Gates:           GateRules,
		Recommendations: Bands,
	}
}
