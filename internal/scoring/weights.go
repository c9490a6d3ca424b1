package scoring

import (
	"fmt"
	"math"
)

// WeightSet defines the default relative importance of each criterion, in
// percentage points. A balanced set sums to 100 (±0.001 tolerance).
type WeightSet struct {
	Revenue     float64 `json:"revenue" yaml:"revenue"`
	Demand      float64 `json:"demand" yaml:"demand"`
	Competition float64 `json:"competition" yaml:"competition"`
	Barriers    float64 `json:"barriers" yaml:"barriers"`
	Seasonality float64 `json:"seasonality" yaml:"seasonality"`
	Margin      float64 `json:"margin" yaml:"margin"`
	Reviews     float64 `json:"reviews" yaml:"reviews"`
	Price       float64 `json:"price" yaml:"price"`
}

// DefaultWeights returns the standard four-criterion rubric.
func DefaultWeights() WeightSet {
	return WeightSet{
		Revenue:     30,
		Demand:      25,
		Competition: 20,
		Barriers:    25,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	var total float64
	for _, v := range w.asMap() {
		total += v
	}
	return total
}

// Validate checks that weights sum to 100 and none are negative.
func (w WeightSet) Validate() error {
	for _, id := range AllCriteria {
		if v := w.For(id); v < 0 {
			return fmt.Errorf("negative weight for %s: %f", id, v)
		}
	}
	if math.Abs(w.Sum()-100) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 100", w.Sum())
	}
	return nil
}

// For returns the weight assigned to id.
func (w WeightSet) For(id CriterionID) float64 {
	return w.asMap()[id]
}

// CriterionInput is a criterion as a caller supplies it. A nil Weight takes
// the default; an explicit 0 stays 0.
type CriterionInput struct {
	ID       CriterionID `json:"id" yaml:"id"`
	Value    float64     `json:"value" yaml:"value"`
	MaxValue float64     `json:"max_value" yaml:"max_value"`
	Weight   *float64    `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Resolve turns inputs into criteria, taking omitted weights from the set.
func (w WeightSet) Resolve(in []CriterionInput) []Criterion {
	out := make([]Criterion, len(in))
	for i, c := range in {
		weight := w.For(c.ID)
		if c.Weight != nil {
			weight = *c.Weight
		}
		out[i] = Criterion{ID: c.ID, Value: c.Value, MaxValue: c.MaxValue, Weight: weight}
	}
	return out
}

func (w WeightSet) asMap() map[CriterionID]float64 {
	return map[CriterionID]float64{
		CriterionRevenue:     w.Revenue,
		CriterionDemand:      w.Demand,
		CriterionCompetition: w.Competition,
		CriterionBarriers:    w.Barriers,
		CriterionSeasonality: w.Seasonality,
		CriterionMargin:      w.Margin,
		CriterionReviews:     w.Reviews,
		CriterionPrice:       w.Price,
	}
}

// TotalWeight sums the weights actually supplied with a criteria list.
func TotalWeight(criteria []Criterion) float64 {
	var total float64
	for _, c := range criteria {
		total += c.Weight
	}
	return total
}
