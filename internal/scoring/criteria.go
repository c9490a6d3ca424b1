// Package scoring implements the product opportunity scoring engine: value
// normalization, the weighted composite score, the four fixed gates and the
// recommendation derived from both. Everything in this package is pure.
package scoring

import (
	"fmt"
	"math"
	"strings"
)

// CriterionID identifies one scored dimension of a product opportunity.
type CriterionID string

const (
	CriterionRevenue     CriterionID = "revenue"
	CriterionDemand      CriterionID = "demand"
	CriterionCompetition CriterionID = "competition"
	CriterionBarriers    CriterionID = "barriers"
	CriterionSeasonality CriterionID = "seasonality"
	CriterionMargin      CriterionID = "margin"
	CriterionReviews     CriterionID = "reviews"
	CriterionPrice       CriterionID = "price"
)

// criterionInfo is the static per-id table. Inversion is decided here and
// nowhere else.
type criterionInfo struct {
	Label    string
	Inverted bool
}

var criterionTable = map[CriterionID]criterionInfo{
	CriterionRevenue:     {Label: "Monthly revenue", Inverted: false},
	CriterionDemand:      {Label: "Search demand", Inverted: false},
	CriterionCompetition: {Label: "Competition", Inverted: true},
	CriterionBarriers:    {Label: "Barriers to entry", Inverted: true},
	CriterionSeasonality: {Label: "Seasonality", Inverted: true},
	CriterionMargin:      {Label: "Profit margin", Inverted: false},
	CriterionReviews:     {Label: "Review velocity", Inverted: false},
	CriterionPrice:       {Label: "Price point", Inverted: false},
}

// AllCriteria lists the known criterion ids in display order.
var AllCriteria = []CriterionID{
	CriterionRevenue,
	CriterionDemand,
	CriterionCompetition,
	CriterionBarriers,
	CriterionSeasonality,
	CriterionMargin,
	CriterionReviews,
	CriterionPrice,
}

func (id CriterionID) Valid() bool {
	_, ok := criterionTable[id]
	return ok
}

// Inverted reports whether a lower raw value is more favorable for id.
func (id CriterionID) Inverted() bool {
	return criterionTable[id].Inverted
}

// Label returns a human readable name, or the raw id for unknown ids.
func (id CriterionID) Label() string {
	if info, ok := criterionTable[id]; ok {
		return info.Label
	}
	return string(id)
}

// ParseCriterionID accepts ids case-insensitively with surrounding space.
func ParseCriterionID(s string) (CriterionID, error) {
	id := CriterionID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", &ValidationError{Field: "id", Reason: fmt.Sprintf("unknown criterion %q", s)}
	}
	return id, nil
}

// Criterion is one weighted, measurable dimension of a product.
//
// Value is expected in [0, MaxValue] but is not clamped. MaxValue must be
// positive. Weight is a percentage-like contribution; a full rubric sums to
// 100 but the engine never re-normalizes.
type Criterion struct {
	ID       CriterionID `json:"id" yaml:"id"`
	Value    float64     `json:"value" yaml:"value"`
	MaxValue float64     `json:"max_value" yaml:"max_value"`
	Weight   float64     `json:"weight" yaml:"weight"`
}

// Validate checks the boundary preconditions of the engine.
func (c Criterion) Validate() error {
	if !c.ID.Valid() {
		return &ValidationError{Field: "id", Reason: fmt.Sprintf("unknown criterion %q", c.ID)}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"value", c.Value}, {"max_value", c.MaxValue}, {"weight", c.Weight}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ValidationError{Field: string(c.ID) + "." + f.name, Reason: "must be a finite number"}
		}
	}
	if c.MaxValue <= 0 {
		return &ValidationError{Field: string(c.ID) + ".max_value", Reason: "must be greater than 0"}
	}
	if c.Weight < 0 {
		return &ValidationError{Field: string(c.ID) + ".weight", Reason: "must not be negative"}
	}
	return nil
}

// ValidateCriteria validates every criterion and returns the first failure.
func ValidateCriteria(criteria []Criterion) error {
	for _, c := range criteria {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// findValue returns the raw value of the first criterion with id. Missing
// criteria read as MissingValue.
func findValue(criteria []Criterion, id CriterionID) float64 {
	for _, c := range criteria {
		if c.ID == id {
			return c.Value
		}
	}
	return MissingValue
}
