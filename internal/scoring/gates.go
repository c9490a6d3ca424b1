package scoring

// Gate names one of the four fixed pass/fail checks.
type Gate string

const (
	GateRevenue     Gate = "revenue"
	GateDemand      Gate = "demand"
	GateCompetition Gate = "competition"
	GateMargin      Gate = "margin"
)

// Comparison is the direction a gate threshold is checked in.
type Comparison string

const (
	AtLeast Comparison = ">="
	AtMost  Comparison = "<="
)

// GateRule is one row of the fixed gate table. Criterion is empty for the
// margin gate, which reads Margins.ComputedMargin instead.
type GateRule struct {
	Gate       Gate        `json:"gate" yaml:"gate"`
	Criterion  CriterionID `json:"criterion,omitempty" yaml:"criterion,omitempty"`
	Comparison Comparison  `json:"comparison" yaml:"comparison"`
	Threshold  float64     `json:"threshold" yaml:"threshold"`
}

func (r GateRule) passes(v float64) bool {
	if r.Comparison == AtMost {
		return v <= r.Threshold
	}
	return v >= r.Threshold
}

// GateRules is the fixed gate table in evaluation order.
var GateRules = []GateRule{
	{Gate: GateRevenue, Criterion: CriterionRevenue, Comparison: AtLeast, Threshold: 5000},
	{Gate: GateDemand, Criterion: CriterionDemand, Comparison: AtLeast, Threshold: 1000},
	{Gate: GateCompetition, Criterion: CriterionCompetition, Comparison: AtMost, Threshold: 70},
	{Gate: GateMargin, Comparison: AtLeast, Threshold: 20},
}

// Margins carries the margin figure computed outside the criteria list.
type Margins struct {
	ComputedMargin *float64 `json:"computed_margin,omitempty" yaml:"computed_margin,omitempty"`
}

// Value returns the computed margin, or MissingValue when m or the figure is nil.
func (m *Margins) Value() float64 {
	if m == nil || m.ComputedMargin == nil {
		return MissingValue
	}
	return *m.ComputedMargin
}

// GateResult holds the outcome of all four gates. It always carries every key.
type GateResult struct {
	Revenue     bool `json:"revenue" yaml:"revenue"`
	Demand      bool `json:"demand" yaml:"demand"`
	Competition bool `json:"competition" yaml:"competition"`
	Margin      bool `json:"margin" yaml:"margin"`
}

// Passed counts the gates that passed.
func (g GateResult) Passed() int {
	n := 0
	for _, ok := range []bool{g.Revenue, g.Demand, g.Competition, g.Margin} {
		if ok {
			n++
		}
	}
	return n
}

// Get returns the outcome for a gate name; unknown names report false.
func (g GateResult) Get(gate Gate) bool {
	switch gate {
	case GateRevenue:
		return g.Revenue
	case GateDemand:
		return g.Demand
	case GateCompetition:
		return g.Competition
	case GateMargin:
		return g.Margin
	}
	return false
}

// Map returns the result keyed by gate name.
func (g GateResult) Map() map[Gate]bool {
	return map[Gate]bool{
		GateRevenue:     g.Revenue,
		GateDemand:      g.Demand,
		GateCompetition: g.Competition,
		GateMargin:      g.Margin,
	}
}

func (g *GateResult) set(gate Gate, ok bool) {
	switch gate {
	case GateRevenue:
		g.Revenue = ok
	case GateDemand:
		g.Demand = ok
	case GateCompetition:
		g.Competition = ok
	case GateMargin:
		g.Margin = ok
	}
}

// CheckGates evaluates the fixed gates against raw, unnormalized values.
// The first criterion with a matching id wins; a missing criterion or margin
// reads as MissingValue.
func CheckGates(criteria []Criterion, margins *Margins) GateResult {
	var result GateResult
	for _, rule := range GateRules {
		v := margins.Value()
		if rule.Criterion != "" {
			v = findValue(criteria, rule.Criterion)
		}
		result.set(rule.Gate, rule.passes(v))
	}
	return result
}
