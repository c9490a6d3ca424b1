package scoring

// Candidate is an evaluated product projected onto the comparison dimensions.
type Candidate struct {
	ProductID   string  `json:"product_id"`
	Title       string  `json:"title,omitempty"`
	Revenue     float64 `json:"revenue"`
	Demand      float64 `json:"demand"`
	Margin      float64 `json:"margin"`
	Competition float64 `json:"competition"` // lower is better
	Score       int     `json:"score"`
}

// CandidateFrom builds a Candidate from raw criteria using the same
// first-match and missing-value rules as the gates.
func CandidateFrom(productID, title string, criteria []Criterion, margins *Margins) Candidate {
	return Candidate{
		ProductID:   productID,
		Title:       title,
		Revenue:     findValue(criteria, CriterionRevenue),
		Demand:      findValue(criteria, CriterionDemand),
		Margin:      margins.Value(),
		Competition: findValue(criteria, CriterionCompetition),
		Score:       ComputeFinalScore(criteria),
	}
}

// ComputeFrontier returns the Pareto-optimal candidates from the input set.
// A candidate is dominated if another candidate is >= on revenue, demand and
// margin, <= on competition, and strictly better on at least one.
// The dominance check is O(n^2) over the shortlist.
func ComputeFrontier(candidates []Candidate) []Candidate {
	if len(candidates) <= 1 {
		return candidates
	}

	var frontier []Candidate
	for i := range candidates {
		dominated := false
		for j := range candidates {
			if i == j {
				continue
			}
			if dominates(candidates[j], candidates[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, candidates[i])
		}
	}
	return frontier
}

func dominates(a, b Candidate) bool {
	if a.Revenue < b.Revenue || a.Demand < b.Demand || a.Margin < b.Margin || a.Competition > b.Competition {
		return false
	}
	return a.Revenue > b.Revenue || a.Demand > b.Demand || a.Margin > b.Margin || a.Competition < b.Competition
}
