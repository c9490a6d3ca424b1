package scoring

// Recommendation is the three-tier verdict for a product.
type Recommendation string

const (
	RecommendProceed    Recommendation = "proceed"
	RecommendGatherData Recommendation = "gather-data"
	RecommendReject     Recommendation = "reject"
)

func (r Recommendation) Valid() bool {
	switch r {
	case RecommendProceed, RecommendGatherData, RecommendReject:
		return true
	}
	return false
}

const (
	proceedMinScore    = 80
	proceedGates       = 4
	gatherDataMinScore = 60
	gatherDataMinGates = 2
)

// Band describes the minimum score and gate count for a recommendation.
type Band struct {
	Recommendation Recommendation `json:"recommendation" yaml:"recommendation"`
	MinScore       int            `json:"min_score" yaml:"min_score"`
	MinGates       int            `json:"min_gates" yaml:"min_gates"`
}

// Bands lists the recommendation tiers from strictest to loosest. Reject has
// no minimum.
var Bands = []Band{
	{Recommendation: RecommendProceed, MinScore: proceedMinScore, MinGates: proceedGates},
	{Recommendation: RecommendGatherData, MinScore: gatherDataMinScore, MinGates: gatherDataMinGates},
	{Recommendation: RecommendReject},
}

// GetRecommendation classifies a (score, gatesPassed) pair.
//
//	proceed:     score >= 80 and all 4 gates passed
//	gather-data: score >= 60 and at least 2 gates passed
//	reject:      everything else
func GetRecommendation(score, gatesPassed int) Recommendation {
	switch {
	case score >= proceedMinScore && gatesPassed == proceedGates:
		return RecommendProceed
	case score >= gatherDataMinScore && gatesPassed >= gatherDataMinGates:
		return RecommendGatherData
	default:
		return RecommendReject
	}
}
