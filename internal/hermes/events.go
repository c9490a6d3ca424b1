package hermes

import (
	"time"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

// ProductSubmitEvent asks the service to record a product for scoring.
type ProductSubmitEvent struct {
	Title       string                   `json:"title"`
	ASIN        string                   `json:"asin,omitempty"`
	Keyword     string                   `json:"keyword,omitempty"`
	Marketplace string                   `json:"marketplace,omitempty"`
	Source      string                   `json:"source,omitempty"`
	Criteria    []scoring.CriterionInput `json:"criteria"`
	Margins     *scoring.Margins         `json:"margins,omitempty"`
}

type ProductCreatedEvent struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Keyword   string `json:"keyword,omitempty"`
	Source    string `json:"source,omitempty"`
}

type ProductUpdatedEvent struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
}

type ProductEvaluatedEvent struct {
	ProductID      string                 `json:"product_id"`
	EvaluationID   string                 `json:"evaluation_id"`
	Score          int                    `json:"score"`
	Gates          scoring.GateResult     `json:"gates"`
	GatesPassed    int                    `json:"gates_passed"`
	Recommendation scoring.Recommendation `json:"recommendation"`
	Trigger        string                 `json:"trigger"`
}

type ProductDeletedEvent struct {
	ProductID string `json:"product_id"`
}

type StatsEvent struct {
	TotalProducts int       `json:"total_products"`
	Pending       int       `json:"pending"`
	Proceed       int       `json:"proceed"`
	GatherData    int       `json:"gather_data"`
	Reject        int       `json:"reject"`
	AvgScore      float64   `json:"avg_score"`
	Timestamp     time.Time `json:"timestamp"`
}
