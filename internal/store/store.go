package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means the product was updated after it was read.
	ErrConflict = errors.New("product changed since it was read")
)

type ProductStatus string

const (
	StatusPending   ProductStatus = "pending"
	StatusEvaluated ProductStatus = "evaluated"
)

func (s ProductStatus) Valid() bool {
	return s == StatusPending || s == StatusEvaluated
}

type Product struct {
	ID          uuid.UUID     `json:"product_id"`
	Title       string        `json:"title"`
	ASIN        string        `json:"asin,omitempty"`
	Keyword     string        `json:"keyword,omitempty"`
	Marketplace string        `json:"marketplace,omitempty"`
	Source      string        `json:"source,omitempty"`
	Status      ProductStatus `json:"status"`

	// Scoring inputs
	Criteria []scoring.Criterion `json:"criteria"`
	Margins  *scoring.Margins    `json:"margins,omitempty"`

	// Latest scoring outputs
	LatestScore          *int                   `json:"latest_score,omitempty"`
	LatestRecommendation scoring.Recommendation `json:"latest_recommendation,omitempty"`
	EvaluatedAt          *time.Time             `json:"evaluated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductFilter struct {
	Status         *ProductStatus
	Recommendation scoring.Recommendation
	Keyword        string
	MinScore       *int
	Limit          int
	Offset         int
}

// Evaluation is a persisted snapshot of one engine run for a product.
type Evaluation struct {
	ID             uuid.UUID              `json:"evaluation_id"`
	ProductID      uuid.UUID              `json:"product_id"`
	Score          int                    `json:"score"`
	Gates          scoring.GateResult     `json:"gates"`
	GatesPassed    int                    `json:"gates_passed"`
	Recommendation scoring.Recommendation `json:"recommendation"`
	Factors        []scoring.FactorResult `json:"factors"`
	WeightTotal    float64                `json:"weight_total"`
	Trigger        string                 `json:"trigger"`
	CreatedAt      time.Time              `json:"created_at"`
}

// NewEvaluation snapshots an engine result for productID.
func NewEvaluation(productID uuid.UUID, ev *scoring.Evaluation, trigger string) *Evaluation {
	return &Evaluation{
		ProductID:      productID,
		Score:          ev.Score,
		Gates:          ev.Gates,
		GatesPassed:    ev.GatesPassed,
		Recommendation: ev.Recommendation,
		Factors:        ev.Factors,
		WeightTotal:    ev.WeightTotal,
		Trigger:        trigger,
	}
}

type ProductStats struct {
	TotalProducts int     `json:"total_products"`
	Pending       int     `json:"pending"`
	Proceed       int     `json:"proceed"`
	GatherData    int     `json:"gather_data"`
	Reject        int     `json:"reject"`
	AvgScore      float64 `json:"avg_score"`
	Evaluations   int     `json:"evaluations"`
}

type Store interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, error)
	// UpdateProduct writes the descriptive fields, criteria, margins and
	// status. Score columns are only written by RecordEvaluation.
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetPendingProducts(ctx context.Context, limit int) ([]*Product, error)

	// RecordEvaluation stores e and marks its product evaluated with e's
	// score, but only if the product's UpdatedAt still equals asOf. Otherwise
	// nothing is written and ErrConflict is returned.
	RecordEvaluation(ctx context.Context, e *Evaluation, asOf time.Time) error
	ListEvaluations(ctx context.Context, productID uuid.UUID) ([]*Evaluation, error)

	GetStats(ctx context.Context) (*ProductStats, error)

	Close() error
}
