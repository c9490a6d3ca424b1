package store

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

func TestProductStatusValues(t *testing.T) {
	statuses := []ProductStatus{StatusPending, StatusEvaluated}
	expected := []string{"pending", "evaluated"}
	for i, s := range statuses {
		if string(s) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], s)
		}
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ProductStatus("archived").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

func TestProductFilterDefaults(t *testing.T) {
	f := ProductFilter{}
	if f.Limit != 0 {
		t.Errorf("expected 0 default limit, got %d", f.Limit)
	}
	if f.Status != nil {
		t.Error("expected nil status filter")
	}
	if f.MinScore != nil {
		t.Error("expected nil min score filter")
	}
}

func TestNewEvaluation(t *testing.T) {
	id := uuid.New()
	ev := &scoring.Evaluation{
		Score:          77,
		Gates:          scoring.GateResult{Revenue: true, Demand: true, Competition: true, Margin: true},
		GatesPassed:    4,
		Recommendation: scoring.RecommendProceed,
		Factors:        []scoring.FactorResult{{ID: scoring.CriterionRevenue, Weighted: 24}},
		WeightTotal:    100,
	}

	e := NewEvaluation(id, ev, "manual")
	if e.ProductID != id {
		t.Errorf("expected product id %s, got %s", id, e.ProductID)
	}
	if e.Score != 77 || e.GatesPassed != 4 {
		t.Errorf("unexpected snapshot: score=%d gates=%d", e.Score, e.GatesPassed)
	}
	if e.Recommendation != scoring.RecommendProceed {
		t.Errorf("expected proceed, got %s", e.Recommendation)
	}
	if e.Trigger != "manual" {
		t.Errorf("expected trigger manual, got %s", e.Trigger)
	}
	if len(e.Factors) != 1 {
		t.Errorf("expected 1 factor, got %d", len(e.Factors))
	}
	if e.ID != uuid.Nil {
		t.Error("expected id to be assigned by the store")
	}
}
