package api

import (
	"net/http"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

// ScoreHandler serves stateless evaluations and the rubric.
type ScoreHandler struct {
	weights scoring.WeightSet
}

func NewScoreHandler(weights scoring.WeightSet) *ScoreHandler {
	return &ScoreHandler{weights: weights}
}

type ScoreRequest struct {
	Criteria []scoring.CriterionInput `json:"criteria"`
	Margins  *scoring.Margins         `json:"margins,omitempty"`
}

// Score evaluates the posted criteria without storing anything. Criteria
// sent without a weight take the configured default; an explicit 0 is kept.
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ev, err := scoring.Evaluate(h.weights.Resolve(req.Criteria), req.Margins)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *ScoreHandler) Rubric(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, scoring.NewRubric(h.weights))
}
