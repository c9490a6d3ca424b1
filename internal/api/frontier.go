package api

import (
	"net/http"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/store"
)

const frontierLimit = 1000

type FrontierHandler struct {
	store store.Store
}

func NewFrontierHandler(s store.Store) *FrontierHandler {
	return &FrontierHandler{store: s}
}

type FrontierResponse struct {
	Considered int                 `json:"considered"`
	Frontier   []scoring.Candidate `json:"frontier"`
}

// Frontier returns the evaluated products no other product beats on revenue,
// demand, margin and competition at once. ?recommendation= narrows the pool.
func (h *FrontierHandler) Frontier(w http.ResponseWriter, r *http.Request) {
	evaluated := store.StatusEvaluated
	filter := store.ProductFilter{Status: &evaluated, Limit: frontierLimit}
	if s := r.URL.Query().Get("recommendation"); s != "" {
		rec := scoring.Recommendation(s)
		if !rec.Valid() {
			writeError(w, http.StatusBadRequest, "invalid recommendation")
			return
		}
		filter.Recommendation = rec
	}

	products, err := h.store.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	candidates := make([]scoring.Candidate, 0, len(products))
	for _, p := range products {
		c := scoring.CandidateFrom(p.ID.String(), p.Title, p.Criteria, p.Margins)
		if p.LatestScore != nil {
			c.Score = *p.LatestScore
		}
		candidates = append(candidates, c)
	}

	frontier := scoring.ComputeFrontier(candidates)
	if frontier == nil {
		frontier = []scoring.Candidate{}
	}
	writeJSON(w, http.StatusOK, FrontierResponse{Considered: len(candidates), Frontier: frontier})
}
