package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/hermes"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/rescorer"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/research"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/store"
)

const maxBatchSize = 500

type ProductsHandler struct {
	store       store.Store
	hermes      hermes.Client
	rescorer    *rescorer.Rescorer
	marketplace string
	logger      *slog.Logger
}

func NewProductsHandler(s store.Store, h hermes.Client, rs *rescorer.Rescorer, marketplace string, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{store: s, hermes: h, rescorer: rs, marketplace: marketplace, logger: logger}
}

type CreateProductRequest struct {
	Title       string                   `json:"title"`
	ASIN        string                   `json:"asin,omitempty"`
	Keyword     string                   `json:"keyword,omitempty"`
	Marketplace string                   `json:"marketplace,omitempty"`
	Source      string                   `json:"source,omitempty"`
	Criteria    []scoring.CriterionInput `json:"criteria"`
	Margins     *scoring.Margins         `json:"margins,omitempty"`
}

func (req CreateProductRequest) submission() hermes.ProductSubmitEvent {
	src := req.Source
	if src == "" {
		src = "api"
	}
	return hermes.ProductSubmitEvent{
		Title:       req.Title,
		ASIN:        req.ASIN,
		Keyword:     req.Keyword,
		Marketplace: req.Marketplace,
		Source:      src,
		Criteria:    req.Criteria,
		Margins:     req.Margins,
	}
}

// Create stores a product and evaluates it immediately unless
// ?evaluate=false is given, in which case the rescorer picks it up. If the
// immediate evaluation fails the product is still created and returned as
// pending, so a retry does not create a duplicate.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.rescorer.SubmitProduct(r.Context(), req.submission())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if r.URL.Query().Get("evaluate") != "false" {
		if _, err := h.rescorer.EvaluateProduct(r.Context(), p, rescorer.TriggerCreate); err != nil {
			h.logger.Warn("immediate evaluation failed, left pending", "product_id", p.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, p)
}

type BatchRequest struct {
	Products []CreateProductRequest `json:"products"`
}

type BatchResponse struct {
	Created    int      `json:"created"`
	ProductIDs []string `json:"product_ids"`
	Error      string   `json:"error,omitempty"`
}

// Batch imports products as pending. The whole batch is validated before
// anything is stored. Storage is not transactional: if a write fails, the
// 500 response still lists the products created before it.
func (h *ProductsHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Products) == 0 {
		writeError(w, http.StatusBadRequest, "products required")
		return
	}
	if len(req.Products) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch exceeds %d products", maxBatchSize))
		return
	}
	for i, p := range req.Products {
		if strings.TrimSpace(p.Title) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "title is required", "index": i})
			return
		}
		if err := scoring.ValidateCriteria(h.rescorer.Weights().Resolve(p.Criteria)); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error(), "index": i})
			return
		}
	}

	resp := BatchResponse{ProductIDs: make([]string, 0, len(req.Products))}
	for _, item := range req.Products {
		p, err := h.rescorer.SubmitProduct(r.Context(), item.submission())
		if err != nil {
			resp.Error = err.Error()
			writeJSON(w, http.StatusInternalServerError, resp)
			return
		}
		resp.Created++
		resp.ProductIDs = append(resp.ProductIDs, p.ID.String())
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ProductFilter{Keyword: q.Get("keyword")}

	if s := q.Get("status"); s != "" {
		status := store.ProductStatus(s)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = &status
	}
	if s := q.Get("recommendation"); s != "" {
		rec := scoring.Recommendation(s)
		if !rec.Valid() {
			writeError(w, http.StatusBadRequest, "invalid recommendation")
			return
		}
		filter.Recommendation = rec
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &filter.Limit}, {"offset", &filter.Offset}} {
		if s := q.Get(p.name); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "invalid "+p.name)
				return
			}
			*p.dst = n
		}
	}
	if s := q.Get("min_score"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid min_score")
			return
		}
		filter.MinScore = &n
	}

	products, err := h.store.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if products == nil {
		products = []*store.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type UpdateProductRequest struct {
	Title       *string                   `json:"title,omitempty"`
	ASIN        *string                   `json:"asin,omitempty"`
	Keyword     *string                   `json:"keyword,omitempty"`
	Marketplace *string                   `json:"marketplace,omitempty"`
	Criteria    *[]scoring.CriterionInput `json:"criteria,omitempty"`
	Margins     *scoring.Margins          `json:"margins,omitempty"`
}

// Update patches a product. Changing criteria or margins returns the product
// to pending so it is rescored.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		p.Title = *req.Title
	}
	if req.ASIN != nil {
		p.ASIN = *req.ASIN
	}
	if req.Keyword != nil {
		p.Keyword = *req.Keyword
	}
	if req.Marketplace != nil {
		p.Marketplace = *req.Marketplace
	}
	rescore := false
	if req.Criteria != nil {
		criteria := h.rescorer.Weights().Resolve(*req.Criteria)
		if err := scoring.ValidateCriteria(criteria); err != nil {
			writeEngineError(w, err)
			return
		}
		p.Criteria = criteria
		rescore = true
	}
	if req.Margins != nil {
		p.Margins = req.Margins
		rescore = true
	}
	if rescore {
		p.Status = store.StatusPending
	}

	if err := h.store.UpdateProduct(r.Context(), p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.hermes != nil {
		_ = h.hermes.Publish(hermes.SubjectProductUpdated(p.ID.String()), hermes.ProductUpdatedEvent{
			ProductID: p.ID.String(),
			Title:     p.Title,
		})
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	ev, err := h.rescorer.EvaluateProduct(r.Context(), p, rescorer.TriggerManual)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *ProductsHandler) Evaluations(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	evs, err := h.store.ListEvaluations(r.Context(), p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if evs == nil {
		evs = []*store.Evaluation{}
	}
	writeJSON(w, http.StatusOK, evs)
}

func (h *ProductsHandler) Shortcuts(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	h.writeShortcuts(w, research.Query{Keyword: p.Keyword, ASIN: p.ASIN, Marketplace: p.Marketplace})
}

// AdHocShortcuts builds links from ?keyword=&asin=&marketplace= without a
// stored product.
func (h *ProductsHandler) AdHocShortcuts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.writeShortcuts(w, research.Query{Keyword: q.Get("keyword"), ASIN: q.Get("asin"), Marketplace: q.Get("marketplace")})
}

func (h *ProductsHandler) writeShortcuts(w http.ResponseWriter, q research.Query) {
	if q.Marketplace == "" {
		q.Marketplace = h.marketplace
	}
	links, err := research.Shortcuts(q)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *ProductsHandler) load(w http.ResponseWriter, r *http.Request) (*store.Product, bool) {
	id, ok := productID(w, r)
	if !ok {
		return nil, false
	}
	p, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return nil, false
	}
	return p, true
}
