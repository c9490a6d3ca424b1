package api

import (
	"errors"
	"net/http"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/hermes"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/store"
)

type AdminHandler struct {
	store  store.Store
	hermes hermes.Client
}

func NewAdminHandler(s store.Store, h hermes.Client) *AdminHandler {
	return &AdminHandler{store: s, hermes: h}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Delete removes a product and its evaluation history.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.hermes != nil {
		_ = h.hermes.Publish(hermes.SubjectProductDeleted(id.String()), hermes.ProductDeletedEvent{ProductID: id.String()})
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "product_id": id.String()})
}
