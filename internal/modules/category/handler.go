package category

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/funroad/funroad-backend/internal/apperr"
)

// Handler exposes category HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/categories", h.listCategories)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.service.ListTree(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, nodes)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{
		"error": apperr.MessageOf(err),
		"code":  string(apperr.CodeOf(err)),
	})
}
