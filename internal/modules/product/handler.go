package product

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/auth"
)

// Handler exposes product HTTP endpoints.
type Handler struct {
	service      Service
	defaultLimit int
	maxLimit     int
}

func NewHandler(service Service, defaultLimit, maxLimit int) *Handler {
	return &Handler{service: service, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/products", h.listProducts)
	r.Get("/api/v1/products/{id}", h.getProduct)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query(), h.defaultLimit, h.maxLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, page)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.New(apperr.CodeBadRequest, "invalid product id"))
		return
	}

	var viewerID *uuid.UUID
	if identity, ok := auth.FromContext(r.Context()); ok {
		viewerID = &identity.UserID
	}

	p, err := h.service.Get(r.Context(), id, viewerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
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
