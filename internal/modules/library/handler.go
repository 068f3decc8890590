package library

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/auth"
)

// Handler exposes the buyer-library HTTP endpoints. All routes require an
// authenticated identity.
type Handler struct {
	service      Service
	defaultLimit int
}

func NewHandler(service Service, defaultLimit int) *Handler {
	return &Handler{service: service, defaultLimit: defaultLimit}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/library", h.listLibrary)
	r.Get("/api/v1/library/{productId}", h.getLibraryItem)
}

func (h *Handler) listLibrary(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, apperr.New(apperr.CodeUnauthorized, "authentication required"))
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			respondError(w, apperr.New(apperr.CodeBadRequest, "page must be a positive integer"))
			return
		}
		page = p
	}
	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l < 1 {
			respondError(w, apperr.New(apperr.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = l
	}

	result, err := h.service.GetMany(r.Context(), identity.UserID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) getLibraryItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, apperr.New(apperr.CodeUnauthorized, "authentication required"))
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		respondError(w, apperr.New(apperr.CodeBadRequest, "invalid product id"))
		return
	}

	item, err := h.service.GetOne(r.Context(), identity.UserID, productID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, item)
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
