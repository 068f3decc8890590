package review

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/auth"
)

// Handler exposes review HTTP endpoints. All routes require an
// authenticated identity.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/reviews/{productId}", h.getOwnReview)
	r.Post("/api/v1/reviews", h.createReview)
	r.Put("/api/v1/reviews/{reviewId}", h.updateReview)
}

type reviewRequest struct {
	ProductID   string `json:"product_id,omitempty"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

func (h *Handler) getOwnReview(w http.ResponseWriter, r *http.Request) {
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

	rv, err := h.service.GetOne(r.Context(), identity.UserID, productID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rv)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, apperr.New(apperr.CodeUnauthorized, "authentication required"))
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.CodeBadRequest, "invalid request body"))
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(w, apperr.New(apperr.CodeBadRequest, "invalid product id"))
		return
	}

	rv, err := h.service.Create(r.Context(), identity.UserID, productID, req.Rating, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, rv)
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, apperr.New(apperr.CodeUnauthorized, "authentication required"))
		return
	}
	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewId"))
	if err != nil {
		respondError(w, apperr.New(apperr.CodeBadRequest, "invalid review id"))
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.CodeBadRequest, "invalid request body"))
		return
	}

	rv, err := h.service.Update(r.Context(), identity.UserID, reviewID, req.Rating, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rv)
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
