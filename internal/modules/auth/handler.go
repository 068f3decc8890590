package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/funroad/funroad-backend/internal/apperr"
)

// Handler exposes authentication HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/v1/auth/login", h.login)
	r.Get("/api/v1/auth/session", h.session)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.CodeBadRequest, "invalid request body"))
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	identity, ok := FromContext(r.Context())
	if !ok {
		respond(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{
			"id":    identity.UserID.String(),
			"email": identity.Email,
		},
	})
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
