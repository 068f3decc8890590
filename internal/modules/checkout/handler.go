package checkout

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/auth"
)

// Handler exposes checkout HTTP endpoints plus the inbound payment
// webhook.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/v1/checkout/{tenantSlug}", h.purchase)
	r.Get("/api/v1/checkout/{tenantSlug}/products", h.getProducts)
	r.Post("/api/v1/webhooks/payment", h.paymentWebhook)
}

func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, apperr.New(apperr.CodeUnauthorized, "authentication required"))
		return
	}

	type request struct {
		ProductIDs []string `json:"product_ids"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.CodeBadRequest, "invalid request body"))
		return
	}
	ids, err := parseIDs(req.ProductIDs)
	if err != nil {
		respondError(w, err)
		return
	}

	sess, err := h.service.Purchase(r.Context(), identity.UserID, identity.Email,
		chi.URLParam(r, "tenantSlug"), ids)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, sess)
}

func (h *Handler) getProducts(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query()["ids"])
	if err != nil {
		respondError(w, err)
		return
	}

	summary, err := h.service.GetProducts(r.Context(), chi.URLParam(r, "tenantSlug"), ids)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		respondError(w, apperr.New(apperr.CodeBadRequest, "unreadable payload"))
		return
	}

	err = h.service.HandlePaymentEvent(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, apperr.New(apperr.CodeBadRequest, "invalid product id")
		}
		ids = append(ids, id)
	}
	return ids, nil
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
