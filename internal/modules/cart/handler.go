package cart

import (
	"encoding/json"
	"net/http"
	"regexp"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/funroad/funroad-backend/internal/apperr"
)

// deviceIDPattern keeps device ids filesystem-safe before they become
// snapshot filenames.
var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// Handler exposes per-device cart HTTP endpoints. The device identifies
// itself via the X-Device-ID header; each device gets its own Cart with
// its own persistence snapshot.
type Handler struct {
	mu       sync.Mutex
	carts    map[string]*Cart
	newStore func(deviceID string) Store
}

func NewHandler(newStore func(deviceID string) Store) *Handler {
	return &Handler{carts: map[string]*Cart{}, newStore: newStore}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/cart/{tenantSlug}", h.getCart)
	r.Post("/api/v1/cart/{tenantSlug}/items/{productId}", h.toggleItem)
	r.Delete("/api/v1/cart/{tenantSlug}/items/{productId}", h.removeItem)
	r.Delete("/api/v1/cart/{tenantSlug}", h.clearCart)
	r.Delete("/api/v1/cart", h.clearAllCarts)
}

func (h *Handler) cartFor(r *http.Request) (*Cart, error) {
	deviceID := r.Header.Get("X-Device-ID")
	if !deviceIDPattern.MatchString(deviceID) {
		return nil, apperr.New(apperr.CodeBadRequest, "missing or invalid X-Device-ID header")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.carts[deviceID]; ok {
		return c, nil
	}
	c, err := New(h.newStore(deviceID))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "cart load failed", err)
	}
	h.carts[deviceID] = c
	return c, nil
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartFor(r)
	if err != nil {
		respondError(w, err)
		return
	}
	tenantSlug := chi.URLParam(r, "tenantSlug")
	respond(w, http.StatusOK, map[string]interface{}{
		"product_ids": c.ProductIDs(tenantSlug),
		"count":       c.Count(tenantSlug),
	})
}

func (h *Handler) toggleItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartFor(r)
	if err != nil {
		respondError(w, err)
		return
	}
	added, err := c.Toggle(chi.URLParam(r, "tenantSlug"), chi.URLParam(r, "productId"))
	if err != nil {
		respondError(w, apperr.Wrap(apperr.CodeInternal, "cart save failed", err))
		return
	}
	respond(w, http.StatusOK, map[string]bool{"in_cart": added})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartFor(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := c.Remove(chi.URLParam(r, "tenantSlug"), chi.URLParam(r, "productId")); err != nil {
		respondError(w, apperr.Wrap(apperr.CodeInternal, "cart save failed", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartFor(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := c.Clear(chi.URLParam(r, "tenantSlug")); err != nil {
		respondError(w, apperr.Wrap(apperr.CodeInternal, "cart save failed", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearAllCarts(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartFor(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := c.ClearAll(); err != nil {
		respondError(w, apperr.Wrap(apperr.CodeInternal, "cart save failed", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
