package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fsanano/storefront-client/internal/model"
	"github.com/fsanano/storefront-client/internal/pricing"
)

type cartResponse struct {
	Items []model.CartItem `json:"items"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cartResponse{Items: h.cart.Items()})
}

func (h *Handler) RefreshCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Refresh(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: h.cart.Items()})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		http.Error(w, "productId required", http.StatusBadRequest)
		return
	}

	if err := h.cart.Add(r.Context(), req.ProductID, req.Quantity); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: h.cart.Items()})
}

type changeQuantityRequest struct {
	Change int `json:"change"`
}

func (h *Handler) ChangeCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req changeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Change == 0 {
		http.Error(w, "change must be non-zero", http.StatusBadRequest)
		return
	}

	productID := chi.URLParam(r, "productID")
	if err := h.cart.ChangeQuantity(r.Context(), productID, req.Change); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: h.cart.Items()})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if err := h.cart.Remove(r.Context(), productID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: h.cart.Items()})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: h.cart.Items()})
}

type summaryResponse struct {
	Breakdown    model.PriceBreakdown `json:"breakdown"`
	Formatted    map[string]string    `json:"formatted"`
	PromoApplied bool                 `json:"promoApplied"`
}

// CartSummary quotes checkout pricing for the cached cart. The quote is
// recomputed on every call, never stored.
func (h *Handler) CartSummary(w http.ResponseWriter, r *http.Request) {
	promo := r.URL.Query().Get("promo")
	items := h.cart.Items()
	breakdown := h.pricing.Quote(items, promo)

	respondJSON(w, http.StatusOK, summaryResponse{
		Breakdown: breakdown,
		Formatted: map[string]string{
			"subtotal": pricing.FormatMoney(breakdown.Subtotal),
			"discount": pricing.FormatMoney(breakdown.Discount),
			"shipping": pricing.FormatMoney(breakdown.Shipping),
			"tax":      pricing.FormatMoney(breakdown.Tax),
			"total":    pricing.FormatMoney(breakdown.Total),
		},
		PromoApplied: promo != "" && h.pricing.ValidPromo(promo),
	})
}
