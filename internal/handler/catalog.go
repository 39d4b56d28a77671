package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/fsanano/storefront-client/internal/catalog"
	"github.com/fsanano/storefront-client/internal/model"
)

const shapeWarning = "unexpected catalog payload shape"

type productsResponse struct {
	Products []model.Product `json:"products"`
	Warning  string          `json:"warning,omitempty"`
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.Fetch(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := productsResponse{Products: result.Products}
	if result.UnexpectedShape {
		resp.Warning = shapeWarning
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.catalog.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": message})
}

type storefrontResponse struct {
	Products []model.Product  `json:"products"`
	Cart     []model.CartItem `json:"cart,omitempty"`
	Warning  string           `json:"warning,omitempty"`
}

// Storefront assembles the landing view in one round trip: the catalog,
// plus the cart when a session is active.
func (h *Handler) Storefront(w http.ResponseWriter, r *http.Request) {
	_, authenticated := h.sessions.Current()

	g, ctx := errgroup.WithContext(r.Context())

	var result catalog.Result
	g.Go(func() error {
		var err error
		result, err = h.catalog.Fetch(ctx, r.URL.Query().Get("category"))
		return err
	})

	if authenticated {
		g.Go(func() error {
			return h.cart.Refresh(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		respondError(w, err)
		return
	}

	resp := storefrontResponse{Products: result.Products}
	if authenticated {
		resp.Cart = h.cart.Items()
	}
	if result.UnexpectedShape {
		resp.Warning = shapeWarning
	}
	respondJSON(w, http.StatusOK, resp)
}
