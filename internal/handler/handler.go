package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fsanano/storefront-client/internal/cart"
	"github.com/fsanano/storefront-client/internal/catalog"
	"github.com/fsanano/storefront-client/internal/pricing"
	"github.com/fsanano/storefront-client/internal/session"
)

// Handler exposes the state layer to the presentation layer over a
// local HTTP surface.
type Handler struct {
	router *chi.Mux

	sessions *session.Manager
	cart     *cart.Engine
	pricing  *pricing.Calculator
	catalog  *catalog.Service
}

func NewHandler(sessions *session.Manager, cartEngine *cart.Engine, calc *pricing.Calculator, catalogSvc *catalog.Service) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	h := &Handler{
		router:   router,
		sessions: sessions,
		cart:     cartEngine,
		pricing:  calc,
		catalog:  catalogSvc,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)

		r.Post("/login", h.Login)
		r.Post("/signup", h.Signup)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.CurrentSession)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/refresh", h.RefreshCart)
			r.Post("/items", h.AddCartItem)
			r.Patch("/items/{productID}", h.ChangeCartQuantity)
			r.Delete("/items/{productID}", h.RemoveCartItem)
			r.Post("/clear", h.ClearCart)
			r.Get("/summary", h.CartSummary)
		})

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Post("/products", h.CreateProduct)

		r.Get("/storefront", h.Storefront)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
