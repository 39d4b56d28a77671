package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fsanano/storefront-client/internal/model"
	"github.com/fsanano/storefront-client/internal/service/storeapi"
)

type catalogAPI interface {
	ListProducts(ctx context.Context) (json.RawMessage, error)
	GetProduct(ctx context.Context, id string) (json.RawMessage, error)
	CreateProduct(ctx context.Context, in storeapi.CreateProductInput) (string, error)
	Origin() string
}

const cacheTTL = 5 * time.Minute

// Service fetches the product catalog and serves it normalized. The
// full list is cached briefly; category filtering happens per call.
type Service struct {
	api catalogAPI

	cacheMu sync.RWMutex
	cached  *cachedResult
}

type cachedResult struct {
	result Result
	expiry time.Time
}

func NewService(api catalogAPI) *Service {
	return &Service{api: api}
}

// Fetch returns the normalized catalog, optionally filtered to one
// category (exact match, case-insensitive).
func (s *Service) Fetch(ctx context.Context, category string) (Result, error) {
	s.cacheMu.RLock()
	if c := s.cached; c != nil && time.Now().Before(c.expiry) {
		s.cacheMu.RUnlock()
		return filtered(c.result, category), nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	// Double check logic
	if c := s.cached; c != nil && time.Now().Before(c.expiry) {
		return filtered(c.result, category), nil
	}

	raw, err := s.api.ListProducts(ctx)
	if err != nil {
		return Result{}, err
	}
	result := Normalize(raw, s.api.Origin())
	s.cached = &cachedResult{result: result, expiry: time.Now().Add(cacheTTL)}
	return filtered(result, category), nil
}

// Get fetches one product by id from the {success, data} envelope.
func (s *Service) Get(ctx context.Context, id string) (model.Product, error) {
	raw, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	product, err := NormalizeProduct(raw, s.api.Origin())
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: malformed product payload: %w", err)
	}
	return product, nil
}

// NewProduct is a product submission. All fields are required.
type NewProduct struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Company     string  `json:"company"`
}

// ValidationError reports a rejected submission field. Raised before
// any request goes out.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Create validates the submission synchronously and posts it.
func (s *Service) Create(ctx context.Context, in NewProduct) (string, error) {
	if err := validate(in); err != nil {
		return "", err
	}
	return s.api.CreateProduct(ctx, storeapi.CreateProductInput{
		Name:        in.Name,
		Price:       in.Price,
		Image:       in.Image,
		Description: in.Description,
		Category:    in.Category,
		Company:     in.Company,
	})
}

func validate(in NewProduct) error {
	required := []struct {
		field, value string
	}{
		{"name", in.Name},
		{"image", in.Image},
		{"description", in.Description},
		{"category", in.Category},
		{"company", in.Company},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "required"}
		}
	}
	if math.IsNaN(in.Price) || in.Price <= 0 {
		return &ValidationError{Field: "price", Message: "must be a positive number"}
	}
	u, err := url.Parse(in.Image)
	if err != nil || !u.IsAbs() {
		return &ValidationError{Field: "image", Message: "must be a valid absolute URL"}
	}
	return nil
}

func filtered(r Result, category string) Result {
	if category == "" {
		return r
	}
	return Result{
		Products:        FilterByCategory(r.Products, category),
		UnexpectedShape: r.UnexpectedShape,
	}
}
