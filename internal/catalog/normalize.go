package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fsanano/storefront-client/internal/model"
)

// Result is the outcome of normalizing one catalog payload. When the
// payload matches no known envelope, Products is empty and
// UnexpectedShape is set; downstream code never sees the raw shape.
type Result struct {
	Products        []model.Product
	UnexpectedShape bool
}

// rawProduct tolerates the field variations backends send. Mongo-style
// payloads use "_id".
type rawProduct struct {
	MongoID     string   `json:"_id"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Company     string   `json:"company"`
	Tags        []string `json:"tags"`
}

// Normalize resolves the payload envelope — a bare array, or an object
// wrapping the array under "products", "data", or "results" — and maps
// every entry to the canonical product shape. Relative image paths are
// resolved against origin.
func Normalize(raw json.RawMessage, origin string) Result {
	var entries []rawProduct
	if err := json.Unmarshal(raw, &entries); err != nil {
		var envelope struct {
			Products json.RawMessage `json:"products"`
			Data     json.RawMessage `json:"data"`
			Results  json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return Result{UnexpectedShape: true}
		}
		inner := firstPresent(envelope.Products, envelope.Data, envelope.Results)
		if inner == nil {
			return Result{UnexpectedShape: true}
		}
		if err := json.Unmarshal(inner, &entries); err != nil {
			return Result{UnexpectedShape: true}
		}
	}

	products := make([]model.Product, 0, len(entries))
	for _, e := range entries {
		products = append(products, normalizeEntry(e, origin))
	}
	return Result{Products: products}
}

// NormalizeProduct maps a single raw product object to the canonical
// shape.
func NormalizeProduct(raw json.RawMessage, origin string) (model.Product, error) {
	var entry rawProduct
	if err := json.Unmarshal(raw, &entry); err != nil {
		return model.Product{}, err
	}
	return normalizeEntry(entry, origin), nil
}

func normalizeEntry(e rawProduct, origin string) model.Product {
	id := e.MongoID
	if id == "" {
		id = e.ID
	}
	return model.Product{
		ID:          id,
		Name:        e.Name,
		Price:       e.Price,
		Description: e.Description,
		Image:       ResolveImage(origin, e.Image),
		Category:    e.Category,
		Company:     e.Company,
		Tags:        e.Tags,
	}
}

// ResolveImage passes absolute URLs through and joins relative paths to
// the backend origin, inserting a "/" only when the path lacks one. An
// absent image stays nil so the view layer can tell it apart from "".
func ResolveImage(origin, image string) *string {
	if image == "" {
		return nil
	}
	if strings.HasPrefix(image, "http") {
		return &image
	}
	resolved := origin
	if !strings.HasPrefix(image, "/") {
		resolved += "/"
	}
	resolved += image
	return &resolved
}

// FilterByCategory keeps products whose category matches exactly,
// ignoring case. Products without a category never match.
func FilterByCategory(products []model.Product, category string) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Category != "" && strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

func firstPresent(candidates ...json.RawMessage) json.RawMessage {
	for _, c := range candidates {
		if len(c) > 0 && !bytes.Equal(c, []byte("null")) {
			return c
		}
	}
	return nil
}
