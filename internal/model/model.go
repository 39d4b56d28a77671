package model

// User identifies the account behind the current session.
type User struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session pairs a user with the bearer token issued at login.
// Token and user are always set or cleared together.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// CartItem is one line of the cart mirrored from the backend.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     *string `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Product is the canonical shape all catalog payloads normalize into.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Category    string   `json:"category,omitempty"`
	Company     string   `json:"company,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// PriceBreakdown is the checkout cost summary. It is derived from cart
// contents on demand and never persisted.
type PriceBreakdown struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}
