package storeapi

import "fmt"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type cartResponse struct {
	Items []cartItemPayload `json:"items"`
}

type cartItemPayload struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type removeItemRequest struct {
	ProductID string `json:"productId"`
}

type changeQuantityRequest struct {
	ProductID string `json:"productId"`
	Change    int    `json:"change"`
}

// CreateProductInput is the payload for the product creation endpoint.
type CreateProductInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Company     string  `json:"company"`
}

type createProductResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthError reports rejected credentials or an authentication-failure
// response from the backend. It always ends the active session.
type AuthError struct {
	Op      string
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: authentication failed", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// RequestError wraps a transport-level failure reaching the backend.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError is a non-2xx backend response that is not an auth failure.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status code: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}
