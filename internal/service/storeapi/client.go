package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fsanano/storefront-client/internal/model"
)

type Config struct {
	BaseURL string
}

// Client speaks to the storefront backend. All raw HTTP for the state
// layer goes through here so the bearer credential and error mapping
// are applied uniformly.
type Client struct {
	client    *http.Client
	transport *BearerTransport
	baseURL   string
}

func NewClient(cfg Config) *Client {
	transport := &BearerTransport{Base: http.DefaultTransport}
	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
		transport: transport,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// AttachCredentials binds the token source consulted on every outbound
// request and the hook fired on authentication-failure responses. Must
// be called before the client is used.
func (c *Client) AttachCredentials(tokens TokenSource, onUnauthorized func()) {
	c.transport.Tokens = tokens
	c.transport.OnUnauthorized = onUnauthorized
}

// Origin returns the backend origin relative image paths resolve
// against.
func (c *Client) Origin() string {
	return c.baseURL
}

func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/api/users/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			// Rejected credentials come back as a plain error status.
			return model.Session{}, &AuthError{Op: "login", Message: statusErr.Message}
		}
		return model.Session{}, err
	}
	return model.Session{
		User: model.User{
			UserID:   out.UserID,
			Username: out.Username,
			Email:    out.Email,
		},
		Token: out.Token,
	}, nil
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, "/api/users/signup", signupRequest{Username: username, Email: email, Password: password}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) FetchCart(ctx context.Context) ([]model.CartItem, error) {
	var out cartResponse
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	items := make([]model.CartItem, 0, len(out.Items))
	for _, it := range out.Items {
		item := model.CartItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
		if it.Image != "" {
			img := it.Image
			item.Image = &img
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) AddItem(ctx context.Context, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/api/cart/add", addItemRequest{ProductID: productID, Quantity: quantity}, nil)
}

func (c *Client) RemoveItem(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodPost, "/api/cart/remove", removeItemRequest{ProductID: productID}, nil)
}

func (c *Client) ChangeQuantity(ctx context.Context, productID string, change int) error {
	return c.do(ctx, http.MethodPatch, "/api/cart/changeQuantity", changeQuantityRequest{ProductID: productID, Change: change}, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/cart/clear", struct{}{}, nil)
}

// ListProducts returns the catalog payload undecoded; envelope shapes
// vary by backend and are resolved by the catalog normalizer.
func (c *Client) ListProducts(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (json.RawMessage, error) {
	var out struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Data == nil {
		msg := out.Message
		if msg == "" {
			msg = "product not found"
		}
		return nil, &StatusError{Op: "get product", Status: http.StatusNotFound, Message: msg}
	}
	return out.Data, nil
}

func (c *Client) CreateProduct(ctx context.Context, in CreateProductInput) (string, error) {
	var out createProductResponse
	if err := c.do(ctx, http.MethodPost, "/api/products", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := fmt.Sprintf("%s %s", method, path)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Op: op, Message: decodeMessage(resp.Body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, Status: resp.StatusCode, Message: decodeMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func decodeMessage(body io.Reader) string {
	var msg messageResponse
	if err := json.NewDecoder(body).Decode(&msg); err != nil {
		return ""
	}
	return msg.Message
}
