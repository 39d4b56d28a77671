package storeapi

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
)

// TokenSource yields the current bearer token, or "" when no session is
// active.
type TokenSource interface {
	Token() string
}

// BearerTransport injects the session credential into every outbound
// request and reports authentication-failure responses. With no token
// source bound, requests pass through unmodified.
type BearerTransport struct {
	Tokens         TokenSource
	OnUnauthorized func()
	Base           http.RoundTripper
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if t.Tokens != nil {
		if token := t.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.OnUnauthorized != nil {
		t.OnUnauthorized()
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	return resp, nil
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
