package cart

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/fsanano/storefront-client/internal/model"
)

type cartAPI interface {
	FetchCart(ctx context.Context) ([]model.CartItem, error)
	AddItem(ctx context.Context, productID string, quantity int) error
	RemoveItem(ctx context.Context, productID string) error
	ChangeQuantity(ctx context.Context, productID string, change int) error
	ClearCart(ctx context.Context) error
}

// Engine mirrors the backend cart in a local cache. Every mutation is
// write-through-then-refresh: post the change, then replace the cache
// wholesale from the backend. On a failed mutation the cache is left
// as-is and the error is returned to the caller.
type Engine struct {
	api cartAPI

	group singleflight.Group

	mu    sync.RWMutex
	items []model.CartItem
	gen   uint64
}

func NewEngine(api cartAPI) *Engine {
	return &Engine{api: api}
}

// Items returns a copy of the cached cart.
func (e *Engine) Items() []model.CartItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.CartItem, len(e.items))
	copy(out, e.items)
	return out
}

// Refresh replaces the local cache from the backend. Overlapping calls
// share one request. A refresh that completes after the cart has been
// reset is discarded so a late response cannot resurrect a stale cart.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.RLock()
	gen := e.gen
	e.mu.RUnlock()

	_, err, _ := e.group.Do("refresh", func() (interface{}, error) {
		items, err := e.api.FetchCart(ctx)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		if e.gen == gen {
			e.items = items
		}
		e.mu.Unlock()
		return nil, nil
	})
	return err
}

// Add posts an addition and refreshes. A non-positive quantity is
// treated as 1.
func (e *Engine) Add(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	if err := e.api.AddItem(ctx, productID, quantity); err != nil {
		return err
	}
	return e.Refresh(ctx)
}

func (e *Engine) Remove(ctx context.Context, productID string) error {
	if err := e.api.RemoveItem(ctx, productID); err != nil {
		return err
	}
	return e.Refresh(ctx)
}

// ChangeQuantity applies a signed delta. A delta that would take the
// cached quantity below 1 is sent as a removal instead, so an item
// never lingers at quantity zero.
func (e *Engine) ChangeQuantity(ctx context.Context, productID string, change int) error {
	if current, ok := e.cachedQuantity(productID); ok && current+change < 1 {
		return e.Remove(ctx, productID)
	}
	if err := e.api.ChangeQuantity(ctx, productID, change); err != nil {
		return err
	}
	return e.Refresh(ctx)
}

// Clear empties the backend cart and refreshes like every other
// mutation.
func (e *Engine) Clear(ctx context.Context) error {
	if err := e.api.ClearCart(ctx); err != nil {
		return err
	}
	return e.Refresh(ctx)
}

// Reset drops the local cache without touching the backend. Called on
// session teardown; any refresh still in flight is discarded.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.items = nil
	e.gen++
	e.mu.Unlock()
}

func (e *Engine) cachedQuantity(productID string) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, it := range e.items {
		if it.ProductID == productID {
			return it.Quantity, true
		}
	}
	return 0, false
}
