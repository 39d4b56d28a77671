package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fsanano/storefront-client/internal/model"
)

func TestQuote_NoPromoFreeShipping(t *testing.T) {
	calc := New("save10")

	// subtotal 600: shipping free, no discount
	items := []model.CartItem{
		{ProductID: "p1", Price: 200, Quantity: 3},
	}
	got := calc.Quote(items, "")

	assert.Equal(t, 600.0, got.Subtotal)
	assert.Equal(t, 0.0, got.Discount)
	assert.Equal(t, 0.0, got.Shipping)
	assert.InDelta(t, 48.00, got.Tax, 1e-9)
	assert.InDelta(t, 648.00, got.Total, 1e-9)
}

func TestQuote_PromoWithShipping(t *testing.T) {
	calc := New("save10")

	// subtotal 300: 10% off, flat shipping still applies
	items := []model.CartItem{
		{ProductID: "p1", Price: 100, Quantity: 2},
		{ProductID: "p2", Price: 50, Quantity: 2},
	}
	got := calc.Quote(items, "SAVE10")

	assert.Equal(t, 300.0, got.Subtotal)
	assert.InDelta(t, 30.00, got.Discount, 1e-9)
	assert.Equal(t, 15.99, got.Shipping)
	assert.InDelta(t, 21.60, got.Tax, 1e-9)
	assert.InDelta(t, 307.59, got.Total, 1e-9)
}

func TestQuote_EmptyCart(t *testing.T) {
	calc := New("save10")
	got := calc.Quote(nil, "")

	assert.Equal(t, 0.0, got.Subtotal)
	assert.Equal(t, 0.0, got.Discount)
	assert.Equal(t, 15.99, got.Shipping)
	assert.Equal(t, 0.0, got.Tax)
	assert.InDelta(t, 15.99, got.Total, 1e-9)
}

func TestQuote_InvalidPromoIgnored(t *testing.T) {
	calc := New("save10")
	items := []model.CartItem{{ProductID: "p1", Price: 100, Quantity: 1}}

	got := calc.Quote(items, "save20")
	assert.Equal(t, 0.0, got.Discount)
}

func TestValidPromo(t *testing.T) {
	calc := New("save10")

	assert.True(t, calc.ValidPromo("save10"))
	assert.True(t, calc.ValidPromo("SAVE10"))
	assert.True(t, calc.ValidPromo("  Save10  "))
	assert.False(t, calc.ValidPromo("save"))
	assert.False(t, calc.ValidPromo(""))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹648.00", FormatMoney(648))
	assert.Equal(t, "₹15.99", FormatMoney(15.99))
	assert.Equal(t, "₹307.59", FormatMoney(307.59))
	// Indian digit grouping above a lakh
	assert.Equal(t, "₹1,25,000.00", FormatMoney(125000))
}
