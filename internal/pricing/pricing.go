package pricing

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/fsanano/storefront-client/internal/model"
)

const (
	discountRate     = 0.10
	taxRate          = 0.08
	freeShippingOver = 500
	flatShipping     = 15.99
)

// Calculator turns cart contents and an optional promo code into a
// cost breakdown. It holds no state beyond the configured promo
// literal; every quote is computed from scratch.
type Calculator struct {
	promoCode string
}

func New(promoCode string) *Calculator {
	return &Calculator{promoCode: strings.ToLower(strings.TrimSpace(promoCode))}
}

// ValidPromo reports whether code matches the configured promo literal,
// ignoring case and surrounding whitespace.
func (c *Calculator) ValidPromo(code string) bool {
	return strings.TrimSpace(strings.ToLower(code)) == c.promoCode
}

// Quote computes the breakdown. Operation order matters: the 10%
// discount applies to the subtotal, shipping is free above 500, and
// the 8% tax applies to the discounted subtotal.
func (c *Calculator) Quote(items []model.CartItem, promoCode string) model.PriceBreakdown {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}

	var discount float64
	if promoCode != "" && c.ValidPromo(promoCode) {
		discount = subtotal * discountRate
	}

	shipping := flatShipping
	if subtotal > freeShippingOver {
		shipping = 0
	}

	tax := (subtotal - discount) * taxRate

	return model.PriceBreakdown{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal - discount + shipping + tax,
	}
}

var moneyPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatMoney renders a rupee amount with Indian digit grouping and
// exactly two fraction digits, e.g. 125000 → "₹1,25,000.00".
func FormatMoney(v float64) string {
	return moneyPrinter.Sprintf("₹%v", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
