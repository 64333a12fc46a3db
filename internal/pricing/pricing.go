// Package pricing turns a cart total into the checkout breakdown.
package pricing

import (
	"github.com/dinehub/restaurant-api/internal/enum"
	"github.com/shopspring/decimal"
)

// Config holds the flat checkout constants. Discount is a configured amount,
// not derived from promo codes.
type Config struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
}

// ForOrderType drops the delivery fee for pickup orders.
func (c Config) ForOrderType(orderType string) Config {
	if orderType == enum.OrderTypePickup {
		c.DeliveryFee = decimal.Zero
	}
	return c
}

// Subtotaler is anything with a running line total, normally *cart.Cart.
type Subtotaler interface {
	Total() decimal.Decimal
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Discount    decimal.Decimal `json:"discount"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
}

// Compute derives the checkout totals. Tax is rounded half-up to whole
// currency units and the grand total is clamped at zero.
func Compute(c Subtotaler, cfg Config) Totals {
	subtotal := c.Total()
	tax := subtotal.Mul(cfg.TaxRate).Round(0)

	grand := subtotal.Add(tax).Add(cfg.DeliveryFee).Sub(cfg.Discount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: cfg.DeliveryFee,
		Discount:    cfg.Discount,
		GrandTotal:  grand,
	}
}
