package domain

import "github.com/shopspring/decimal"

// CartLine is one selectable item in the cart. The cart holds at most one
// line per ItemID; repeated adds accumulate Quantity.
type CartLine struct {
	ItemID          string          `json:"itemId"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Quantity        int             `json:"quantity"`
	Image           string          `json:"image,omitempty"`
	SelectedOptions []string        `json:"selectedOptions,omitempty"`
}

// CartTotals carries full-precision sums; rounding to two places happens
// only at the display boundary.
type CartTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}
