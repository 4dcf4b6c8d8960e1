package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Food is the server-authoritative description of a menu item as returned
// by the order submission service. Price tolerates both numeric and quoted
// JSON values since upstream is inconsistent about it.
type Food struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// OrderRecord is one entry of the persisted order history, keyed by Food.ID.
// Status is an opaque string set by the order submission service; it is never
// transitioned locally.
type OrderRecord struct {
	Food     Food   `json:"food"`
	Quantity int    `json:"quantity"`
	Status   string `json:"order_status"`
}

// OrderSession marks the first confirmed order. StartedAt is written once and
// never overwritten while any order history exists; there is currently no
// reset path.
type OrderSession struct {
	StartedAt time.Time `json:"startedAt"`
}

// DeviceIdentity is the stable anonymous identifier for this installation,
// generated once and persisted.
type DeviceIdentity struct {
	ID string `json:"id"`
}
