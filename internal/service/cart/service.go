package cart

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"dinetrack/internal/domain"
	"dinetrack/internal/store"
)

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Manager owns the in-memory cart and mirrors it to the store on every
// mutation. In-memory state is the source of truth; the persisted snapshot
// is only read back on construction.
type Manager struct {
	mu      sync.Mutex
	store   kvStore
	taxRate decimal.Decimal
	logger  *log.Logger
	lines   []domain.CartLine
}

type AddInput struct {
	ItemID          string          `json:"itemId"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Image           string          `json:"image,omitempty"`
	SelectedOptions []string        `json:"selectedOptions,omitempty"`
}

// NewManager loads the persisted snapshot and returns a ready cart. A missing
// or malformed snapshot starts an empty cart; load problems are logged, never
// returned.
func NewManager(ctx context.Context, st store.Store, taxRate decimal.Decimal, logger *log.Logger) *Manager {
	m := &Manager{store: st, taxRate: taxRate, logger: logger}

	raw, ok, err := st.Get(ctx, store.KeyCart)
	if err != nil {
		logger.Printf("load cart snapshot: %v", err)
		return m
	}
	if !ok {
		return m
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		logger.Printf("discarding malformed cart snapshot: %v", err)
		return m
	}
	m.lines = lines
	return m
}

// Add inserts the item with quantity 1, or bumps the quantity of an existing
// line keeping its selected options.
func (m *Manager) Add(ctx context.Context, in AddInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ItemID == in.ItemID {
			m.lines[i].Quantity++
			return m.persist(ctx)
		}
	}

	m.lines = append(m.lines, domain.CartLine{
		ItemID:          in.ItemID,
		Name:            in.Name,
		UnitPrice:       in.UnitPrice,
		Quantity:        1,
		Image:           in.Image,
		SelectedOptions: in.SelectedOptions,
	})
	return m.persist(ctx)
}

// Remove deletes the line if present; removing an absent item is a no-op.
func (m *Manager) Remove(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ItemID == itemID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return m.persist(ctx)
		}
	}
	return nil
}

// SetQuantity sets the quantity of an existing line. Quantities below one are
// rejected; an absent item is a no-op.
func (m *Manager) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ItemID == itemID {
			m.lines[i].Quantity = quantity
			return m.persist(ctx)
		}
	}
	return nil
}

func (m *Manager) Increment(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ItemID == itemID {
			m.lines[i].Quantity++
			return m.persist(ctx)
		}
	}
	return nil
}

// Decrement lowers the quantity by one, flooring at 1. Dropping a line
// requires an explicit Remove.
func (m *Manager) Decrement(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ItemID == itemID {
			if m.lines[i].Quantity > 1 {
				m.lines[i].Quantity--
				return m.persist(ctx)
			}
			return nil
		}
	}
	return nil
}

// Clear empties the cart and drops the persisted snapshot.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = nil
	return m.store.Remove(ctx, store.KeyCart)
}

// Snapshot returns a deep copy of the current lines, in insertion order.
func (m *Manager) Snapshot() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.CartLine, len(m.lines))
	copy(out, m.lines)
	for i := range out {
		if len(out[i].SelectedOptions) > 0 {
			opts := make([]string, len(out[i].SelectedOptions))
			copy(opts, out[i].SelectedOptions)
			out[i].SelectedOptions = opts
		}
	}
	return out
}

// Totals computes subtotal, tax and total at full precision. Rounding to two
// places is left to the display boundary.
func (m *Manager) Totals() domain.CartTotals {
	m.mu.Lock()
	defer m.mu.Unlock()

	subtotal := decimal.Zero
	for _, line := range m.lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(m.taxRate)
	return domain.CartTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// persist writes the full cart under the cart key. Callers hold the lock.
func (m *Manager) persist(ctx context.Context) error {
	raw, err := json.Marshal(m.lines)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, store.KeyCart, raw)
}
