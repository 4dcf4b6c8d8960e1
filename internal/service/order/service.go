package order

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"dinetrack/internal/client/orders"
	"dinetrack/internal/domain"
	"dinetrack/internal/store"
)

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

type cartManager interface {
	Snapshot() []domain.CartLine
	Clear(ctx context.Context) error
}

type submitClient interface {
	Create(ctx context.Context, lines []orders.RequestLine) ([]domain.OrderRecord, error)
}

// Service converts the cart into an order submission and reconciles the
// confirmed records into the persisted order history.
type Service struct {
	store    kvStore
	cart     cartManager
	client   submitClient
	logger   *log.Logger
	now      func() time.Time
	inFlight atomic.Bool
}

func New(st store.Store, cart cartManager, client submitClient, logger *log.Logger) *Service {
	return &Service{
		store:  st,
		cart:   cart,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Submit sends the current cart as one batch and merges the returned records
// into the persisted history, accumulating quantity per food id. The first
// successful submission stamps the session start; later ones never move it.
// On success the cart is cleared; on any failure cart and history are left
// untouched. Only one submission may be outstanding at a time.
func (s *Service) Submit(ctx context.Context, orderTable, hotelID string) ([]domain.OrderRecord, error) {
	orderTable = strings.TrimSpace(orderTable)
	hotelID = strings.TrimSpace(hotelID)
	if orderTable == "" || hotelID == "" {
		return nil, domain.ErrMissingRouteContext
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmissionInProgress
	}
	defer s.inFlight.Store(false)

	lines := s.cart.Snapshot()
	batch := make([]orders.RequestLine, 0, len(lines))
	for _, line := range lines {
		batch = append(batch, orders.RequestLine{
			FoodID:      line.ItemID,
			Quantity:    line.Quantity,
			OrderTable:  orderTable,
			HotelID:     hotelID,
			Ingredients: line.SelectedOptions,
		})
	}

	records, err := s.client.Create(ctx, batch)
	if err != nil {
		return nil, err
	}

	// The response is in hand; the merge runs to completion so the history
	// never ends up with two records for one food.
	history := s.loadHistory(ctx)
	for _, rec := range records {
		merged := false
		for i := range history {
			if history[i].Food.ID == rec.Food.ID {
				history[i].Quantity += rec.Quantity
				merged = true
				break
			}
		}
		if !merged {
			history = append(history, rec)
		}
	}

	raw, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, store.KeyOrders, raw); err != nil {
		return nil, err
	}

	if err := s.stampSessionStart(ctx); err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		return nil, err
	}

	return history, nil
}

// loadHistory reads the persisted order history; missing or malformed data
// degrades to an empty history.
func (s *Service) loadHistory(ctx context.Context) []domain.OrderRecord {
	raw, ok, err := s.store.Get(ctx, store.KeyOrders)
	if err != nil {
		s.logger.Printf("load order history: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var history []domain.OrderRecord
	if err := json.Unmarshal(raw, &history); err != nil {
		s.logger.Printf("discarding malformed order history: %v", err)
		return nil
	}
	return history
}

// stampSessionStart writes the session start the first time an order is
// placed; an existing stamp is never overwritten.
func (s *Service) stampSessionStart(ctx context.Context) error {
	_, ok, err := s.store.Get(ctx, store.KeyOrderStartedAt)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.store.Set(ctx, store.KeyOrderStartedAt, []byte(s.now().UTC().Format(time.RFC3339Nano)))
}
