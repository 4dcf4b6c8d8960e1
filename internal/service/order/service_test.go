package order

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"dinetrack/internal/client/orders"
	"dinetrack/internal/domain"
	"dinetrack/internal/store"
)

type stubCart struct {
	lines   []domain.CartLine
	cleared int
}

func (s *stubCart) Snapshot() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *stubCart) Clear(_ context.Context) error {
	s.cleared++
	s.lines = nil
	return nil
}

type stubClient struct {
	mu        sync.Mutex
	records   []domain.OrderRecord
	err       error
	calls     int
	lastBatch []orders.RequestLine
	block     chan struct{}
}

func (s *stubClient) Create(_ context.Context, lines []orders.RequestLine) ([]domain.OrderRecord, error) {
	s.mu.Lock()
	s.calls++
	s.lastBatch = lines
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestService(st store.Store, cart *stubCart, client *stubClient) *Service {
	return New(st, cart, client, testLogger())
}

func record(foodID string, qty int, status string) domain.OrderRecord {
	return domain.OrderRecord{Food: domain.Food{ID: foodID, Name: "food-" + foodID}, Quantity: qty, Status: status}
}

func TestSubmitMissingRouteContext(t *testing.T) {
	st := store.NewMemory()
	cart := &stubCart{lines: []domain.CartLine{{ItemID: "1", Quantity: 1}}}
	client := &stubClient{}
	svc := newTestService(st, cart, client)
	ctx := context.Background()

	for _, refs := range [][2]string{{"", "hotel"}, {"t1", ""}, {"  ", "hotel"}, {"", ""}} {
		if _, err := svc.Submit(ctx, refs[0], refs[1]); err != domain.ErrMissingRouteContext {
			t.Fatalf("refs %q: expected ErrMissingRouteContext, got %v", refs, err)
		}
	}
	if client.callCount() != 0 {
		t.Fatalf("expected no network call, got %d", client.callCount())
	}
	if cart.cleared != 0 {
		t.Fatalf("cart must be untouched")
	}
	if _, ok, _ := st.Get(ctx, store.KeyOrders); ok {
		t.Fatalf("order history must be untouched")
	}
}

func TestSubmitBuildsBatchFromCart(t *testing.T) {
	st := store.NewMemory()
	cart := &stubCart{lines: []domain.CartLine{
		{ItemID: "1", Quantity: 2, SelectedOptions: []string{"cheese"}},
		{ItemID: "2", Quantity: 1},
	}}
	client := &stubClient{records: []domain.OrderRecord{record("1", 2, "Pending"), record("2", 1, "Pending")}}
	svc := newTestService(st, cart, client)

	if _, err := svc.Submit(context.Background(), "t5", "h9"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(client.lastBatch) != 2 {
		t.Fatalf("expected 2 request lines, got %d", len(client.lastBatch))
	}
	first := client.lastBatch[0]
	if first.FoodID != "1" || first.Quantity != 2 || first.OrderTable != "t5" || first.HotelID != "h9" {
		t.Fatalf("unexpected request line %+v", first)
	}
	if len(first.Ingredients) != 1 || first.Ingredients[0] != "cheese" {
		t.Fatalf("selected options must be carried on the wire, got %v", first.Ingredients)
	}
	if cart.cleared != 1 {
		t.Fatalf("expected cart cleared once, got %d", cart.cleared)
	}
}

func TestSubmitMergeAccumulatesQuantity(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	// persisted history already holds food 1 with quantity 2
	if err := st.Set(ctx, store.KeyOrders, []byte(`[{"food":{"id":"1","name":"food-1"},"quantity":2,"order_status":"Pending"}]`)); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	cart := &stubCart{lines: []domain.CartLine{{ItemID: "1", Quantity: 1}}}
	client := &stubClient{records: []domain.OrderRecord{record("1", 1, "Pending")}}
	svc := newTestService(st, cart, client)

	history, err := svc.Submit(ctx, "t1", "h1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history))
	}
	if history[0].Quantity != 3 {
		t.Fatalf("expected accumulated quantity 3, got %d", history[0].Quantity)
	}
}

func TestMergeIsAssociative(t *testing.T) {
	ctx := context.Background()

	// merge {A:2} then {A:3}
	stepwise := store.NewMemory()
	cart := &stubCart{lines: []domain.CartLine{{ItemID: "A", Quantity: 2}}}
	client := &stubClient{records: []domain.OrderRecord{record("A", 2, "Pending")}}
	svc := newTestService(stepwise, cart, client)
	if _, err := svc.Submit(ctx, "t", "h"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	cart.lines = []domain.CartLine{{ItemID: "A", Quantity: 3}}
	client.records = []domain.OrderRecord{record("A", 3, "Pending")}
	stepHistory, err := svc.Submit(ctx, "t", "h")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	// merge {A:5} directly
	direct := store.NewMemory()
	cart2 := &stubCart{lines: []domain.CartLine{{ItemID: "A", Quantity: 5}}}
	client2 := &stubClient{records: []domain.OrderRecord{record("A", 5, "Pending")}}
	svc2 := newTestService(direct, cart2, client2)
	directHistory, err := svc2.Submit(ctx, "t", "h")
	if err != nil {
		t.Fatalf("direct submit: %v", err)
	}

	if len(stepHistory) != 1 || len(directHistory) != 1 {
		t.Fatalf("expected single record in both histories")
	}
	if stepHistory[0].Quantity != directHistory[0].Quantity {
		t.Fatalf("stepwise quantity %d != direct quantity %d", stepHistory[0].Quantity, directHistory[0].Quantity)
	}
}

func TestSubmitStampsSessionStartOnce(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	cart := &stubCart{lines: []domain.CartLine{{ItemID: "1", Quantity: 1}}}
	client := &stubClient{records: []domain.OrderRecord{record("1", 1, "Pending")}}
	svc := newTestService(st, cart, client)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	if _, err := svc.Submit(ctx, "t", "h"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	first, ok, _ := st.Get(ctx, store.KeyOrderStartedAt)
	if !ok {
		t.Fatalf("expected session start stamped")
	}

	// a second submission 60s later must not move the stamp
	svc.now = func() time.Time { return base.Add(60 * time.Second) }
	cart.lines = []domain.CartLine{{ItemID: "2", Quantity: 1}}
	client.records = []domain.OrderRecord{record("2", 1, "Pending")}
	if _, err := svc.Submit(ctx, "t", "h"); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	second, _, _ := st.Get(ctx, store.KeyOrderStartedAt)
	if string(first) != string(second) {
		t.Fatalf("session start changed: %s -> %s", first, second)
	}
}

func TestSubmitFailureLeavesStateUntouched(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	seed := `[{"food":{"id":"9"},"quantity":4,"order_status":"Accepted"}]`
	if err := st.Set(ctx, store.KeyOrders, []byte(seed)); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	cart := &stubCart{lines: []domain.CartLine{{ItemID: "1", Quantity: 1}}}
	client := &stubClient{err: &domain.SubmissionError{Message: "kitchen closed"}}
	svc := newTestService(st, cart, client)

	_, err := svc.Submit(ctx, "t", "h")
	subErr, ok := err.(*domain.SubmissionError)
	if !ok {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Message != "kitchen closed" {
		t.Fatalf("expected service message surfaced, got %q", subErr.Message)
	}
	if cart.cleared != 0 {
		t.Fatalf("cart must not be cleared on failure")
	}
	got, _, _ := st.Get(ctx, store.KeyOrders)
	if string(got) != seed {
		t.Fatalf("history changed on failure: %s", got)
	}
	if _, ok, _ := st.Get(ctx, store.KeyOrderStartedAt); ok {
		t.Fatalf("session start must not be stamped on failure")
	}
}

func TestSubmitRejectsConcurrentCall(t *testing.T) {
	st := store.NewMemory()
	cart := &stubCart{lines: []domain.CartLine{{ItemID: "1", Quantity: 1}}}
	client := &stubClient{
		records: []domain.OrderRecord{record("1", 1, "Pending")},
		block:   make(chan struct{}),
	}
	svc := newTestService(st, cart, client)
	ctx := context.Background()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := svc.Submit(ctx, "t", "h")
		done <- err
	}()

	<-started
	// wait until the first call is inside the client
	for client.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	if _, err := svc.Submit(ctx, "t", "h"); err != domain.ErrSubmissionInProgress {
		t.Fatalf("expected ErrSubmissionInProgress, got %v", err)
	}

	close(client.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if client.callCount() != 1 {
		t.Fatalf("expected exactly one network call, got %d", client.callCount())
	}
}
