package track

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dinetrack/internal/domain"
	"dinetrack/internal/store"
)

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// Service derives the elapsed-time view of outstanding orders from the
// persisted session start and reads the order history back verbatim. It
// performs no status transitions; statuses are opaque strings owned by the
// order submission service.
type Service struct {
	store  kvStore
	logger *log.Logger
	now    func() time.Time
}

func New(st store.Store, logger *log.Logger) *Service {
	return &Service{store: st, logger: logger, now: time.Now}
}

// StartedAt returns the persisted session start. A missing or malformed
// stamp reports no active session.
func (s *Service) StartedAt(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := s.store.Get(ctx, store.KeyOrderStartedAt)
	if err != nil {
		return time.Time{}, false, err
	}
	if !ok {
		return time.Time{}, false, nil
	}
	started, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		s.logger.Printf("discarding malformed session start: %v", err)
		return time.Time{}, false, nil
	}
	return started, true, nil
}

// Elapsed returns whole seconds since the session start, recomputed from the
// wall clock at read time so it stays correct across restarts. The second
// result is false when no session is active.
func (s *Service) Elapsed(ctx context.Context) (int64, bool, error) {
	started, ok, err := s.StartedAt(ctx)
	if err != nil || !ok {
		return 0, false, err
	}
	seconds := int64(s.now().Sub(started) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return seconds, true, nil
}

// History returns the persisted order history unchanged. Missing or
// malformed data degrades to an empty history.
func (s *Service) History(ctx context.Context) ([]domain.OrderRecord, error) {
	raw, ok, err := s.store.Get(ctx, store.KeyOrders)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.OrderRecord{}, nil
	}
	var history []domain.OrderRecord
	if err := json.Unmarshal(raw, &history); err != nil {
		s.logger.Printf("discarding malformed order history: %v", err)
		return []domain.OrderRecord{}, nil
	}
	return history, nil
}

// DisplayCounter is the presentation-side seconds counter. It is seeded from
// the authoritative elapsed value and advanced once per display tick; it is
// never written back and never consulted for the real elapsed time.
type DisplayCounter struct {
	seconds int64
}

// Counter seeds a display counter from the current elapsed time.
func (s *Service) Counter(ctx context.Context) (*DisplayCounter, error) {
	seconds, _, err := s.Elapsed(ctx)
	if err != nil {
		return nil, err
	}
	return &DisplayCounter{seconds: seconds}, nil
}

func (c *DisplayCounter) Advance() {
	c.seconds++
}

func (c *DisplayCounter) Seconds() int64 {
	return c.seconds
}

func (c *DisplayCounter) String() string {
	return FormatSeconds(c.seconds)
}

// FormatSeconds renders a second count as HH:MM:SS.
func FormatSeconds(total int64) string {
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
