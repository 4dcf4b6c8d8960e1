package identity

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log"
	"strconv"

	"dinetrack/internal/store"
)

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Service guarantees a stable anonymous device identifier in the store,
// generated once on first run and never regenerated.
type Service struct {
	store  kvStore
	logger *log.Logger
}

func New(st store.Store, logger *log.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Ensure returns the persisted device id, generating and persisting one if
// it does not exist yet. Idempotent across runs.
func (s *Service) Ensure(ctx context.Context) (string, error) {
	raw, ok, err := s.store.Get(ctx, store.KeyDeviceID)
	if err != nil {
		return "", err
	}
	if ok && len(raw) > 0 {
		return string(raw), nil
	}

	id, err := randomID()
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, store.KeyDeviceID, []byte(id)); err != nil {
		return "", err
	}
	s.logger.Printf("generated device id")
	return id, nil
}

// randomID produces a large random integer rendered as a decimal string.
// Unpredictability beyond collision avoidance is not required.
func randomID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 10), nil
}
