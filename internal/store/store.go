package store

import "context"

// Keys of the persisted local state. Each key is independently readable and
// writable; there is no cross-key transaction and no versioning scheme.
const (
	KeyCart           = "cart"
	KeyOrders         = "orders"
	KeyOrderStartedAt = "order_started_at"
	KeyDeviceID       = "device_id"
)

// Store is durable key/value storage for serialized snapshots. A missing key
// is reported via the ok result, not an error; callers treat malformed stored
// values as absent.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
