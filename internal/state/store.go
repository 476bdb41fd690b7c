package state

import "context"

// Store is the durable local key-value medium the session survives reloads
// through. Reads and writes are synchronous local I/O; a missing key is not
// an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
