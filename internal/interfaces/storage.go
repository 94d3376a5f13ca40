package interfaces

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KeyValueStorage.Get when the key does not exist.
// Callers treat it as "empty collection", never as a failure.
var ErrNotFound = errors.New("key not found")

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (BadgerDB now, centralised DB later).
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	DB() interface{}
	Close() error
}

// KeyValueStorage provides basic key-value operations. Each logical
// collection is persisted as one JSON string under a fixed key.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
}
