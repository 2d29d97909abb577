package storage

import (
	"context"
)

// Storage is device-local key/value storage. Values outlive any room and
// survive across sessions of the client.
type Storage interface {
	// Get returns model.ErrKeyNotFound if the key is absent
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend
	Close() error
}

// Keys used by the client
const (
	KeyDeviceID         = "device_id"
	KeyHistoryCollapsed = "history_collapsed"
)
