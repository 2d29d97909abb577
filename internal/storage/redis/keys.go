package redis

import (
	"fmt"
)

// Key prefix for all client-local data
const keyPrefix = "musikspil"

// localKey returns the Redis key for a device-local value
func localKey(namespace, key string) string {
	return fmt.Sprintf("%s:local:%s:%s", keyPrefix, namespace, key)
}
