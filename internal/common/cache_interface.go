package common

import "time"

// CacheInterface is the key/value store behind CachedSyncConfig.
// Values are kept as-is, so implementations must not serialize them.
type CacheInterface interface {
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	Delete(key string)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(prefix string)
}
