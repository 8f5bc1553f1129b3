// Package cache keeps read-mostly lists (users, roles) out of the database on
// every page load. Values are stored as JSON so both backings behave the same.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrLoaderRequired = errors.New("cache: loader required")

// Loader produces the value to cache on a miss.
type Loader func(ctx context.Context) (interface{}, error)

// ListCache is a read-through JSON cache.
type ListCache interface {
	// FetchJSON decodes the cached value for key into dest, calling load and
	// storing its result on a miss.
	FetchJSON(ctx context.Context, key string, dest interface{}, load Loader) error
	// Invalidate drops the given keys.
	Invalidate(ctx context.Context, keys ...string) error
}

// Keys used by the services.
const (
	KeyUsers = "users:list"
	KeyRoles = "roles:list"
)

// DefaultTTL applies when a constructor is given a non-positive ttl.
const DefaultTTL = 5 * time.Minute

func loadRaw(ctx context.Context, load Loader) ([]byte, error) {
	if load == nil {
		return nil, ErrLoaderRequired
	}
	value, err := load(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(value)
}
