package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// Noop is used when no cache backend is configured. Every lookup misses.
type Noop struct{}

func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (Noop) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (Noop) Delete(context.Context, ...string) error { return nil }
