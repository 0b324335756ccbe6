package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"efficiensa/internal/logger"
)

// Setting is a single persisted value with a default. Reads never fail: a
// missing, unreadable or undecodable value yields the default.
type Setting[T any] struct {
	key       string
	def       T
	codec     Codec[T]
	store     Store
	log       logger.Logger
	normalize func(T) T

	mu     sync.RWMutex
	value  T
	loaded bool
}

// Option customises a Setting
type Option[T any] func(*Setting[T])

// WithNormalize cleans values on load and before they are written
func WithNormalize[T any](fn func(T) T) Option[T] {
	return func(s *Setting[T]) { s.normalize = fn }
}

// New creates a setting bound to a store key
func New[T any](store Store, key string, def T, codec Codec[T], log logger.Logger, opts ...Option[T]) *Setting[T] {
	if log == nil {
		log = logger.Nop()
	}
	s := &Setting[T]{key: key, def: def, codec: codec, store: store, log: log, value: def}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the store key
func (s *Setting[T]) Key() string {
	return s.key
}

// Default returns the default value
func (s *Setting[T]) Default() T {
	return s.def
}

// Load reads the value from the store, caches it and returns it
func (s *Setting[T]) Load(ctx context.Context) T {
	v := s.read(ctx)
	s.mu.Lock()
	s.value, s.loaded = v, true
	s.mu.Unlock()
	return v
}

func (s *Setting[T]) read(ctx context.Context) T {
	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return s.def
	}
	if err != nil {
		s.log.Error("setting_load_failed", "Failed to read setting, using default", "", map[string]interface{}{"key": s.key}, err)
		return s.def
	}
	v, err := s.codec.Decode(raw)
	if err != nil {
		s.log.Error("setting_decode_failed", "Stored setting is invalid, using default", "", map[string]interface{}{"key": s.key}, err)
		return s.def
	}
	if s.normalize != nil {
		v = s.normalize(v)
	}
	return v
}

// Get returns the cached value, loading it on first use
func (s *Setting[T]) Get(ctx context.Context) T {
	s.mu.RLock()
	v, loaded := s.value, s.loaded
	s.mu.RUnlock()
	if loaded {
		return v
	}
	return s.Load(ctx)
}

// Set writes the value to the store and then updates the cache.
// On a write error the cached value is left unchanged.
func (s *Setting[T]) Set(ctx context.Context, v T) error {
	if s.normalize != nil {
		v = s.normalize(v)
	}
	raw, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.key, err)
	}
	s.value, s.loaded = v, true
	return nil
}

// Clear deletes the stored value and reverts to the default
func (s *Setting[T]) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.key, err)
	}
	s.value, s.loaded = s.def, true
	return nil
}
