// Package store is a small key/value abstraction over the places the
// services keep their records: process memory, a JSON file or Redis.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: not found")

// Store holds values of type V by string key.
//
// List returns values in insertion order. Put on an existing key replaces
// the value in place. Update applies fn to the stored value atomically with
// respect to other calls on the same store and persists the result; if fn
// returns an error nothing is written.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Put(ctx context.Context, key string, v V) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn func(*V) error) (V, error)
	List(ctx context.Context) ([]V, error)
}
