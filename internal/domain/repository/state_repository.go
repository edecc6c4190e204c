// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
)

// ErrStateNotFound is returned when a collection has never been written.
var ErrStateNotFound = errors.New("state not found")

// StateRepository is a namespaced key-value store of serialized collections.
// Writes are last-write-wins and always replace the whole payload.
type StateRepository interface {
	// Load returns the raw payload stored for the collection.
	Load(ctx context.Context, namespace, collection string) ([]byte, error)

	// Save replaces the payload stored for the collection.
	Save(ctx context.Context, namespace, collection string, payload []byte) error

	// Delete removes the collection. Deleting a missing collection is not an error.
	Delete(ctx context.Context, namespace, collection string) error
}
