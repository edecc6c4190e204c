// Package memory contains an in-process implementation of the persistence layer.
package memory

import (
	"context"
	"slices"
	"sync"

	"keystore/internal/domain/repository"
)

type stateKey struct {
	namespace  string
	collection string
}

// stateRepository keeps payloads in a map guarded by a RWMutex.
type stateRepository struct {
	mu      sync.RWMutex
	entries map[stateKey][]byte
}

// NewStateRepository is the constructor for the in-memory state backend.
func NewStateRepository() repository.StateRepository {
	return &stateRepository{entries: make(map[stateKey][]byte)}
}

func (repo *stateRepository) Load(_ context.Context, namespace, collection string) ([]byte, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	payload, ok := repo.entries[stateKey{namespace, collection}]
	if !ok {
		return nil, repository.ErrStateNotFound
	}

	return slices.Clone(payload), nil
}

func (repo *stateRepository) Save(_ context.Context, namespace, collection string, payload []byte) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.entries[stateKey{namespace, collection}] = slices.Clone(payload)

	return nil
}

func (repo *stateRepository) Delete(_ context.Context, namespace, collection string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.entries, stateKey{namespace, collection})

	return nil
}
