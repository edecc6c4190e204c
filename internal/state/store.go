// Package state is the namespaced client state store: typed collections
// serialized as JSON on top of a repository.StateRepository backend.
package state

import (
	"context"
	"encoding/json"
	"log/slog"

	deliverycontext "keystore/internal/delivery/context"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/domain/repository"
	"keystore/internal/errors"
)

// Collection names one logical key inside a namespace.
type Collection string

const (
	CurrentUser  Collection = "currentUser"
	AllUsers     Collection = "allUsers"
	Cart         Collection = "cart"
	Wishlist     Collection = "wishlist"
	Settings     Collection = "settings"
	CurrentOrder Collection = "currentOrder"

	// Activity is written by the state-change worker, never by the storefront.
	Activity Collection = "activity"
)

// SharedNamespace holds collections visible to every client (the users collection).
const SharedNamespace = "shared"

// Store reads and writes the collections of one namespace.
type Store struct {
	repo      repository.StateRepository
	namespace string
	notifier  *Notifier
	logger    *slog.Logger
}

// NewStore binds a backend to a namespace.
func NewStore(repo repository.StateRepository, namespace string, notifier *Notifier, logger *slog.Logger) *Store {
	return &Store{
		repo:      repo,
		namespace: namespace,
		notifier:  notifier,
		logger:    logger,
	}
}

// Namespace returns the namespace this store is bound to.
func (s *Store) Namespace() string {
	return s.namespace
}

func (s *Store) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// Get decodes a collection. A missing or malformed payload yields def; only
// backend failures are returned as errors.
func Get[T any](ctx context.Context, s *Store, c Collection, def T) (T, error) {
	payload, err := s.repo.Load(ctx, s.namespace, string(c))
	if errors.Is(err, repository.ErrStateNotFound) {
		return def, nil
	}
	if err != nil {
		return def, domainerrors.NewStorageExecuteError(err, "failed to load "+string(c))
	}

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		s.log(ctx).Warn("Discarding malformed stored state",
			slog.String("namespace", s.namespace),
			slog.String("collection", string(c)),
			slog.Any("error", err),
		)

		return def, nil
	}

	return value, nil
}

// Set replaces a collection with value and notifies subscribers.
func Set[T any](ctx context.Context, s *Store, c Collection, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", c)
	}

	if err := s.repo.Save(ctx, s.namespace, string(c), payload); err != nil {
		return domainerrors.NewStorageExecuteError(err, "failed to save "+string(c))
	}

	s.notify(ctx, c)

	return nil
}

// Remove deletes a collection and notifies subscribers.
func (s *Store) Remove(ctx context.Context, c Collection) error {
	if err := s.repo.Delete(ctx, s.namespace, string(c)); err != nil {
		return domainerrors.NewStorageExecuteError(err, "failed to delete "+string(c))
	}

	s.notify(ctx, c)

	return nil
}

func (s *Store) notify(ctx context.Context, c Collection) {
	if s.notifier == nil {
		return
	}

	s.notifier.Notify(ctx, Change{Namespace: s.namespace, Collection: c})
}
