package state

import (
	"log/slog"

	"keystore/internal/domain/repository"

	"go.uber.org/fx"
)

// ProviderParams holds dependencies for Provider, injected by Fx.
type ProviderParams struct {
	fx.In

	Repo     repository.StateRepository
	Notifier *Notifier
	Logger   *slog.Logger
}

// Provider hands out stores bound to client namespaces.
type Provider struct {
	repo     repository.StateRepository
	notifier *Notifier
	logger   *slog.Logger
}

// NewProvider is the constructor for Provider.
func NewProvider(params ProviderParams) *Provider {
	return &Provider{
		repo:     params.Repo,
		notifier: params.Notifier,
		logger:   params.Logger,
	}
}

// For returns the store of a client namespace.
func (p *Provider) For(namespace string) *Store {
	return NewStore(p.repo, namespace, p.notifier, p.logger)
}

// Shared returns the store of collections shared by every client.
func (p *Provider) Shared() *Store {
	return NewStore(p.repo, SharedNamespace, p.notifier, p.logger)
}
