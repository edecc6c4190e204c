// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/entity"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/domain/repository"
	"keystore/internal/domain/service"
	"keystore/internal/state"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Accounts owns the shared users collection. Read-modify-write cycles are
// serialized in-process; across processes the store stays last-write-wins.
type Accounts struct {
	store       *state.Store
	catalogRepo repository.CatalogRepository
	hasher      service.PasswordHasher
	logger      *slog.Logger

	mu sync.Mutex
}

// AccountsParams holds dependencies for Accounts, injected by Fx.
type AccountsParams struct {
	fx.In

	Provider    *state.Provider
	CatalogRepo repository.CatalogRepository
	Hasher      service.PasswordHasher
	Logger      *slog.Logger
}

// NewAccounts is the constructor for Accounts.
func NewAccounts(params AccountsParams) *Accounts {
	return &Accounts{
		store:       params.Provider.Shared(),
		catalogRepo: params.CatalogRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

func (a *Accounts) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, a.logger)
}

// Authenticate finds the account by case-insensitive email and checks the password.
// Unknown emails and wrong passwords fail the same way.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*entity.UserAccount, error) {
	a.mu.Lock()
	users, err := a.load(ctx)
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}

	idx := indexByEmail(users, email)
	if idx < 0 || !a.hasher.Check(password, users[idx].PasswordHash) {
		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	account := users[idx]
	account.Normalize()

	return &account, nil
}

// Create hashes the password and appends a new account.
func (a *Accounts) Create(ctx context.Context, account *entity.UserAccount, password string) error {
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return a.update(ctx, func(users []entity.UserAccount) ([]entity.UserAccount, error) {
		if indexByEmail(users, account.Email) >= 0 {
			return nil, errors.WithStack(domainerrors.ErrUserAlreadyExists)
		}

		stored := *account
		stored.PasswordHash = hash

		return append(users, stored), nil
	})
}

// WriteBack copies the session user's mutable fields into the stored account,
// keeping the stored credential. Orders are copied only when withOrders is set.
func (a *Accounts) WriteBack(ctx context.Context, session *entity.UserAccount, withOrders bool) error {
	return a.update(ctx, func(users []entity.UserAccount) ([]entity.UserAccount, error) {
		idx := indexByID(users, session.ID)
		if idx < 0 {
			a.log(ctx).Warn("Session user has no stored account, skipping write-back",
				slog.String("user_id", session.ID.String()),
			)

			return users, nil
		}

		users[idx].Cart = session.Cart
		users[idx].Wishlist = session.Wishlist
		users[idx].Settings = session.Settings
		if withOrders {
			users[idx].Orders = session.Orders
		}
		users[idx].Normalize()

		return users, nil
	})
}

func (a *Accounts) update(ctx context.Context, fn func([]entity.UserAccount) ([]entity.UserAccount, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.load(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(users)
	if err != nil {
		return err
	}

	return state.Set(ctx, a.store, state.AllUsers, updated)
}

// load reads the users collection, seeding it from the catalog feed the first
// time it is read. Callers hold a.mu.
func (a *Accounts) load(ctx context.Context) ([]entity.UserAccount, error) {
	users, err := state.Get[[]entity.UserAccount](ctx, a.store, state.AllUsers, nil)
	if err != nil {
		return nil, err
	}
	if users != nil {
		return users, nil
	}

	return a.seed(ctx)
}

func (a *Accounts) seed(ctx context.Context) ([]entity.UserAccount, error) {
	seeds, err := a.catalogRepo.SeedUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load seed users")
	}

	users := make([]entity.UserAccount, 0, len(seeds))
	for _, seed := range seeds {
		if strings.TrimSpace(seed.Email) == "" || seed.Password == "" {
			a.log(ctx).Warn("Skipping incomplete seed user", slog.String("name", seed.Name))

			continue
		}
		if indexByEmail(users, seed.Email) >= 0 {
			continue
		}

		hash, err := a.hasher.Hash(seed.Password)
		if err != nil {
			return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
		}

		account := entity.UserAccount{
			ID:           uuid.New(),
			Name:         seed.Name,
			Email:        strings.TrimSpace(seed.Email),
			PasswordHash: hash,
			Avatar:       seed.Avatar,
		}
		account.Normalize()
		users = append(users, account)
	}

	if err := state.Set(ctx, a.store, state.AllUsers, users); err != nil {
		return nil, err
	}

	a.log(ctx).Info("Seeded user accounts", slog.Int("count", len(users)))

	return users, nil
}

func indexByEmail(users []entity.UserAccount, email string) int {
	for i := range users {
		if users[i].EmailMatches(email) {
			return i
		}
	}

	return -1
}

func indexByID(users []entity.UserAccount, id uuid.UUID) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}

	return -1
}
