package impl

import (
	"context"

	"keystore/internal/domain/entity"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/state"

	"github.com/pkg/errors"
)

// clientState bundles the collections of one client namespace. While a user
// is logged in, the cart, wishlist and settings collections mirror the
// fields of currentUser.
type clientState struct {
	store    *state.Store
	accounts *Accounts
}

func newClientState(provider *state.Provider, accounts *Accounts, clientID string) *clientState {
	return &clientState{
		store:    provider.For(clientID),
		accounts: accounts,
	}
}

// currentUser returns the session user, or nil for a guest.
func (cs *clientState) currentUser(ctx context.Context) (*entity.UserAccount, error) {
	user, err := state.Get[*entity.UserAccount](ctx, cs.store, state.CurrentUser, nil)
	if err != nil || user == nil {
		return nil, err
	}
	user.Normalize()

	return user, nil
}

func (cs *clientState) requireUser(ctx context.Context) (*entity.UserAccount, error) {
	user, err := cs.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	return user, nil
}

func (cs *clientState) cart(ctx context.Context) (entity.Cart, error) {
	return state.Get(ctx, cs.store, state.Cart, entity.Cart{})
}

func (cs *clientState) wishlist(ctx context.Context) (entity.Wishlist, error) {
	return state.Get(ctx, cs.store, state.Wishlist, entity.Wishlist{})
}

func (cs *clientState) settings(ctx context.Context) (*entity.Settings, error) {
	return state.Get(ctx, cs.store, state.Settings, entity.DefaultSettings())
}

// begin installs user as the session user and mirrors its collections.
func (cs *clientState) begin(ctx context.Context, user *entity.UserAccount) (*entity.UserAccount, error) {
	session := user.Sanitized()

	if err := state.Set(ctx, cs.store, state.Cart, session.Cart); err != nil {
		return nil, err
	}
	if err := state.Set(ctx, cs.store, state.Wishlist, session.Wishlist); err != nil {
		return nil, err
	}
	if err := state.Set(ctx, cs.store, state.Settings, session.Settings); err != nil {
		return nil, err
	}
	if err := state.Set(ctx, cs.store, state.CurrentUser, session); err != nil {
		return nil, err
	}

	return session, nil
}

// saveCart writes the cart collection and, when logged in, the session user
// and its stored account.
func (cs *clientState) saveCart(ctx context.Context, cart entity.Cart) error {
	if err := state.Set(ctx, cs.store, state.Cart, cart); err != nil {
		return err
	}

	user, err := cs.currentUser(ctx)
	if err != nil || user == nil {
		return err
	}
	user.Cart = cart

	return cs.saveUser(ctx, user, false)
}

// saveUser rewrites currentUser and syncs it to the account.
func (cs *clientState) saveUser(ctx context.Context, user *entity.UserAccount, withOrders bool) error {
	if err := state.Set(ctx, cs.store, state.CurrentUser, user.Sanitized()); err != nil {
		return err
	}

	return cs.accounts.WriteBack(ctx, user, withOrders)
}
