package impl

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"keystore/config"
	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/entity"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/state"
	"keystore/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultAvatar = "/img/avatars/default.png"

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	provider          *state.Provider
	accounts          *Accounts
	passwordMinLength int
	logger            *slog.Logger
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	Provider *state.Provider
	Accounts *Accounts
	Config   *config.Config
	Logger   *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	minLength := 6
	if params.Config != nil && params.Config.PasswordStrength != nil && params.Config.PasswordStrength.MinLength > 0 {
		minLength = params.Config.PasswordStrength.MinLength
	}

	return &sessionService{
		provider:          params.Provider,
		accounts:          params.Accounts,
		passwordMinLength: minLength,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *sessionService) client(clientID string) *clientState {
	return newClientState(srv.provider, srv.accounts, clientID)
}

// Register validates the input, creates the account and logs it in.
func (srv *sessionService) Register(ctx context.Context, clientID string, input usecase.RegisterInput) (*entity.UserAccount, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	if email == "" || name == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "name and email are required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, errors.WithStack(domainerrors.ErrPasswordMismatch)
	}
	if utf8.RuneCountInString(input.Password) < srv.passwordMinLength {
		return nil, errors.WithStack(domainerrors.ErrPasswordTooShort)
	}

	cs := srv.client(clientID)
	guestCart, previous, err := srv.guestCart(ctx, cs)
	if err != nil {
		return nil, err
	}

	avatar := input.Avatar
	if avatar == "" {
		avatar = defaultAvatar
	}

	account := &entity.UserAccount{
		ID:     uuid.New(),
		Name:   name,
		Email:  email,
		Avatar: avatar,
		Cart:   entity.Cart{}.MergeCart(guestCart),
	}
	account.Normalize()

	if err := srv.accounts.Create(ctx, account, input.Password); err != nil {
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			srv.log(ctx).Info("Registration rejected, email taken")
		}

		return nil, err
	}

	if err := srv.endSession(ctx, cs, previous); err != nil {
		return nil, err
	}

	session, err := cs.begin(ctx, account)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Account registered", slog.String("user_id", account.ID.String()))

	return session, nil
}

// Login merges the guest cart into the stored account cart and starts the session.
func (srv *sessionService) Login(ctx context.Context, clientID string, input usecase.LoginInput) (*entity.UserAccount, error) {
	account, err := srv.accounts.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		srv.log(ctx).Info("Login failed")

		return nil, err
	}

	cs := srv.client(clientID)
	guestCart, previous, err := srv.guestCart(ctx, cs)
	if err != nil {
		return nil, err
	}
	if err := srv.endSession(ctx, cs, previous); err != nil {
		return nil, err
	}

	account.Cart = account.Cart.MergeCart(guestCart)
	if err := srv.accounts.WriteBack(ctx, account, false); err != nil {
		return nil, err
	}

	session, err := cs.begin(ctx, account)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User logged in",
		slog.String("user_id", account.ID.String()),
		slog.Int("merged_lines", len(guestCart)),
	)

	return session, nil
}

// guestCart returns the cart to carry into a new session. When another user
// is still signed in on the client, the cart collection is that user's mirror
// and nothing is carried over.
func (srv *sessionService) guestCart(ctx context.Context, cs *clientState) (entity.Cart, *entity.UserAccount, error) {
	previous, err := cs.currentUser(ctx)
	if err != nil {
		return nil, nil, err
	}
	if previous != nil {
		return entity.Cart{}, previous, nil
	}

	cart, err := cs.cart(ctx)

	return cart, nil, err
}

// endSession writes previous back to its account and drops its collections
// from the client. A nil previous is a no-op.
func (srv *sessionService) endSession(ctx context.Context, cs *clientState, previous *entity.UserAccount) error {
	if previous == nil {
		return nil
	}
	if err := srv.accounts.WriteBack(ctx, previous, false); err != nil {
		return err
	}
	for _, c := range []state.Collection{state.Cart, state.Wishlist, state.CurrentOrder, state.CurrentUser} {
		if err := cs.store.Remove(ctx, c); err != nil {
			return err
		}
	}

	srv.log(ctx).Info("Replaced signed-in user", slog.String("user_id", previous.ID.String()))

	return nil
}

// Logout writes the session back, leaves the cart visible to the guest and
// clears everything that belongs to the account.
func (srv *sessionService) Logout(ctx context.Context, clientID string) error {
	cs := srv.client(clientID)

	user, err := cs.currentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	if err := srv.accounts.WriteBack(ctx, user, false); err != nil {
		return err
	}

	if err := state.Set(ctx, cs.store, state.Cart, user.Cart); err != nil {
		return err
	}
	for _, c := range []state.Collection{state.Wishlist, state.CurrentOrder, state.CurrentUser} {
		if err := cs.store.Remove(ctx, c); err != nil {
			return err
		}
	}

	srv.log(ctx).Info("User logged out", slog.String("user_id", user.ID.String()))

	return nil
}

// SyncUserData writes cart, wishlist, settings and orders back to the account.
func (srv *sessionService) SyncUserData(ctx context.Context, clientID string) error {
	user, err := srv.client(clientID).requireUser(ctx)
	if err != nil {
		return err
	}

	return srv.accounts.WriteBack(ctx, user, true)
}

// CurrentUser returns the session user.
func (srv *sessionService) CurrentUser(ctx context.Context, clientID string) (*entity.UserAccount, error) {
	return srv.client(clientID).requireUser(ctx)
}

// UpdateSettings replaces the settings collection and, when logged in, the
// session user's settings.
func (srv *sessionService) UpdateSettings(ctx context.Context, clientID string, settings entity.Settings) (*entity.Settings, error) {
	cs := srv.client(clientID)

	if err := state.Set(ctx, cs.store, state.Settings, &settings); err != nil {
		return nil, err
	}

	user, err := cs.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.Settings = &settings
		if err := cs.saveUser(ctx, user, false); err != nil {
			return nil, err
		}
	}

	return &settings, nil
}
