package impl

import (
	"context"
	"log/slog"

	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/entity"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/domain/repository"
	"keystore/internal/state"
	"keystore/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	provider    *state.Provider
	accounts    *Accounts
	catalogRepo repository.CatalogRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	Provider    *state.Provider
	Accounts    *Accounts
	CatalogRepo repository.CatalogRepository
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		provider:    params.Provider,
		accounts:    params.Accounts,
		catalogRepo: params.CatalogRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *cartService) client(clientID string) *clientState {
	return newClientState(srv.provider, srv.accounts, clientID)
}

func (srv *cartService) product(ctx context.Context, productID string) (*entity.Product, error) {
	return findProduct(ctx, srv.catalogRepo, productID)
}

// findProduct maps a missing catalog entry to ErrProductNotFound.
func findProduct(ctx context.Context, catalogRepo repository.CatalogRepository, productID string) (*entity.Product, error) {
	product, err := catalogRepo.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.WithStack(domainerrors.ErrProductNotFound)
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// Get returns the client cart.
func (srv *cartService) Get(ctx context.Context, clientID string) (entity.Cart, error) {
	return srv.client(clientID).cart(ctx)
}

// AddItem merges quantity units of the product into the cart.
func (srv *cartService) AddItem(ctx context.Context, clientID, productID string, quantity int) (entity.Cart, error) {
	product, err := srv.product(ctx, productID)
	if err != nil {
		return nil, err
	}

	return srv.mutate(ctx, clientID, func(cart entity.Cart) entity.Cart {
		return cart.Merge(entity.NewCartLine(product, quantity), quantity)
	})
}

// ChangeQuantity applies a signed delta to the product's line.
func (srv *cartService) ChangeQuantity(ctx context.Context, clientID, productID string, delta int) (entity.Cart, error) {
	cs := srv.client(clientID)

	cart, err := cs.cart(ctx)
	if err != nil {
		return nil, err
	}

	line, ok := cart.Find(productID)
	if !ok {
		product, err := srv.product(ctx, productID)
		if err != nil {
			return nil, err
		}
		line = entity.NewCartLine(product, delta)
	}

	cart = cart.Merge(line, delta)
	if err := cs.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// RemoveItem drops the product's line. Removing an absent product is a no-op.
func (srv *cartService) RemoveItem(ctx context.Context, clientID, productID string) (entity.Cart, error) {
	return srv.mutate(ctx, clientID, func(cart entity.Cart) entity.Cart {
		return cart.Remove(productID)
	})
}

// Clear empties the cart.
func (srv *cartService) Clear(ctx context.Context, clientID string) error {
	_, err := srv.mutate(ctx, clientID, func(entity.Cart) entity.Cart {
		return entity.Cart{}
	})

	return err
}

// Summary reports counts and the subtotal.
func (srv *cartService) Summary(ctx context.Context, clientID string) (*usecase.CartSummary, error) {
	cart, err := srv.client(clientID).cart(ctx)
	if err != nil {
		return nil, err
	}

	return &usecase.CartSummary{
		Lines:    len(cart),
		Items:    cart.ItemCount(),
		Subtotal: entity.RoundCents(cart.Subtotal()),
	}, nil
}

func (srv *cartService) mutate(ctx context.Context, clientID string, fn func(entity.Cart) entity.Cart) (entity.Cart, error) {
	cs := srv.client(clientID)

	cart, err := cs.cart(ctx)
	if err != nil {
		return nil, err
	}

	cart = fn(cart)
	if err := cs.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Cart updated", slog.Int("lines", len(cart)))

	return cart, nil
}
