package impl

import (
	"context"
	"log/slog"

	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/entity"
	"keystore/internal/domain/repository"
	"keystore/internal/state"
	"keystore/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// wishlistService implements the WishlistUsecase interface.
type wishlistService struct {
	provider    *state.Provider
	accounts    *Accounts
	catalogRepo repository.CatalogRepository
	logger      *slog.Logger
}

// WishlistServiceParams holds dependencies for WishlistService, injected by Fx.
type WishlistServiceParams struct {
	fx.In

	Provider    *state.Provider
	Accounts    *Accounts
	CatalogRepo repository.CatalogRepository
	Logger      *slog.Logger
}

// NewWishlistService is the constructor for wishlistService.
func NewWishlistService(params WishlistServiceParams) usecase.WishlistUsecase {
	return &wishlistService{
		provider:    params.Provider,
		accounts:    params.Accounts,
		catalogRepo: params.CatalogRepo,
		logger:      params.Logger,
	}
}

// Get resolves the wishlist to catalog products.
func (srv *wishlistService) Get(ctx context.Context, clientID string) ([]*entity.Product, error) {
	cs := newClientState(srv.provider, srv.accounts, clientID)
	if _, err := cs.requireUser(ctx); err != nil {
		return nil, err
	}

	wishlist, err := cs.wishlist(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]*entity.Product, 0, len(wishlist))
	for _, id := range wishlist {
		product, err := srv.catalogRepo.FindProduct(ctx, id)
		if errors.Is(err, repository.ErrProductNotFound) {
			deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Skipping unknown wishlist product",
				slog.String("product_id", id),
			)

			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to find product")
		}
		products = append(products, product)
	}

	return products, nil
}

// Toggle adds or removes the product and syncs the account.
func (srv *wishlistService) Toggle(ctx context.Context, clientID, productID string) (*usecase.WishlistToggleOutput, error) {
	cs := newClientState(srv.provider, srv.accounts, clientID)

	user, err := cs.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	wishlist, err := cs.wishlist(ctx)
	if err != nil {
		return nil, err
	}

	// Removing a product that left the catalog must stay possible.
	if !wishlist.Contains(productID) {
		if _, err := findProduct(ctx, srv.catalogRepo, productID); err != nil {
			return nil, err
		}
	}

	wishlist = wishlist.Toggle(productID)
	if err := state.Set(ctx, cs.store, state.Wishlist, wishlist); err != nil {
		return nil, err
	}

	user.Wishlist = wishlist
	if err := cs.saveUser(ctx, user, false); err != nil {
		return nil, err
	}

	return &usecase.WishlistToggleOutput{
		ProductID:  productID,
		InWishlist: wishlist.Contains(productID),
		Wishlist:   wishlist,
	}, nil
}
