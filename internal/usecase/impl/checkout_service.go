package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"keystore/config"
	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/entity"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/domain/service"
	"keystore/internal/redemption"
	"keystore/internal/state"
	"keystore/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const orderIDHexLength = 8

// checkoutService implements the CheckoutUsecase interface.
type checkoutService struct {
	provider    *state.Provider
	accounts    *Accounts
	qrService   service.QRCodeService
	shippingFee float64
	taxRate     float64
	orderPrefix string
	now         func() time.Time
	logger      *slog.Logger
}

// CheckoutServiceParams holds dependencies for CheckoutService, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	Provider  *state.Provider
	Accounts  *Accounts
	QRService service.QRCodeService
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	srv := &checkoutService{
		provider:    params.Provider,
		accounts:    params.Accounts,
		qrService:   params.QRService,
		shippingFee: 4.99,
		taxRate:     0.08,
		orderPrefix: "ORD",
		now:         time.Now,
		logger:      params.Logger,
	}

	if cfg := params.Config.Checkout; cfg != nil {
		srv.shippingFee = cfg.ShippingFee
		srv.taxRate = cfg.TaxRate
		if cfg.OrderPrefix != "" {
			srv.orderPrefix = cfg.OrderPrefix
		}
	}

	return srv
}

func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *checkoutService) client(clientID string) *clientState {
	return newClientState(srv.provider, srv.accounts, clientID)
}

// Quote prices the cart of the logged-in user.
func (srv *checkoutService) Quote(ctx context.Context, clientID string) (*entity.OrderTotals, error) {
	cs := srv.client(clientID)
	if _, err := cs.requireUser(ctx); err != nil {
		return nil, err
	}

	cart, err := cs.cart(ctx)
	if err != nil {
		return nil, err
	}

	totals := entity.ComputeTotals(cart, srv.shippingFee, srv.taxRate)

	return &totals, nil
}

// Submit turns the cart into a completed order.
func (srv *checkoutService) Submit(ctx context.Context, clientID string) (*entity.Order, error) {
	cs := srv.client(clientID)

	user, err := cs.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	cart, err := cs.cart(ctx)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, errors.WithStack(domainerrors.ErrCartEmpty)
	}

	totals := entity.ComputeTotals(cart, srv.shippingFee, srv.taxRate)
	order := entity.Order{
		ID:        srv.newOrderID(),
		CreatedAt: srv.now().UTC(),
		Status:    entity.OrderStatusCompleted,
		Lines:     entity.SnapshotLines(cart),
		Subtotal:  totals.Subtotal,
		Shipping:  totals.Shipping,
		Tax:       totals.Tax,
		Total:     totals.Total,
	}

	user.Orders = append(user.Orders, order)
	user.Cart = entity.Cart{}
	if err := cs.saveUser(ctx, user, true); err != nil {
		return nil, err
	}
	if err := state.Set(ctx, cs.store, state.Cart, entity.Cart{}); err != nil {
		return nil, err
	}
	if err := state.Set(ctx, cs.store, state.CurrentOrder, &order); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", user.ID.String()),
		slog.Float64("total", order.Total),
	)

	return &order, nil
}

// Confirmation returns the order staged by the last Submit.
func (srv *checkoutService) Confirmation(ctx context.Context, clientID string) (*entity.Order, error) {
	cs := srv.client(clientID)
	if _, err := cs.requireUser(ctx); err != nil {
		return nil, err
	}

	order, err := state.Get[*entity.Order](ctx, cs.store, state.CurrentOrder, nil)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.WithStack(domainerrors.ErrOrderNotFound)
	}

	return order, nil
}

// ListOrders returns the order history, newest first.
func (srv *checkoutService) ListOrders(ctx context.Context, clientID string) ([]entity.Order, error) {
	user, err := srv.client(clientID).requireUser(ctx)
	if err != nil {
		return nil, err
	}

	orders := slices.Clone(user.Orders)
	slices.Reverse(orders)

	return orders, nil
}

// GetOrder returns one order of the logged-in user.
func (srv *checkoutService) GetOrder(ctx context.Context, clientID, orderID string) (*entity.Order, error) {
	user, err := srv.client(clientID).requireUser(ctx)
	if err != nil {
		return nil, err
	}

	order, ok := user.FindOrder(orderID)
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrOrderNotFound)
	}

	return order, nil
}

// RedemptionCodes returns one display code per purchased line.
func (srv *checkoutService) RedemptionCodes(ctx context.Context, clientID, orderID string) ([]usecase.RedemptionCode, error) {
	order, err := srv.GetOrder(ctx, clientID, orderID)
	if err != nil {
		return nil, err
	}

	codes := make([]usecase.RedemptionCode, 0, len(order.Lines))
	for _, line := range order.Lines {
		codes = append(codes, usecase.RedemptionCode{
			ProductID: line.ProductID,
			Title:     line.Title,
			Platform:  line.Platform,
			Quantity:  line.Quantity,
			Code:      redemption.GenerateCode(line.ProductID),
		})
	}

	return codes, nil
}

// RedemptionQR renders the code of a product the user has bought.
func (srv *checkoutService) RedemptionQR(ctx context.Context, clientID, productID string) ([]byte, error) {
	user, err := srv.client(clientID).requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if !purchased(user.Orders, productID) {
		return nil, errors.WithStack(domainerrors.ErrProductNotPurchased)
	}

	png, err := srv.qrService.GenerateRedemptionQR(productID, redemption.GenerateCode(productID))
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	return png, nil
}

func (srv *checkoutService) newOrderID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")

	return srv.orderPrefix + "-" + strings.ToUpper(hex[:orderIDHexLength])
}

func purchased(orders []entity.Order, productID string) bool {
	for _, order := range orders {
		for _, line := range order.Lines {
			if line.ProductID == productID {
				return true
			}
		}
	}

	return false
}
