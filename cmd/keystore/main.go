package main

import (
	"context"
	"log/slog"
	"os"

	"keystore/config"
	"keystore/internal/delivery"
	"keystore/internal/delivery/api"
	apimiddleware "keystore/internal/delivery/api/middleware"
	"keystore/internal/delivery/api/router/handler"
	"keystore/internal/domain/repository"
	"keystore/internal/infra/auth"
	"keystore/internal/infra/feed"
	logs "keystore/internal/infra/log"
	"keystore/internal/infra/persistence/memory"
	"keystore/internal/infra/persistence/postgres"
	"keystore/internal/infra/pubsub"
	"keystore/internal/infra/qrcode"
	"keystore/internal/state"
	"keystore/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		pubsub.Module,
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newStateRepository,
			feed.New,
			state.NewNotifier,
			state.NewProvider,
		),
	)
}

// newStateRepository picks the client state backend from storage.driver
func newStateRepository(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (repository.StateRepository, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Info("Using in-memory client state storage")

		return memory.NewStateRepository(), nil
	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{Lifecycle: lc, Config: cfg, Logger: logger})
		if err != nil {
			return nil, err
		}

		return postgres.NewStateRepository(db), nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewClientTokenService,
			qrcode.NewQRCodeService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccounts,
			impl.NewClientService,
			impl.NewSessionService,
			impl.NewCatalogService,
			impl.NewCartService,
			impl.NewWishlistService,
			impl.NewCheckoutService,
			impl.NewActivityService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			apimiddleware.NewClientMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewClientHandler,
			handler.NewCatalogHandler,
			handler.NewAuthHandler,
			handler.NewCartHandler,
			handler.NewCheckoutHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
