package main

import (
	"context"
	"log/slog"
	"os"

	"keystore/config"
	"keystore/internal/delivery"
	"keystore/internal/delivery/worker"
	"keystore/internal/delivery/worker/handler"
	"keystore/internal/domain/repository"
	logs "keystore/internal/infra/log"
	"keystore/internal/infra/persistence/memory"
	"keystore/internal/infra/persistence/postgres"
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

// The worker only consumes events. It does not load the pubsub module, so its
// own activity writes are never published back to the topic.
func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
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
			state.NewNotifier,
			state.NewProvider,
		),
	)
}

// newStateRepository picks the client state backend from storage.driver
func newStateRepository(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (repository.StateRepository, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Warn("State worker is using in-memory storage; activity is not shared with the storefront")

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

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewActivityService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
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
