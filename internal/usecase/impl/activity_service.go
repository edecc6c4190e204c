package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/entity"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/domain/service"
	"keystore/internal/state"
	"keystore/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// activityService implements the ActivityUsecase interface.
type activityService struct {
	provider *state.Provider
	logger   *slog.Logger
}

// ActivityServiceParams holds dependencies for ActivityService, injected by Fx.
type ActivityServiceParams struct {
	fx.In

	Provider *state.Provider
	Logger   *slog.Logger
}

// NewActivityService is the constructor for activityService.
func NewActivityService(params ActivityServiceParams) usecase.ActivityUsecase {
	return &activityService{
		provider: params.Provider,
		logger:   params.Logger,
	}
}

func (srv *activityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *activityService) RecordChange(ctx context.Context, event *service.StateChangeEvent) (*entity.ClientActivity, error) {
	if event.Namespace == "" || event.Collection == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "event namespace and collection are required")
	}
	// Writes to the activity collection itself are not counted.
	if event.Collection == string(state.Activity) {
		return srv.Activity(ctx, event.Namespace)
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, event.OccurredAt)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	store := srv.provider.For(event.Namespace)
	activity, err := srv.Activity(ctx, event.Namespace)
	if err != nil {
		return nil, err
	}

	if !activity.Record(event.EventID, event.Collection, occurredAt) {
		srv.log(ctx).Debug("Skipping redelivered state change",
			slog.String("event_id", event.EventID),
		)

		return activity, nil
	}

	if err := state.Set(ctx, store, state.Activity, activity); err != nil {
		return nil, err
	}

	return activity, nil
}

func (srv *activityService) Activity(ctx context.Context, namespace string) (*entity.ClientActivity, error) {
	activity, err := state.Get(ctx, srv.provider.For(namespace), state.Activity, &entity.ClientActivity{})
	if err != nil {
		return nil, err
	}
	if activity == nil {
		activity = &entity.ClientActivity{}
	}
	activity.Namespace = namespace

	return activity, nil
}
