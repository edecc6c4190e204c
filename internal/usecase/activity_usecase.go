package usecase

import (
	"context"

	"keystore/internal/domain/entity"
	"keystore/internal/domain/service"
)

// ActivityUsecase folds published state changes into a per-client activity summary.
type ActivityUsecase interface {
	// RecordChange applies one event. Redelivered events are counted once.
	RecordChange(ctx context.Context, event *service.StateChangeEvent) (*entity.ClientActivity, error)

	// Activity returns the summary of a namespace; an unseen namespace yields an empty summary.
	Activity(ctx context.Context, namespace string) (*entity.ClientActivity, error)
}
