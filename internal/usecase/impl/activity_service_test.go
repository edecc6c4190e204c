package impl

import (
	"context"
	"testing"

	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/domain/service"
	"keystore/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestActivityService(t *testing.T) (*testServices, *activityService) {
	t.Helper()

	ts := createTestServices(t)
	srv, ok := NewActivityService(ActivityServiceParams{Provider: ts.provider, Logger: newDiscardLogger()}).(*activityService)
	require.True(t, ok)

	return ts, srv
}

func TestActivityService_RecordChange(t *testing.T) {
	ctx := context.Background()
	_, srv := createTestActivityService(t)

	_, err := srv.RecordChange(ctx, &service.StateChangeEvent{EventID: "e1", Namespace: "c1", Collection: "cart", OccurredAt: "2026-01-02T03:04:05Z"})
	require.NoError(t, err)
	_, err = srv.RecordChange(ctx, &service.StateChangeEvent{EventID: "e2", Namespace: "c1", Collection: "cart", OccurredAt: "2026-01-02T03:05:00Z"})
	require.NoError(t, err)
	activity, err := srv.RecordChange(ctx, &service.StateChangeEvent{EventID: "e3", Namespace: "c1", Collection: "wishlist", OccurredAt: "2026-01-02T03:06:00Z"})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"cart": 2, "wishlist": 1}, activity.Changes)
	assert.Equal(t, "wishlist", activity.LastCollection)
	assert.Equal(t, "e3", activity.LastEventID)

	stored, err := srv.Activity(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, activity.Changes, stored.Changes)
}

func TestActivityService_RecordChange_RedeliveryCountedOnce(t *testing.T) {
	ctx := context.Background()
	_, srv := createTestActivityService(t)

	event := &service.StateChangeEvent{EventID: "e1", Namespace: "c1", Collection: "cart"}
	_, err := srv.RecordChange(ctx, event)
	require.NoError(t, err)
	activity, err := srv.RecordChange(ctx, event)
	require.NoError(t, err)

	assert.Equal(t, 1, activity.Changes["cart"])
}

func TestActivityService_RecordChange_IgnoresOwnWrites(t *testing.T) {
	ctx := context.Background()
	ts, srv := createTestActivityService(t)

	activity, err := srv.RecordChange(ctx, &service.StateChangeEvent{EventID: "e1", Namespace: "c1", Collection: string(state.Activity)})
	require.NoError(t, err)
	assert.Empty(t, activity.Changes)

	_, err = ts.repo.Load(ctx, "c1", string(state.Activity))
	assert.Error(t, err)
}

func TestActivityService_RecordChange_RejectsIncompleteEvents(t *testing.T) {
	_, srv := createTestActivityService(t)

	_, err := srv.RecordChange(context.Background(), &service.StateChangeEvent{EventID: "e1", Collection: "cart"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}
