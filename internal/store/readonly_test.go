package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDAnandaB35/study-planner/internal/models"
	"github.com/MDAnandaB35/study-planner/internal/store"
	"github.com/MDAnandaB35/study-planner/internal/store/gormstore"
)

func TestReadOnlyStore(t *testing.T) {
	ctx := context.Background()
	base, err := gormstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer base.Close()
	require.NoError(t, base.Migrate(ctx))

	readOnly := false
	s := store.NewReadOnlyStore(base, func() bool { return readOnly })

	owner := models.NewUserID()
	plan := &models.Plan{OwnerID: owner, Title: "Writable"}
	require.NoError(t, s.CreatePlan(ctx, plan))

	readOnly = true

	err = s.CreatePlan(ctx, &models.Plan{OwnerID: owner, Title: "Blocked"})
	assert.ErrorIs(t, err, store.ErrReadOnly)

	err = s.CreateMilestones(ctx, []*models.Milestone{{PlanID: plan.ID, Title: "Blocked"}})
	assert.ErrorIs(t, err, store.ErrReadOnly)

	matched, err := s.UpdatePlan(ctx, plan)
	assert.ErrorIs(t, err, store.ErrReadOnly)
	assert.False(t, matched)

	assert.ErrorIs(t, s.DeletePlan(ctx, plan.ID), store.ErrReadOnly)
	assert.ErrorIs(t, s.AddBookmark(ctx, &models.Bookmark{UserID: owner, PlanID: plan.ID}), store.ErrReadOnly)

	got, err := s.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "reads pass through")

	session := &models.Session{Token: "t", UserID: owner, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, s.CreateSession(ctx, session), "sessions stay writable")

	readOnly = false
	require.NoError(t, s.DeletePlan(ctx, plan.ID))

	unwrapped := s.(*store.ReadOnlyStore).Unwrap()
	assert.Same(t, base, unwrapped.(*gormstore.GormStore))
}
