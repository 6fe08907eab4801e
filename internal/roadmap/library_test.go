package roadmap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func TestProgressTracking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := newUser(t, env.store, "owner@example.com")
	reader := newUser(t, env.store, "reader@example.com")
	planID := env.persistDoc(t, owner, twoMilestones)
	tree, err := env.service.Reader().ReadPlan(ctx, planID)
	require.NoError(t, err)

	progress, err := env.service.SetMilestoneDone(ctx, reader, tree.Milestones[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, &Progress{Completed: 1, Total: 2}, progress)

	progress, err = env.service.SetMilestoneDone(ctx, reader, tree.Milestones[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Completed, "marking twice counts once")

	done, err := env.service.CompletedMilestones(ctx, reader, planID)
	require.NoError(t, err)
	assert.Equal(t, []models.MilestoneID{tree.Milestones[0].ID}, done)

	ownerProgress, err := env.service.PlanProgress(ctx, owner, planID)
	require.NoError(t, err)
	assert.Equal(t, &Progress{Completed: 0, Total: 2}, ownerProgress, "progress is per user")

	progress, err = env.service.SetMilestoneDone(ctx, reader, tree.Milestones[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Completed)

	_, err = env.service.SetMilestoneDone(ctx, reader, models.NewMilestoneID(), true)
	assert.Same(t, ErrNotFound, err)
}

func TestListPlansWithProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := newUser(t, env.store, "owner@example.com")
	first := env.persistDoc(t, owner, twoMilestones)
	second := env.persistDoc(t, owner, `{"planTitle":"Empty"}`)

	tree, err := env.service.Reader().ReadPlan(ctx, first)
	require.NoError(t, err)
	_, err = env.service.SetMilestoneDone(ctx, owner, tree.Milestones[1].ID, true)
	require.NoError(t, err)

	plans, err := env.service.ListPlans(ctx, owner)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, second, plans[0].ID)
	assert.Equal(t, &Progress{Completed: 0, Total: 0}, plans[0].Progress)
	assert.Equal(t, first, plans[1].ID)
	assert.Equal(t, &Progress{Completed: 1, Total: 2}, plans[1].Progress)
	assert.Empty(t, plans[1].AuthorEmail)
}

func TestPublicListingAndBookmarks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := newUser(t, env.store, "author@example.com")
	reader := newUser(t, env.store, "reader@example.com")
	goPlan := env.persistDoc(t, author, learnGoResponse)
	env.persistDoc(t, author, `{"planTitle":"Rust","focus":"systems"}`)

	all, err := env.service.ListPublicPlans(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, p := range all {
		assert.Equal(t, "author@example.com", p.AuthorEmail)
		assert.Nil(t, p.Progress)
	}

	found, err := env.service.ListPublicPlans(ctx, "cli TOOL")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, goPlan, found[0].ID)

	require.NoError(t, env.service.AddBookmark(ctx, reader, goPlan))
	require.NoError(t, env.service.AddBookmark(ctx, reader, goPlan))
	assert.Same(t, ErrNotFound, env.service.AddBookmark(ctx, reader, models.NewPlanID()))

	bookmarks, err := env.service.ListBookmarks(ctx, reader)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, goPlan, bookmarks[0].ID)
	assert.Equal(t, "author@example.com", bookmarks[0].AuthorEmail)
	assert.Equal(t, &Progress{Completed: 0, Total: 1}, bookmarks[0].Progress)

	require.NoError(t, env.service.RemoveBookmark(ctx, reader, goPlan))
	bookmarks, err = env.service.ListBookmarks(ctx, reader)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}
