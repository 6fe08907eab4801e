// Package storetest is a behavioural test suite shared by every
// [store.Store] implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDAnandaB35/study-planner/internal/models"
	"github.com/MDAnandaB35/study-planner/internal/store"
)

// Factory returns a fresh, migrated store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("Plans", func(t *testing.T) { testPlans(t, newStore(t)) })
	t.Run("PublicSearch", func(t *testing.T) { testPublicSearch(t, newStore(t)) })
	t.Run("TreeOrdering", func(t *testing.T) { testTreeOrdering(t, newStore(t)) })
	t.Run("LastOrder", func(t *testing.T) { testLastOrder(t, newStore(t)) })
	t.Run("EmptySets", func(t *testing.T) { testEmptySets(t, newStore(t)) })
	t.Run("Updates", func(t *testing.T) { testUpdates(t, newStore(t)) })
	t.Run("DeletePlanCascades", func(t *testing.T) { testDeletePlanCascades(t, newStore(t)) })
	t.Run("DeleteMilestoneCascades", func(t *testing.T) { testDeleteMilestoneCascades(t, newStore(t)) })
	t.Run("Accounts", func(t *testing.T) { testAccounts(t, newStore(t)) })
	t.Run("Bookmarks", func(t *testing.T) { testBookmarks(t, newStore(t)) })
	t.Run("Progress", func(t *testing.T) { testProgress(t, newStore(t)) })
	t.Run("Generation", func(t *testing.T) { testGeneration(t, newStore(t)) })
}

func str(s string) *string { return &s }

func newPlan(t *testing.T, s store.Store, owner models.UserID, title string) *models.Plan {
	t.Helper()
	plan := &models.Plan{OwnerID: owner, Title: title, Focus: "focus", Outcome: "outcome"}
	require.NoError(t, s.CreatePlan(context.Background(), plan))
	require.False(t, plan.ID.IsZero())
	return plan
}

// seedTree creates a plan with two milestones, two steps under the first and
// one resource under each step.
func seedTree(t *testing.T, s store.Store, owner models.UserID) (*models.Plan, []*models.Milestone, []*models.Step, []*models.Resource) {
	t.Helper()
	ctx := context.Background()
	plan := newPlan(t, s, owner, "Tree")

	milestones := []*models.Milestone{
		{ID: models.NewMilestoneID(), PlanID: plan.ID, Title: "M0", OrderIndex: 0},
		{ID: models.NewMilestoneID(), PlanID: plan.ID, Title: "M1", OrderIndex: 1},
	}
	require.NoError(t, s.CreateMilestones(ctx, milestones))

	steps := []*models.Step{
		{ID: models.NewStepID(), MilestoneID: milestones[0].ID, Title: "S0", OrderIndex: 0},
		{ID: models.NewStepID(), MilestoneID: milestones[0].ID, Title: "S1", OrderIndex: 1},
	}
	require.NoError(t, s.CreateSteps(ctx, steps))

	resources := []*models.Resource{
		{ID: models.NewResourceID(), StepID: steps[0].ID, Type: models.ResourceLink, Title: str("R0"), OrderIndex: 0},
		{ID: models.NewResourceID(), StepID: steps[1].ID, Type: models.ResourceBook, OrderIndex: 0},
	}
	require.NoError(t, s.CreateResources(ctx, resources))
	return plan, milestones, steps, resources
}

func testPlans(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := models.NewUserID()
	other := models.NewUserID()

	latest, err := s.LatestPlan(ctx, owner)
	require.NoError(t, err)
	assert.Nil(t, latest, "owner without plans has no latest plan")

	weeks := 4
	older := &models.Plan{OwnerID: owner, Title: "Older", EstimatedDurationWeeks: &weeks, CreatedAt: time.Now().Add(-time.Hour).UTC()}
	require.NoError(t, s.CreatePlan(ctx, older))
	newer := newPlan(t, s, owner, "Newer")
	newPlan(t, s, other, "Someone else")

	got, err := s.GetPlan(ctx, older.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Older", got.Title)
	assert.Equal(t, owner, got.OwnerID)
	require.NotNil(t, got.EstimatedDurationWeeks)
	assert.Equal(t, 4, *got.EstimatedDurationWeeks)

	missing, err := s.GetPlan(ctx, models.NewPlanID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	latest, err = s.LatestPlan(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.ID, latest.ID)

	plans, err := s.ListPlans(ctx, owner)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, newer.ID, plans[0].ID)
	assert.Equal(t, older.ID, plans[1].ID)
}

func testPublicSearch(t *testing.T, s store.Store) {
	ctx := context.Background()
	newPlan(t, s, models.NewUserID(), "Go Mastery")
	newPlan(t, s, models.NewUserID(), "Rust basics")

	all, err := s.ListPublicPlans(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := s.ListPublicPlans(ctx, "  mastery ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Go Mastery", found[0].Title)
}

func testTreeOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()
	plan := newPlan(t, s, models.NewUserID(), "Ordered")

	// Inserted out of order on purpose.
	milestones := []*models.Milestone{
		{PlanID: plan.ID, Title: "third", OrderIndex: 2},
		{PlanID: plan.ID, Title: "first", OrderIndex: 0},
		{PlanID: plan.ID, Title: "second", OrderIndex: 1},
	}
	require.NoError(t, s.CreateMilestones(ctx, milestones))
	for _, m := range milestones {
		assert.False(t, m.ID.IsZero(), "batch insert assigns ids")
	}

	listed, err := s.ListMilestones(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{listed[0].Title, listed[1].Title, listed[2].Title})

	steps := []*models.Step{
		{MilestoneID: listed[1].ID, Title: "b1", OrderIndex: 1},
		{MilestoneID: listed[0].ID, Title: "a0", OrderIndex: 0},
		{MilestoneID: listed[1].ID, Title: "b0", OrderIndex: 0},
	}
	require.NoError(t, s.CreateSteps(ctx, steps))

	gotSteps, err := s.ListSteps(ctx, []models.MilestoneID{listed[0].ID, listed[1].ID})
	require.NoError(t, err)
	require.Len(t, gotSteps, 3)
	for i := 1; i < len(gotSteps); i++ {
		assert.LessOrEqual(t, gotSteps[i-1].OrderIndex, gotSteps[i].OrderIndex)
	}
}

func testLastOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	plan, milestones, steps, _ := seedTree(t, s, models.NewUserID())

	last, err := s.LastMilestoneOrder(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, last)

	last, err = s.LastStepOrder(ctx, milestones[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, last)

	last, err = s.LastStepOrder(ctx, milestones[1].ID)
	require.NoError(t, err)
	assert.Equal(t, -1, last, "no steps yet")

	last, err = s.LastResourceOrder(ctx, steps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, last)

	counts, err := s.CountMilestones(ctx, []models.PlanID{plan.ID, models.NewPlanID()})
	require.NoError(t, err)
	assert.Equal(t, 2, counts[plan.ID])
	assert.Len(t, counts, 1)
}

func testEmptySets(t *testing.T, s store.Store) {
	ctx := context.Background()

	steps, err := s.ListSteps(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, steps)

	resources, err := s.ListResources(ctx, []models.StepID{})
	require.NoError(t, err)
	assert.Empty(t, resources)

	progress, err := s.ListMilestoneProgress(ctx, models.NewUserID(), nil)
	require.NoError(t, err)
	assert.Empty(t, progress)

	counts, err := s.CountMilestones(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, counts)

	require.NoError(t, s.CreateMilestones(ctx, nil))
	require.NoError(t, s.CreateSteps(ctx, nil))
	require.NoError(t, s.CreateResources(ctx, nil))
}

func testUpdates(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := models.NewUserID()
	plan, milestones, steps, resources := seedTree(t, s, owner)

	plan.Title = "Renamed"
	plan.EstimatedDurationWeeks = nil
	matched, err := s.UpdatePlan(ctx, plan)
	require.NoError(t, err)
	assert.True(t, matched)

	intruder := *plan
	intruder.OwnerID = models.NewUserID()
	intruder.Title = "Hijacked"
	matched, err = s.UpdatePlan(ctx, &intruder)
	require.NoError(t, err)
	assert.False(t, matched, "owner filter rejects other users")

	got, err := s.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	milestones[0].Title = "M0 edited"
	milestones[0].EstimatedDuration = str("2 weeks")
	require.NoError(t, s.UpdateMilestone(ctx, milestones[0]))
	m, err := s.GetMilestone(ctx, milestones[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "M0 edited", m.Title)
	require.NotNil(t, m.EstimatedDuration)
	assert.Equal(t, "2 weeks", *m.EstimatedDuration)
	assert.Equal(t, 0, m.OrderIndex)

	steps[1].Description = str("read chapter 2")
	require.NoError(t, s.UpdateStep(ctx, steps[1]))
	st, err := s.GetStep(ctx, steps[1].ID)
	require.NoError(t, err)
	require.NotNil(t, st.Description)
	assert.Equal(t, "read chapter 2", *st.Description)

	resources[1].Type = models.ResourceVideo
	resources[1].URL = str("https://example.com/v")
	require.NoError(t, s.UpdateResource(ctx, resources[1]))
	r, err := s.GetResource(ctx, resources[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResourceVideo, r.Type)
	require.NotNil(t, r.URL)
	assert.Equal(t, "https://example.com/v", *r.URL)
	assert.Nil(t, r.Title)
}

func testDeletePlanCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := models.NewUserID()
	plan, milestones, steps, resources := seedTree(t, s, owner)
	require.NoError(t, s.AddBookmark(ctx, &models.Bookmark{UserID: models.NewUserID(), PlanID: plan.ID}))

	require.NoError(t, s.DeletePlan(ctx, plan.ID))

	gone, err := s.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	m, err := s.GetMilestone(ctx, milestones[0].ID)
	require.NoError(t, err)
	assert.Nil(t, m)

	st, err := s.GetStep(ctx, steps[0].ID)
	require.NoError(t, err)
	assert.Nil(t, st)

	r, err := s.GetResource(ctx, resources[1].ID)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func testDeleteMilestoneCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	plan, milestones, steps, resources := seedTree(t, s, models.NewUserID())

	require.NoError(t, s.DeleteMilestone(ctx, milestones[0].ID))

	remaining, err := s.ListMilestones(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "M1", remaining[0].Title)
	assert.Equal(t, 1, remaining[0].OrderIndex, "siblings are not renumbered")

	orphans, err := s.ListSteps(ctx, []models.MilestoneID{milestones[0].ID})
	require.NoError(t, err)
	assert.Empty(t, orphans)

	orphanResources, err := s.ListResources(ctx, []models.StepID{steps[0].ID, steps[1].ID})
	require.NoError(t, err)
	assert.Empty(t, orphanResources)

	r, err := s.GetResource(ctx, resources[0].ID)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func testAccounts(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := &models.User{Email: "learner@example.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, user))
	require.False(t, user.ID.IsZero())

	byID, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "learner@example.com", byID.Email)

	byEmail, err := s.GetUserByEmail(ctx, "Learner@Example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	nobody, err := s.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, nobody)

	session := &models.Session{Token: "tok", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour).UTC()}
	require.NoError(t, s.CreateSession(ctx, session))

	got, err := s.GetSession(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)

	require.NoError(t, s.DeleteSession(ctx, "tok"))
	got, err = s.GetSession(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testBookmarks(t *testing.T, s store.Store) {
	ctx := context.Background()
	reader := models.NewUserID()
	plan := newPlan(t, s, models.NewUserID(), "Bookmarked")

	require.NoError(t, s.AddBookmark(ctx, &models.Bookmark{UserID: reader, PlanID: plan.ID}))
	require.NoError(t, s.AddBookmark(ctx, &models.Bookmark{UserID: reader, PlanID: plan.ID}), "adding twice is a no-op")

	plans, err := s.ListBookmarkedPlans(ctx, reader)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, plan.ID, plans[0].ID)

	require.NoError(t, s.RemoveBookmark(ctx, reader, plan.ID))
	plans, err = s.ListBookmarkedPlans(ctx, reader)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func testProgress(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := models.NewUserID()
	plan, milestones, _, _ := seedTree(t, s, models.NewUserID())

	done := &models.MilestoneProgress{UserID: user, PlanID: plan.ID, MilestoneID: milestones[0].ID, CompletedAt: time.Now().UTC()}
	require.NoError(t, s.SetMilestoneProgress(ctx, done))
	again := &models.MilestoneProgress{UserID: user, PlanID: plan.ID, MilestoneID: milestones[0].ID, CompletedAt: time.Now().UTC()}
	require.NoError(t, s.SetMilestoneProgress(ctx, again))

	progress, err := s.ListMilestoneProgress(ctx, user, []models.PlanID{plan.ID})
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, milestones[0].ID, progress[0].MilestoneID)

	require.NoError(t, s.ClearMilestoneProgress(ctx, user, milestones[0].ID))
	progress, err = s.ListMilestoneProgress(ctx, user, []models.PlanID{plan.ID})
	require.NoError(t, err)
	assert.Empty(t, progress)

	require.NoError(t, s.SetMilestoneProgress(ctx, &models.MilestoneProgress{UserID: user, PlanID: plan.ID, MilestoneID: milestones[1].ID}))
	require.NoError(t, s.DeleteMilestone(ctx, milestones[1].ID))
	progress, err = s.ListMilestoneProgress(ctx, user, []models.PlanID{plan.ID})
	require.NoError(t, err)
	assert.Empty(t, progress, "progress goes with its milestone")
}

func testGeneration(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := models.NewUserID()
	plan := newPlan(t, s, owner, "Generated")

	gen := &models.Generation{
		OwnerID: owner,
		PlanID:  plan.ID,
		Model:   "gpt-4o-mini",
		Usage:   []byte(`{"total_tokens":42}`),
		Roadmap: []byte(`{"planTitle":"Generated"}`),
	}
	require.NoError(t, s.CreateGeneration(ctx, gen))
	assert.False(t, gen.ID.IsZero())
	require.NoError(t, s.DeletePlan(ctx, plan.ID))
}
