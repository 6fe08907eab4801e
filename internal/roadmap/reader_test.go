package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func TestLearnGoEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := newUser(t, env.store, "learner@example.com")

	generated, err := env.service.Generate(ctx, owner, "Learn Go", "Build a CLI tool")
	require.NoError(t, err)
	assert.Equal(t, "Go Mastery", generated.Title)
	assert.Equal(t, "gpt-4o-mini", generated.Model)

	tree, err := env.service.Reader().ReadOwnedPlan(ctx, generated.PlanID, owner)
	require.NoError(t, err)

	assert.Equal(t, "Go Mastery", tree.Title)
	assert.Equal(t, "Learn Go", tree.Focus)
	assert.Equal(t, "Build a CLI tool", tree.Outcome)
	require.NotNil(t, tree.EstimatedDurationWeeks)
	assert.Equal(t, 4, *tree.EstimatedDurationWeeks)

	require.Len(t, tree.Milestones, 1)
	milestone := tree.Milestones[0]
	assert.Equal(t, "Basics", milestone.Title)
	assert.Equal(t, 0, milestone.OrderIndex)
	assert.Nil(t, milestone.Description)

	require.Len(t, milestone.Steps, 1)
	step := milestone.Steps[0]
	assert.Equal(t, "Syntax", step.Title)
	assert.Equal(t, 0, step.OrderIndex)

	require.Len(t, step.Resources, 1)
	resource := step.Resources[0]
	assert.Equal(t, models.ResourceLink, resource.Type)
	assert.Equal(t, "Tour of Go", *resource.Title)
	assert.Equal(t, "https://go.dev/tour", *resource.URL)
	assert.Equal(t, 0, resource.OrderIndex)

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	var shape map[string]any
	require.NoError(t, json.Unmarshal(data, &shape))
	assert.Equal(t, "Go Mastery", shape["title"])
	assert.NotContains(t, shape, "author_email")
	milestones := shape["milestones"].([]any)
	steps := milestones[0].(map[string]any)["steps"].([]any)
	resources := steps[0].(map[string]any)["resources"].([]any)
	assert.Equal(t, "https://go.dev/tour", resources[0].(map[string]any)["url"])
}

func TestOrderRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.NewUserID()

	text := `{"planTitle":"Ordered","milestones":[
		{"title":"m0","steps":[{"title":"s00"},{"title":"s01","resources":[{"title":"r0"},{"title":"r1"},{"title":"r2"}]},{"title":"s02"}]},
		{"title":"m1","steps":[{"title":"s10"}]},
		{"title":"m2"},
		{"title":"m3","steps":[{"title":"s30"},{"title":"s31"}]}
	]}`
	planID := env.persistDoc(t, owner, text)

	tree, err := env.service.Reader().ReadPlan(ctx, planID)
	require.NoError(t, err)

	var titles []string
	for _, m := range tree.Milestones {
		titles = append(titles, m.Title)
		for _, s := range m.Steps {
			titles = append(titles, s.Title)
			for _, r := range s.Resources {
				titles = append(titles, *r.Title)
			}
		}
	}
	assert.Equal(t, []string{"m0", "s00", "s01", "r0", "r1", "r2", "s02", "m1", "s10", "m2", "m3", "s30", "s31"}, titles)
	assert.Empty(t, tree.Milestones[2].Steps)
	assert.NotNil(t, tree.Milestones[2].Steps, "empty levels serialize as []")
}

func TestZeroMilestonePlan(t *testing.T) {
	env := newTestEnv(t)
	planID := env.persistDoc(t, models.NewUserID(), `{"planTitle":"Nothing yet","milestones":[]}`)

	tree, err := env.service.Reader().ReadPlan(context.Background(), planID)
	require.NoError(t, err)
	assert.Equal(t, "Nothing yet", tree.Title)
	assert.Empty(t, tree.Milestones)

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"milestones":[]`)
}

func TestReadOwnedPlanHidesOtherOwners(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.NewUserID()
	planID := env.persistDoc(t, owner, learnGoResponse)

	_, err := env.service.Reader().ReadOwnedPlan(ctx, planID, models.NewUserID())
	assert.Same(t, ErrNotFound, err)

	_, err = env.service.Reader().ReadOwnedPlan(ctx, models.NewPlanID(), owner)
	assert.Same(t, ErrNotFound, err)

	_, err = env.service.Reader().ReadPlan(ctx, models.NewPlanID())
	assert.Same(t, ErrNotFound, err)
}

func TestReadLatest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.NewUserID()

	tree, err := env.service.Reader().ReadLatest(ctx, owner)
	require.NoError(t, err)
	assert.Nil(t, tree)

	env.persistDoc(t, owner, `{"planTitle":"First"}`)
	env.persistDoc(t, owner, `{"planTitle":"Second"}`)
	env.persistDoc(t, models.NewUserID(), `{"planTitle":"Not mine"}`)

	tree, err = env.service.Reader().ReadLatest(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "Second", tree.Title)
}

func TestReadPublicPlanAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := newUser(t, env.store, "author@example.com")
	planID := env.persistDoc(t, author, learnGoResponse)
	tree, err := env.service.Reader().ReadPublicPlan(ctx, planID)
	require.NoError(t, err)
	assert.Equal(t, "author@example.com", tree.AuthorEmail)

	orphanPlan := env.persistDoc(t, models.NewUserID(), learnGoResponse)
	tree, err = env.service.Reader().ReadPublicPlan(ctx, orphanPlan)
	require.NoError(t, err)
	assert.Equal(t, UnknownAuthor, tree.AuthorEmail)

	failing := NewReader(env.store, failingUsers{})
	tree, err = failing.ReadPublicPlan(ctx, planID)
	require.NoError(t, err)
	assert.Equal(t, UnknownAuthor, tree.AuthorEmail)
}

type failingUsers struct{}

func (failingUsers) GetUser(context.Context, models.UserID) (*models.User, error) {
	return nil, errors.New("identity store unavailable")
}

// countingTreeStore wraps a TreeStore and counts child list queries.
type countingTreeStore struct {
	TreeStore
	stepQueries     int
	resourceQueries int
}

func (c *countingTreeStore) ListSteps(ctx context.Context, ids []models.MilestoneID) ([]*models.Step, error) {
	c.stepQueries++
	return c.TreeStore.ListSteps(ctx, ids)
}

func (c *countingTreeStore) ListResources(ctx context.Context, ids []models.StepID) ([]*models.Resource, error) {
	c.resourceQueries++
	return c.TreeStore.ListResources(ctx, ids)
}

func TestReaderSkipsEmptyChildQueries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	counting := &countingTreeStore{TreeStore: env.store}
	reader := NewReader(counting, nil)

	empty := env.persistDoc(t, models.NewUserID(), `{"milestones":[]}`)
	_, err := reader.ReadPlan(ctx, empty)
	require.NoError(t, err)
	assert.Equal(t, 0, counting.stepQueries)
	assert.Equal(t, 0, counting.resourceQueries)

	stepless := env.persistDoc(t, models.NewUserID(), `{"milestones":[{"title":"only"}]}`)
	_, err = reader.ReadPlan(ctx, stepless)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.stepQueries)
	assert.Equal(t, 0, counting.resourceQueries)
}

// shuffledTreeStore returns children in reverse order to prove the reader
// sorts by order index itself.
type shuffledTreeStore struct {
	TreeStore
}

func (s shuffledTreeStore) ListMilestones(ctx context.Context, id models.PlanID) ([]*models.Milestone, error) {
	out, err := s.TreeStore.ListMilestones(ctx, id)
	reverse(out)
	return out, err
}

func (s shuffledTreeStore) ListSteps(ctx context.Context, ids []models.MilestoneID) ([]*models.Step, error) {
	out, err := s.TreeStore.ListSteps(ctx, ids)
	reverse(out)
	return out, err
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func TestReaderSortsByOrderIndex(t *testing.T) {
	env := newTestEnv(t)
	planID := env.persistDoc(t, models.NewUserID(), `{"milestones":[{"title":"a","steps":[{"title":"a1"},{"title":"a2"}]},{"title":"b"}]}`)

	tree, err := NewReader(shuffledTreeStore{env.store}, nil).ReadPlan(context.Background(), planID)
	require.NoError(t, err)
	require.Len(t, tree.Milestones, 2)
	assert.Equal(t, "a", tree.Milestones[0].Title)
	assert.Equal(t, "a1", tree.Milestones[0].Steps[0].Title)
	assert.Equal(t, "a2", tree.Milestones[0].Steps[1].Title)
}
