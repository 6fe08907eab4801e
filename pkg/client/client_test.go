package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDAnandaB35/study-planner/internal/completion"
	"github.com/MDAnandaB35/study-planner/internal/models"
	"github.com/MDAnandaB35/study-planner/internal/roadmap"
	"github.com/MDAnandaB35/study-planner/internal/store/gormstore"
	"github.com/MDAnandaB35/study-planner/internal/studyplanner"
	"github.com/MDAnandaB35/study-planner/pkg/client"
)

const cliRoadmap = `{
	"planTitle": "Go CLI Tools",
	"estimatedDurationWeeks": 6,
	"milestones": [
		{"title": "Flags", "steps": [{"title": "flag package", "resources": [{"type": "doc", "title": "pkg.go.dev/flag", "url": "https://pkg.go.dev/flag"}]}]},
		{"title": "Distribution", "steps": [{"title": "goreleaser"}]}
	]
}`

type cannedCompleter struct {
	text string
}

func (c *cannedCompleter) Complete(context.Context, completion.Request) (*completion.Response, error) {
	return &completion.Response{Model: "gpt-4o-mini", Text: c.text}, nil
}

func setupServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	st, err := gormstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))

	app := studyplanner.NewWithStore(studyplanner.DefaultConfig(), st, &cannedCompleter{text: text}, zerolog.New(io.Discard))
	server := httptest.NewServer(app.Handler())
	t.Cleanup(func() {
		server.Close()
		_ = app.Close()
	})
	return server
}

func loggedIn(t *testing.T, server *httptest.Server, email string) *client.Client {
	t.Helper()
	ctx := context.Background()
	c := client.NewClient(server.URL)
	_, err := c.SignUp(ctx, email, "correct horse")
	require.NoError(t, err)
	_, err = c.Login(ctx, email, "correct horse")
	require.NoError(t, err)
	return c
}

func requireAPIError(t *testing.T, err error, status int) *client.APIError {
	t.Helper()
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %v", err)
	assert.Equal(t, status, apiErr.StatusCode)
	return apiErr
}

func TestAuth(t *testing.T) {
	server := setupServer(t, cliRoadmap)
	ctx := context.Background()
	c := client.NewClient(server.URL)

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", health["backend"])

	_, err = c.Me(ctx)
	apiErr := requireAPIError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "No authentication token provided", apiErr.Message)

	user, err := c.SignUp(ctx, "Learner@Example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "learner@example.com", user.Email)
	assert.Empty(t, c.AuthToken(), "sign-up does not log in")

	_, err = c.SignUp(ctx, "learner@example.com", "another")
	requireAPIError(t, err, http.StatusBadRequest)

	_, err = c.Login(ctx, "learner@example.com", "wrong")
	requireAPIError(t, err, http.StatusUnauthorized)

	session, err := c.Login(ctx, "learner@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, session.AccessToken, c.AuthToken())
	assert.Equal(t, user.ID, session.User.ID)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	token := c.AuthToken()
	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.AuthToken())

	c.SetAuthToken(token)
	_, err = c.Me(ctx)
	apiErr = requireAPIError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Invalid or expired token", apiErr.Message)
}

func TestGenerateAndEdit(t *testing.T) {
	server := setupServer(t, cliRoadmap)
	ctx := context.Background()
	c := loggedIn(t, server, "learner@example.com")

	latest, err := c.LatestPlan(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = c.Generate(ctx, "", "Ship a CLI")
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	assert.Contains(t, apiErr.Message, "required")

	generated, err := c.Generate(ctx, "Learn Go", "Ship a CLI")
	require.NoError(t, err)
	assert.Equal(t, "Go CLI Tools", generated.Title)
	assert.Equal(t, "gpt-4o-mini", generated.Model)
	assert.JSONEq(t, cliRoadmap, string(generated.Roadmap))

	detail, err := c.GetPlan(ctx, generated.PlanID)
	require.NoError(t, err)
	tree := detail.Plan
	assert.Equal(t, "Learn Go", tree.Focus)
	require.NotNil(t, tree.EstimatedDurationWeeks)
	assert.Equal(t, 6, *tree.EstimatedDurationWeeks)
	require.Len(t, tree.Milestones, 2)
	assert.Equal(t, "Flags", tree.Milestones[0].Title)
	require.Len(t, tree.Milestones[0].Steps[0].Resources, 1)
	assert.Equal(t, models.ResourceType("doc"), tree.Milestones[0].Steps[0].Resources[0].Type)
	assert.Empty(t, detail.CompletedMilestones)

	latest, err = c.LatestPlan(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, generated.PlanID, latest.Plan.ID)

	title := "Go Command Line Tools"
	plan, err := c.UpdatePlan(ctx, generated.PlanID, client.PlanUpdate{Title: &title, ClearEstimatedDuration: true})
	require.NoError(t, err)
	assert.Equal(t, title, plan.Title)
	assert.Nil(t, plan.EstimatedDurationWeeks)
	assert.Equal(t, "Ship a CLI", plan.Outcome, "absent fields are kept")

	weeks := 8
	plan, err = c.UpdatePlan(ctx, generated.PlanID, client.PlanUpdate{EstimatedDurationWeeks: &weeks})
	require.NoError(t, err)
	require.NotNil(t, plan.EstimatedDurationWeeks)
	assert.Equal(t, 8, *plan.EstimatedDurationWeeks)
	assert.Equal(t, title, plan.Title)

	milestone, err := c.AppendMilestone(ctx, generated.PlanID, roadmap.MilestoneInput{Title: "Testing"})
	require.NoError(t, err)
	assert.Equal(t, 2, milestone.OrderIndex)

	description := "Table driven tests"
	milestone, err = c.UpdateMilestone(ctx, milestone.ID, roadmap.MilestonePatch{Description: &description})
	require.NoError(t, err)
	require.NotNil(t, milestone.Description)
	assert.Equal(t, description, *milestone.Description)

	step, err := c.AppendStep(ctx, milestone.ID, roadmap.StepInput{Title: "testify"})
	require.NoError(t, err)
	assert.Equal(t, 0, step.OrderIndex)

	stepTitle := "testify suites"
	step, err = c.UpdateStep(ctx, step.ID, roadmap.StepPatch{Title: &stepTitle})
	require.NoError(t, err)
	assert.Equal(t, stepTitle, step.Title)

	_, err = c.AppendResource(ctx, step.ID, roadmap.ResourceInput{Type: "video"})
	requireAPIError(t, err, http.StatusBadRequest)

	url := "https://github.com/stretchr/testify"
	resource, err := c.AppendResource(ctx, step.ID, roadmap.ResourceInput{Type: "link", URL: &url})
	require.NoError(t, err)
	assert.Equal(t, url, *resource.URL)

	kind := "course"
	resource, err = c.UpdateResource(ctx, resource.ID, roadmap.ResourcePatch{Type: &kind})
	require.NoError(t, err)
	assert.Equal(t, models.ResourceType("course"), resource.Type)

	require.NoError(t, c.DeleteResource(ctx, resource.ID))
	require.NoError(t, c.DeleteStep(ctx, step.ID))
	require.NoError(t, c.DeleteMilestone(ctx, milestone.ID))

	detail, err = c.GetPlan(ctx, generated.PlanID)
	require.NoError(t, err)
	assert.Len(t, detail.Plan.Milestones, 2)

	plans, err := c.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, &roadmap.Progress{Completed: 0, Total: 2}, plans[0].Progress)

	require.NoError(t, c.DeletePlan(ctx, generated.PlanID))
	_, err = c.GetPlan(ctx, generated.PlanID)
	apiErr = requireAPIError(t, err, http.StatusNotFound)
	assert.Equal(t, "Not found", apiErr.Message)
}

func TestOtherUsersPlans(t *testing.T) {
	server := setupServer(t, cliRoadmap)
	ctx := context.Background()
	author := loggedIn(t, server, "author@example.com")
	reader := loggedIn(t, server, "reader@example.com")

	generated, err := author.Generate(ctx, "Learn Go", "Ship a CLI")
	require.NoError(t, err)

	_, err = reader.GetPlan(ctx, generated.PlanID)
	requireAPIError(t, err, http.StatusNotFound)
	err = reader.DeletePlan(ctx, generated.PlanID)
	requireAPIError(t, err, http.StatusNotFound)

	public, err := reader.ListPublicPlans(ctx, "cli")
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "author@example.com", public[0].AuthorEmail)

	none, err := reader.ListPublicPlans(ctx, "rust")
	require.NoError(t, err)
	assert.Empty(t, none)

	tree, err := reader.GetPublicPlan(ctx, generated.PlanID)
	require.NoError(t, err)
	assert.Equal(t, "author@example.com", tree.AuthorEmail)
	require.Len(t, tree.Milestones, 2)

	progress, err := reader.SetMilestoneDone(ctx, tree.Milestones[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, &roadmap.Progress{Completed: 1, Total: 2}, progress)

	authorPlans, err := author.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, authorPlans, 1)
	assert.Equal(t, 0, authorPlans[0].Progress.Completed, "progress is per user")

	require.NoError(t, reader.AddBookmark(ctx, generated.PlanID))
	require.NoError(t, reader.AddBookmark(ctx, generated.PlanID))
	bookmarks, err := reader.ListBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, generated.PlanID, bookmarks[0].ID)
	assert.Equal(t, 1, bookmarks[0].Progress.Completed)

	require.NoError(t, reader.RemoveBookmark(ctx, generated.PlanID))
	bookmarks, err = reader.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	err = reader.AddBookmark(ctx, models.NewPlanID())
	requireAPIError(t, err, http.StatusNotFound)
}

func TestMalformedRoadmap(t *testing.T) {
	server := setupServer(t, "Here is your roadmap: step one, learn Go.")
	ctx := context.Background()
	c := loggedIn(t, server, "learner@example.com")

	_, err := c.Generate(ctx, "Learn Go", "Ship a CLI")
	apiErr := requireAPIError(t, err, http.StatusBadGateway)
	assert.Equal(t, "Here is your roadmap: step one, learn Go.", apiErr.Raw)
	assert.Contains(t, apiErr.Error(), "API error: status=502")

	plans, err := c.ListPlans(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}
