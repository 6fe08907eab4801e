package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MDAnandaB35/study-planner/internal/models"
	"github.com/MDAnandaB35/study-planner/internal/roadmap"
)

// Generated is the result of a roadmap generation.
type Generated struct {
	PlanID  models.PlanID   `json:"plan_id"`
	Title   string          `json:"title"`
	Roadmap json.RawMessage `json:"roadmap"`
	Model   string          `json:"model"`
	Usage   json.RawMessage `json:"usage"`
}

// PlanDetail is a plan tree with the caller's completed milestones.
type PlanDetail struct {
	Plan                *roadmap.Tree        `json:"plan"`
	CompletedMilestones []models.MilestoneID `json:"completed_milestones"`
}

// PlanUpdate edits a plan. Nil fields are left unchanged.
type PlanUpdate struct {
	Title                  *string
	Focus                  *string
	Outcome                *string
	EstimatedDurationWeeks *int
	// ClearEstimatedDuration removes the duration.
	ClearEstimatedDuration bool
}

func (u PlanUpdate) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	if u.Title != nil {
		body["title"] = *u.Title
	}
	if u.Focus != nil {
		body["focus"] = *u.Focus
	}
	if u.Outcome != nil {
		body["outcome"] = *u.Outcome
	}
	switch {
	case u.ClearEstimatedDuration:
		body["estimated_duration_weeks"] = nil
	case u.EstimatedDurationWeeks != nil:
		body["estimated_duration_weeks"] = *u.EstimatedDurationWeeks
	}
	return json.Marshal(body)
}

// Generate asks the server to generate and store a roadmap.
func (c *Client) Generate(ctx context.Context, focus, outcome string) (*Generated, error) {
	req := map[string]string{"focus": focus, "outcome": outcome}
	var result Generated
	if err := c.call(ctx, http.MethodPost, "/ai/complete", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPlans lists the caller's plans with progress.
func (c *Client) ListPlans(ctx context.Context) ([]*roadmap.PlanSummary, error) {
	var result struct {
		Plans []*roadmap.PlanSummary `json:"plans"`
	}
	if err := c.call(ctx, http.MethodGet, "/ai/plans", nil, &result); err != nil {
		return nil, err
	}
	return result.Plans, nil
}

// LatestPlan returns the caller's newest plan, or nil when there is none.
func (c *Client) LatestPlan(ctx context.Context) (*PlanDetail, error) {
	var result PlanDetail
	if err := c.call(ctx, http.MethodGet, "/ai/plans/latest", nil, &result); err != nil {
		return nil, err
	}
	if result.Plan == nil {
		return nil, nil
	}
	return &result, nil
}

func (c *Client) GetPlan(ctx context.Context, id models.PlanID) (*PlanDetail, error) {
	var result PlanDetail
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/ai/plans/%s", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdatePlan(ctx context.Context, id models.PlanID, update PlanUpdate) (*models.Plan, error) {
	var result struct {
		Plan *models.Plan `json:"plan"`
	}
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/ai/plans/%s", id), update, &result); err != nil {
		return nil, err
	}
	return result.Plan, nil
}

// DeletePlan deletes a plan with all its milestones, steps and resources.
func (c *Client) DeletePlan(ctx context.Context, id models.PlanID) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/ai/plans/%s", id), nil, nil)
}

// AppendMilestone adds a milestone after the plan's last one.
func (c *Client) AppendMilestone(ctx context.Context, planID models.PlanID, in roadmap.MilestoneInput) (*models.Milestone, error) {
	var result struct {
		Milestone *models.Milestone `json:"milestone"`
	}
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/ai/plans/%s/milestones", planID), in, &result); err != nil {
		return nil, err
	}
	return result.Milestone, nil
}

func (c *Client) UpdateMilestone(ctx context.Context, id models.MilestoneID, patch roadmap.MilestonePatch) (*models.Milestone, error) {
	var result struct {
		Milestone *models.Milestone `json:"milestone"`
	}
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/ai/milestones/%s", id), patch, &result); err != nil {
		return nil, err
	}
	return result.Milestone, nil
}

func (c *Client) DeleteMilestone(ctx context.Context, id models.MilestoneID) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/ai/milestones/%s", id), nil, nil)
}

func (c *Client) AppendStep(ctx context.Context, milestoneID models.MilestoneID, in roadmap.StepInput) (*models.Step, error) {
	var result struct {
		Step *models.Step `json:"step"`
	}
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/ai/milestones/%s/steps", milestoneID), in, &result); err != nil {
		return nil, err
	}
	return result.Step, nil
}

func (c *Client) UpdateStep(ctx context.Context, id models.StepID, patch roadmap.StepPatch) (*models.Step, error) {
	var result struct {
		Step *models.Step `json:"step"`
	}
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/ai/steps/%s", id), patch, &result); err != nil {
		return nil, err
	}
	return result.Step, nil
}

func (c *Client) DeleteStep(ctx context.Context, id models.StepID) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/ai/steps/%s", id), nil, nil)
}

func (c *Client) AppendResource(ctx context.Context, stepID models.StepID, in roadmap.ResourceInput) (*models.Resource, error) {
	var result struct {
		Resource *models.Resource `json:"resource"`
	}
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/ai/steps/%s/resources", stepID), in, &result); err != nil {
		return nil, err
	}
	return result.Resource, nil
}

func (c *Client) UpdateResource(ctx context.Context, id models.ResourceID, patch roadmap.ResourcePatch) (*models.Resource, error) {
	var result struct {
		Resource *models.Resource `json:"resource"`
	}
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/ai/resources/%s", id), patch, &result); err != nil {
		return nil, err
	}
	return result.Resource, nil
}

func (c *Client) DeleteResource(ctx context.Context, id models.ResourceID) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/ai/resources/%s", id), nil, nil)
}

// SetMilestoneDone marks a milestone of any readable plan as completed, or
// not, and returns the plan's progress.
func (c *Client) SetMilestoneDone(ctx context.Context, id models.MilestoneID, completed bool) (*roadmap.Progress, error) {
	var result struct {
		Progress *roadmap.Progress `json:"progress"`
	}
	req := map[string]bool{"completed": completed}
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/ai/milestones/%s/progress", id), req, &result); err != nil {
		return nil, err
	}
	return result.Progress, nil
}

// ListPublicPlans lists every plan. A non-empty query searches title, focus
// and outcome.
func (c *Client) ListPublicPlans(ctx context.Context, query string) ([]*roadmap.PlanSummary, error) {
	path := "/ai/public/plans"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var result struct {
		Plans []*roadmap.PlanSummary `json:"plans"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Plans, nil
}

func (c *Client) GetPublicPlan(ctx context.Context, id models.PlanID) (*roadmap.Tree, error) {
	var result struct {
		Plan *roadmap.Tree `json:"plan"`
	}
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/ai/public/plans/%s", id), nil, &result); err != nil {
		return nil, err
	}
	return result.Plan, nil
}

func (c *Client) ListBookmarks(ctx context.Context) ([]*roadmap.PlanSummary, error) {
	var result struct {
		Plans []*roadmap.PlanSummary `json:"plans"`
	}
	if err := c.call(ctx, http.MethodGet, "/ai/bookmarks", nil, &result); err != nil {
		return nil, err
	}
	return result.Plans, nil
}

func (c *Client) AddBookmark(ctx context.Context, planID models.PlanID) error {
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/ai/bookmarks/%s", planID), nil, nil)
}

func (c *Client) RemoveBookmark(ctx context.Context, planID models.PlanID) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/ai/bookmarks/%s", planID), nil, nil)
}
