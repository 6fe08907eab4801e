package roadmap

import (
	"context"
	"strings"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

// Patches leave nil fields unchanged. For nullable columns an empty string
// clears the value.

type PlanPatch struct {
	Title   *string `json:"title"`
	Focus   *string `json:"focus"`
	Outcome *string `json:"outcome"`
	// Any number, numeric string, empty string or null. Absent keeps the
	// current value.
	EstimatedDurationWeeks Scalar `json:"estimated_duration_weeks"`
}

type MilestoneInput struct {
	Title             string  `json:"title"`
	Description       *string `json:"description"`
	EstimatedDuration *string `json:"estimated_duration"`
}

type MilestonePatch struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	EstimatedDuration *string `json:"estimated_duration"`
}

type StepInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type StepPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type ResourceInput struct {
	Type  string  `json:"type"`
	Title *string `json:"title"`
	URL   *string `json:"url"`
}

type ResourcePatch struct {
	Type  *string `json:"type"`
	Title *string `json:"title"`
	URL   *string `json:"url"`
}

func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "Title is required"}
	}
	return title, nil
}

// optional normalizes a nullable text input: nil and blank become nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// resourceType trims and lowercases a type tag; blank becomes the default.
func resourceType(t string) models.ResourceType {
	t = strings.TrimSpace(t)
	if t == "" {
		return DefaultResourceType
	}
	return models.ResourceType(strings.ToLower(t))
}

// nextOrder turns the store's last order index (-1 when empty) into the
// index for a new sibling. Concurrent appends can read the same maximum.
func nextOrder(last int, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (s *Service) UpdatePlan(ctx context.Context, owner models.UserID, id models.PlanID, patch PlanPatch) (*models.Plan, error) {
	plan, err := s.guard.Plan(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if plan.Title, err = requireTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Focus != nil {
		plan.Focus = strings.TrimSpace(*patch.Focus)
	}
	if patch.Outcome != nil {
		plan.Outcome = strings.TrimSpace(*patch.Outcome)
	}
	if patch.EstimatedDurationWeeks.Present() {
		plan.EstimatedDurationWeeks = patch.EstimatedDurationWeeks.Int()
	}

	matched, err := s.store.UpdatePlan(ctx, plan)
	if err != nil {
		return nil, storeError("update plan", models.PlanID{}, err)
	}
	if !matched {
		return nil, ErrNotFound
	}
	return plan, nil
}

func (s *Service) DeletePlan(ctx context.Context, owner models.UserID, id models.PlanID) error {
	if _, err := s.guard.Plan(ctx, id, owner); err != nil {
		return err
	}
	if err := s.store.DeletePlan(ctx, id); err != nil {
		return storeError("delete plan", models.PlanID{}, err)
	}
	return nil
}

// AppendMilestone adds a milestone after the plan's current last one.
func (s *Service) AppendMilestone(ctx context.Context, owner models.UserID, planID models.PlanID, in MilestoneInput) (*models.Milestone, error) {
	title, err := requireTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Plan(ctx, planID, owner); err != nil {
		return nil, err
	}
	order, err := nextOrder(s.store.LastMilestoneOrder(ctx, planID))
	if err != nil {
		return nil, storeError("read milestones", models.PlanID{}, err)
	}

	milestone := &models.Milestone{
		ID:                models.NewMilestoneID(),
		PlanID:            planID,
		Title:             title,
		Description:       optional(in.Description),
		EstimatedDuration: optional(in.EstimatedDuration),
		OrderIndex:        order,
	}
	if err := s.store.CreateMilestone(ctx, milestone); err != nil {
		return nil, storeError("create milestone", models.PlanID{}, err)
	}
	return milestone, nil
}

func (s *Service) UpdateMilestone(ctx context.Context, owner models.UserID, id models.MilestoneID, patch MilestonePatch) (*models.Milestone, error) {
	milestone, _, err := s.guard.Milestone(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if milestone.Title, err = requireTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		milestone.Description = optional(patch.Description)
	}
	if patch.EstimatedDuration != nil {
		milestone.EstimatedDuration = optional(patch.EstimatedDuration)
	}
	if err := s.store.UpdateMilestone(ctx, milestone); err != nil {
		return nil, storeError("update milestone", models.PlanID{}, err)
	}
	return milestone, nil
}

// DeleteMilestone removes the milestone with its steps and resources. The
// remaining milestones keep their order indices.
func (s *Service) DeleteMilestone(ctx context.Context, owner models.UserID, id models.MilestoneID) error {
	if _, _, err := s.guard.Milestone(ctx, id, owner); err != nil {
		return err
	}
	if err := s.store.DeleteMilestone(ctx, id); err != nil {
		return storeError("delete milestone", models.PlanID{}, err)
	}
	return nil
}

func (s *Service) AppendStep(ctx context.Context, owner models.UserID, milestoneID models.MilestoneID, in StepInput) (*models.Step, error) {
	title, err := requireTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.guard.Milestone(ctx, milestoneID, owner); err != nil {
		return nil, err
	}
	order, err := nextOrder(s.store.LastStepOrder(ctx, milestoneID))
	if err != nil {
		return nil, storeError("read steps", models.PlanID{}, err)
	}

	step := &models.Step{
		ID:          models.NewStepID(),
		MilestoneID: milestoneID,
		Title:       title,
		Description: optional(in.Description),
		OrderIndex:  order,
	}
	if err := s.store.CreateStep(ctx, step); err != nil {
		return nil, storeError("create step", models.PlanID{}, err)
	}
	return step, nil
}

func (s *Service) UpdateStep(ctx context.Context, owner models.UserID, id models.StepID, patch StepPatch) (*models.Step, error) {
	step, _, err := s.guard.Step(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if step.Title, err = requireTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		step.Description = optional(patch.Description)
	}
	if err := s.store.UpdateStep(ctx, step); err != nil {
		return nil, storeError("update step", models.PlanID{}, err)
	}
	return step, nil
}

func (s *Service) DeleteStep(ctx context.Context, owner models.UserID, id models.StepID) error {
	if _, _, err := s.guard.Step(ctx, id, owner); err != nil {
		return err
	}
	if err := s.store.DeleteStep(ctx, id); err != nil {
		return storeError("delete step", models.PlanID{}, err)
	}
	return nil
}

// AppendResource adds a resource to a step. A resource needs a title or a
// URL; the type defaults to link.
func (s *Service) AppendResource(ctx context.Context, owner models.UserID, stepID models.StepID, in ResourceInput) (*models.Resource, error) {
	title, url := optional(in.Title), optional(in.URL)
	if title == nil && url == nil {
		return nil, &ValidationError{Field: "url", Message: "Title or URL is required"}
	}
	if _, _, err := s.guard.Step(ctx, stepID, owner); err != nil {
		return nil, err
	}
	order, err := nextOrder(s.store.LastResourceOrder(ctx, stepID))
	if err != nil {
		return nil, storeError("read resources", models.PlanID{}, err)
	}

	resource := &models.Resource{
		ID:         models.NewResourceID(),
		StepID:     stepID,
		Type:       resourceType(in.Type),
		Title:      title,
		URL:        url,
		OrderIndex: order,
	}
	if err := s.store.CreateResource(ctx, resource); err != nil {
		return nil, storeError("create resource", models.PlanID{}, err)
	}
	return resource, nil
}

func (s *Service) UpdateResource(ctx context.Context, owner models.UserID, id models.ResourceID, patch ResourcePatch) (*models.Resource, error) {
	resource, _, err := s.guard.Resource(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if patch.Type != nil {
		resource.Type = resourceType(*patch.Type)
	}
	if patch.Title != nil {
		resource.Title = optional(patch.Title)
	}
	if patch.URL != nil {
		resource.URL = optional(patch.URL)
	}
	if err := s.store.UpdateResource(ctx, resource); err != nil {
		return nil, storeError("update resource", models.PlanID{}, err)
	}
	return resource, nil
}

func (s *Service) DeleteResource(ctx context.Context, owner models.UserID, id models.ResourceID) error {
	if _, _, err := s.guard.Resource(ctx, id, owner); err != nil {
		return err
	}
	if err := s.store.DeleteResource(ctx, id); err != nil {
		return storeError("delete resource", models.PlanID{}, err)
	}
	return nil
}
