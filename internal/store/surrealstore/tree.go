package surrealstore

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func (s *SurrealStore) CreateMilestone(ctx context.Context, milestone *models.Milestone) error {
	if milestone.ID.IsZero() {
		milestone.ID = models.NewMilestoneID()
	}
	if _, err := surrealdb.Create[models.Milestone](ctx, s.db, milestone.ID.RecordID(), milestone); err != nil {
		return fmt.Errorf("failed to create milestone: %w", err)
	}
	return nil
}

func (s *SurrealStore) CreateMilestones(ctx context.Context, milestones []*models.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}
	for _, m := range milestones {
		if m.ID.IsZero() {
			m.ID = models.NewMilestoneID()
		}
	}
	if _, err := surrealdb.Insert[models.Milestone](ctx, s.db, surrealmodels.Table(models.TableMilestones), milestones); err != nil {
		return fmt.Errorf("failed to create milestones: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetMilestone(ctx context.Context, id models.MilestoneID) (*models.Milestone, error) {
	milestone, err := surrealdb.Select[models.Milestone](ctx, s.db, id.RecordID())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get milestone: %w", err)
	}
	if milestone == nil || milestone.ID.IsZero() {
		return nil, nil
	}
	return milestone, nil
}

func (s *SurrealStore) ListMilestones(ctx context.Context, planID models.PlanID) ([]*models.Milestone, error) {
	milestones, err := selectAll[models.Milestone](ctx, s.db,
		"SELECT * FROM milestones WHERE plan_id = $plan ORDER BY order_index ASC",
		map[string]any{"plan": planID})
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	return milestones, nil
}

func (s *SurrealStore) UpdateMilestone(ctx context.Context, milestone *models.Milestone) error {
	err := s.exec(ctx, "UPDATE $milestone MERGE $patch", map[string]any{
		"milestone": milestone.ID.RecordID(),
		"patch": map[string]any{
			"title":              milestone.Title,
			"description":        milestone.Description,
			"estimated_duration": milestone.EstimatedDuration,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update milestone: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeleteMilestone(ctx context.Context, id models.MilestoneID) error {
	const query = `
BEGIN TRANSACTION;
LET $steps = (SELECT VALUE id FROM steps WHERE milestone_id = $milestone);
DELETE resources WHERE step_id IN $steps;
DELETE steps WHERE milestone_id = $milestone;
DELETE milestone_progresses WHERE milestone_id = $milestone;
DELETE $milestone;
COMMIT TRANSACTION;
`
	if err := s.exec(ctx, query, map[string]any{"milestone": id.RecordID()}); err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	return nil
}

func (s *SurrealStore) LastMilestoneOrder(ctx context.Context, planID models.PlanID) (int, error) {
	return s.lastOrder(ctx, models.TableMilestones, "plan_id", planID)
}

func (s *SurrealStore) CountMilestones(ctx context.Context, planIDs []models.PlanID) (map[models.PlanID]int, error) {
	counts := make(map[models.PlanID]int, len(planIDs))
	if len(planIDs) == 0 {
		return counts, nil
	}
	type row struct {
		PlanID models.PlanID `json:"plan_id"`
		Total  int           `json:"total"`
	}
	rows, err := selectAll[row](ctx, s.db,
		"SELECT plan_id, count() AS total FROM milestones WHERE plan_id IN $plans GROUP BY plan_id",
		map[string]any{"plans": planIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to count milestones: %w", err)
	}
	for _, r := range rows {
		counts[r.PlanID] = r.Total
	}
	return counts, nil
}

func (s *SurrealStore) CreateStep(ctx context.Context, step *models.Step) error {
	if step.ID.IsZero() {
		step.ID = models.NewStepID()
	}
	if _, err := surrealdb.Create[models.Step](ctx, s.db, step.ID.RecordID(), step); err != nil {
		return fmt.Errorf("failed to create step: %w", err)
	}
	return nil
}

func (s *SurrealStore) CreateSteps(ctx context.Context, steps []*models.Step) error {
	if len(steps) == 0 {
		return nil
	}
	for _, st := range steps {
		if st.ID.IsZero() {
			st.ID = models.NewStepID()
		}
	}
	if _, err := surrealdb.Insert[models.Step](ctx, s.db, surrealmodels.Table(models.TableSteps), steps); err != nil {
		return fmt.Errorf("failed to create steps: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetStep(ctx context.Context, id models.StepID) (*models.Step, error) {
	step, err := surrealdb.Select[models.Step](ctx, s.db, id.RecordID())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	if step == nil || step.ID.IsZero() {
		return nil, nil
	}
	return step, nil
}

func (s *SurrealStore) ListSteps(ctx context.Context, milestoneIDs []models.MilestoneID) ([]*models.Step, error) {
	if len(milestoneIDs) == 0 {
		return nil, nil
	}
	steps, err := selectAll[models.Step](ctx, s.db,
		"SELECT * FROM steps WHERE milestone_id IN $milestones ORDER BY order_index ASC",
		map[string]any{"milestones": milestoneIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	return steps, nil
}

func (s *SurrealStore) UpdateStep(ctx context.Context, step *models.Step) error {
	err := s.exec(ctx, "UPDATE $step MERGE $patch", map[string]any{
		"step": step.ID.RecordID(),
		"patch": map[string]any{
			"title":       step.Title,
			"description": step.Description,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeleteStep(ctx context.Context, id models.StepID) error {
	const query = `
BEGIN TRANSACTION;
DELETE resources WHERE step_id = $step;
DELETE $step;
COMMIT TRANSACTION;
`
	if err := s.exec(ctx, query, map[string]any{"step": id.RecordID()}); err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}
	return nil
}

func (s *SurrealStore) LastStepOrder(ctx context.Context, milestoneID models.MilestoneID) (int, error) {
	return s.lastOrder(ctx, models.TableSteps, "milestone_id", milestoneID)
}

func (s *SurrealStore) CreateResource(ctx context.Context, resource *models.Resource) error {
	if resource.ID.IsZero() {
		resource.ID = models.NewResourceID()
	}
	if _, err := surrealdb.Create[models.Resource](ctx, s.db, resource.ID.RecordID(), resource); err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (s *SurrealStore) CreateResources(ctx context.Context, resources []*models.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	for _, r := range resources {
		if r.ID.IsZero() {
			r.ID = models.NewResourceID()
		}
	}
	if _, err := surrealdb.Insert[models.Resource](ctx, s.db, surrealmodels.Table(models.TableResources), resources); err != nil {
		return fmt.Errorf("failed to create resources: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetResource(ctx context.Context, id models.ResourceID) (*models.Resource, error) {
	resource, err := surrealdb.Select[models.Resource](ctx, s.db, id.RecordID())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	if resource == nil || resource.ID.IsZero() {
		return nil, nil
	}
	return resource, nil
}

func (s *SurrealStore) ListResources(ctx context.Context, stepIDs []models.StepID) ([]*models.Resource, error) {
	if len(stepIDs) == 0 {
		return nil, nil
	}
	resources, err := selectAll[models.Resource](ctx, s.db,
		"SELECT * FROM resources WHERE step_id IN $steps ORDER BY order_index ASC",
		map[string]any{"steps": stepIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

func (s *SurrealStore) UpdateResource(ctx context.Context, resource *models.Resource) error {
	err := s.exec(ctx, "UPDATE $resource MERGE $patch", map[string]any{
		"resource": resource.ID.RecordID(),
		"patch": map[string]any{
			"type":  resource.Type,
			"title": resource.Title,
			"url":   resource.URL,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeleteResource(ctx context.Context, id models.ResourceID) error {
	_, err := surrealdb.Delete[models.Resource](ctx, s.db, id.RecordID())
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	return nil
}

func (s *SurrealStore) LastResourceOrder(ctx context.Context, stepID models.StepID) (int, error) {
	return s.lastOrder(ctx, models.TableResources, "step_id", stepID)
}
