package gormstore

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func (s *GormStore) CreateMilestone(ctx context.Context, milestone *models.Milestone) error {
	return s.getDB(ctx).Omit(clause.Associations).Create(milestone).Error
}

func (s *GormStore) CreateMilestones(ctx context.Context, milestones []*models.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}
	return s.getDB(ctx).Omit(clause.Associations).Create(&milestones).Error
}

func (s *GormStore) GetMilestone(ctx context.Context, id models.MilestoneID) (*models.Milestone, error) {
	var milestone models.Milestone
	found, err := first(s.getDB(ctx), &milestone, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &milestone, nil
}

func (s *GormStore) ListMilestones(ctx context.Context, planID models.PlanID) ([]*models.Milestone, error) {
	var milestones []*models.Milestone
	err := s.getDB(ctx).
		Where("plan_id = ?", planID).
		Order("order_index ASC").
		Find(&milestones).Error
	return milestones, err
}

func (s *GormStore) UpdateMilestone(ctx context.Context, milestone *models.Milestone) error {
	return s.getDB(ctx).
		Model(&models.Milestone{}).
		Where("id = ?", milestone.ID).
		Updates(map[string]any{
			"title":              milestone.Title,
			"description":        milestone.Description,
			"estimated_duration": milestone.EstimatedDuration,
		}).Error
}

func (s *GormStore) DeleteMilestone(ctx context.Context, id models.MilestoneID) error {
	return s.getDB(ctx).Delete(&models.Milestone{}, "id = ?", id).Error
}

func (s *GormStore) LastMilestoneOrder(ctx context.Context, planID models.PlanID) (int, error) {
	return lastOrder(s.getDB(ctx), models.TableMilestones, "plan_id", planID)
}

func (s *GormStore) CountMilestones(ctx context.Context, planIDs []models.PlanID) (map[models.PlanID]int, error) {
	counts := make(map[models.PlanID]int, len(planIDs))
	if len(planIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PlanID models.PlanID
		Total  int
	}
	err := s.getDB(ctx).
		Model(&models.Milestone{}).
		Select("plan_id, COUNT(*) AS total").
		Where("plan_id IN ?", planIDs).
		Group("plan_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PlanID] = row.Total
	}
	return counts, nil
}

func (s *GormStore) CreateStep(ctx context.Context, step *models.Step) error {
	return s.getDB(ctx).Omit(clause.Associations).Create(step).Error
}

func (s *GormStore) CreateSteps(ctx context.Context, steps []*models.Step) error {
	if len(steps) == 0 {
		return nil
	}
	return s.getDB(ctx).Omit(clause.Associations).Create(&steps).Error
}

func (s *GormStore) GetStep(ctx context.Context, id models.StepID) (*models.Step, error) {
	var step models.Step
	found, err := first(s.getDB(ctx), &step, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &step, nil
}

func (s *GormStore) ListSteps(ctx context.Context, milestoneIDs []models.MilestoneID) ([]*models.Step, error) {
	if len(milestoneIDs) == 0 {
		return nil, nil
	}
	var steps []*models.Step
	err := s.getDB(ctx).
		Where("milestone_id IN ?", milestoneIDs).
		Order("order_index ASC").
		Find(&steps).Error
	return steps, err
}

func (s *GormStore) UpdateStep(ctx context.Context, step *models.Step) error {
	return s.getDB(ctx).
		Model(&models.Step{}).
		Where("id = ?", step.ID).
		Updates(map[string]any{
			"title":       step.Title,
			"description": step.Description,
		}).Error
}

func (s *GormStore) DeleteStep(ctx context.Context, id models.StepID) error {
	return s.getDB(ctx).Delete(&models.Step{}, "id = ?", id).Error
}

func (s *GormStore) LastStepOrder(ctx context.Context, milestoneID models.MilestoneID) (int, error) {
	return lastOrder(s.getDB(ctx), models.TableSteps, "milestone_id", milestoneID)
}

func (s *GormStore) CreateResource(ctx context.Context, resource *models.Resource) error {
	return s.getDB(ctx).Create(resource).Error
}

func (s *GormStore) CreateResources(ctx context.Context, resources []*models.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	return s.getDB(ctx).Create(&resources).Error
}

func (s *GormStore) GetResource(ctx context.Context, id models.ResourceID) (*models.Resource, error) {
	var resource models.Resource
	found, err := first(s.getDB(ctx), &resource, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &resource, nil
}

func (s *GormStore) ListResources(ctx context.Context, stepIDs []models.StepID) ([]*models.Resource, error) {
	if len(stepIDs) == 0 {
		return nil, nil
	}
	var resources []*models.Resource
	err := s.getDB(ctx).
		Where("step_id IN ?", stepIDs).
		Order("order_index ASC").
		Find(&resources).Error
	return resources, err
}

func (s *GormStore) UpdateResource(ctx context.Context, resource *models.Resource) error {
	return s.getDB(ctx).
		Model(&models.Resource{}).
		Where("id = ?", resource.ID).
		Updates(map[string]any{
			"type":  resource.Type,
			"title": resource.Title,
			"url":   resource.URL,
		}).Error
}

func (s *GormStore) DeleteResource(ctx context.Context, id models.ResourceID) error {
	return s.getDB(ctx).Delete(&models.Resource{}, "id = ?", id).Error
}

func (s *GormStore) LastResourceOrder(ctx context.Context, stepID models.StepID) (int, error) {
	return lastOrder(s.getDB(ctx), models.TableResources, "step_id", stepID)
}
