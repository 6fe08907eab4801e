package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func (s *GormStore) CreatePlan(ctx context.Context, plan *models.Plan) error {
	return s.getDB(ctx).Omit(clause.Associations).Create(plan).Error
}

func (s *GormStore) GetPlan(ctx context.Context, id models.PlanID) (*models.Plan, error) {
	var plan models.Plan
	found, err := first(s.getDB(ctx), &plan, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &plan, nil
}

func (s *GormStore) LatestPlan(ctx context.Context, owner models.UserID) (*models.Plan, error) {
	var plan models.Plan
	found, err := first(s.getDB(ctx).Order("created_at DESC"), &plan, "owner_id = ?", owner)
	if err != nil || !found {
		return nil, err
	}
	return &plan, nil
}

func (s *GormStore) ListPlans(ctx context.Context, owner models.UserID) ([]*models.Plan, error) {
	var plans []*models.Plan
	err := s.getDB(ctx).
		Where("owner_id = ?", owner).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (s *GormStore) ListPublicPlans(ctx context.Context, query string) ([]*models.Plan, error) {
	tx := s.getDB(ctx).Order("created_at DESC")
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(focus) LIKE ? OR LOWER(outcome) LIKE ?", pattern, pattern, pattern)
	}
	var plans []*models.Plan
	err := tx.Find(&plans).Error
	return plans, err
}

func (s *GormStore) UpdatePlan(ctx context.Context, plan *models.Plan) (bool, error) {
	res := s.getDB(ctx).
		Model(&models.Plan{}).
		Where("id = ? AND owner_id = ?", plan.ID, plan.OwnerID).
		Updates(map[string]any{
			"title":                    plan.Title,
			"focus":                    plan.Focus,
			"outcome":                  plan.Outcome,
			"estimated_duration_weeks": plan.EstimatedDurationWeeks,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) DeletePlan(ctx context.Context, id models.PlanID) error {
	return s.getDB(ctx).Delete(&models.Plan{}, "id = ?", id).Error
}
