package gormstore

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func (s *GormStore) AddBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	return s.getDB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "plan_id"}},
			DoNothing: true,
		}).
		Create(bookmark).Error
}

func (s *GormStore) RemoveBookmark(ctx context.Context, userID models.UserID, planID models.PlanID) error {
	return s.getDB(ctx).
		Delete(&models.Bookmark{}, "user_id = ? AND plan_id = ?", userID, planID).Error
}

func (s *GormStore) ListBookmarkedPlans(ctx context.Context, userID models.UserID) ([]*models.Plan, error) {
	var plans []*models.Plan
	err := s.getDB(ctx).
		Joins("JOIN bookmarks ON bookmarks.plan_id = plans.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (s *GormStore) SetMilestoneProgress(ctx context.Context, progress *models.MilestoneProgress) error {
	return s.getDB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "milestone_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed_at"}),
		}).
		Create(progress).Error
}

func (s *GormStore) ClearMilestoneProgress(ctx context.Context, userID models.UserID, milestoneID models.MilestoneID) error {
	return s.getDB(ctx).
		Delete(&models.MilestoneProgress{}, "user_id = ? AND milestone_id = ?", userID, milestoneID).Error
}

func (s *GormStore) ListMilestoneProgress(ctx context.Context, userID models.UserID, planIDs []models.PlanID) ([]*models.MilestoneProgress, error) {
	if len(planIDs) == 0 {
		return nil, nil
	}
	var progress []*models.MilestoneProgress
	err := s.getDB(ctx).
		Where("user_id = ? AND plan_id IN ?", userID, planIDs).
		Find(&progress).Error
	return progress, err
}

func (s *GormStore) CreateGeneration(ctx context.Context, generation *models.Generation) error {
	return s.getDB(ctx).Create(generation).Error
}
