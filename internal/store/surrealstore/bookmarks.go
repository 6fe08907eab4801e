package surrealstore

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func (s *SurrealStore) AddBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	existing, err := selectOne[models.Bookmark](ctx, s.db,
		"SELECT * FROM bookmarks WHERE user_id = $user AND plan_id = $plan LIMIT 1",
		map[string]any{"user": bookmark.UserID, "plan": bookmark.PlanID})
	if err != nil {
		return fmt.Errorf("failed to check bookmark: %w", err)
	}
	if existing != nil {
		*bookmark = *existing
		return nil
	}

	if bookmark.ID.IsZero() {
		bookmark.ID = models.NewBookmarkID()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now().UTC()
	}
	if _, err := surrealdb.Create[models.Bookmark](ctx, s.db, bookmark.ID.RecordID(), bookmark); err != nil {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	return nil
}

func (s *SurrealStore) RemoveBookmark(ctx context.Context, userID models.UserID, planID models.PlanID) error {
	err := s.exec(ctx, "DELETE bookmarks WHERE user_id = $user AND plan_id = $plan",
		map[string]any{"user": userID, "plan": planID})
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

func (s *SurrealStore) ListBookmarkedPlans(ctx context.Context, userID models.UserID) ([]*models.Plan, error) {
	const query = `
SELECT * FROM plans
WHERE id IN (SELECT VALUE plan_id FROM bookmarks WHERE user_id = $user)
ORDER BY created_at DESC`
	plans, err := selectAll[models.Plan](ctx, s.db, query, map[string]any{"user": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarked plans: %w", err)
	}
	return plans, nil
}

func (s *SurrealStore) SetMilestoneProgress(ctx context.Context, progress *models.MilestoneProgress) error {
	if progress.CompletedAt.IsZero() {
		progress.CompletedAt = time.Now().UTC()
	}
	updated, err := selectAll[models.MilestoneProgress](ctx, s.db,
		"UPDATE milestone_progresses SET completed_at = $at WHERE user_id = $user AND milestone_id = $milestone RETURN AFTER",
		map[string]any{
			"at":        progress.CompletedAt,
			"user":      progress.UserID,
			"milestone": progress.MilestoneID,
		})
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if len(updated) > 0 {
		progress.ID = updated[0].ID
		return nil
	}

	if progress.ID.IsZero() {
		progress.ID = models.NewProgressID()
	}
	if _, err := surrealdb.Create[models.MilestoneProgress](ctx, s.db, progress.ID.RecordID(), progress); err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}

func (s *SurrealStore) ClearMilestoneProgress(ctx context.Context, userID models.UserID, milestoneID models.MilestoneID) error {
	err := s.exec(ctx, "DELETE milestone_progresses WHERE user_id = $user AND milestone_id = $milestone",
		map[string]any{"user": userID, "milestone": milestoneID})
	if err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}
	return nil
}

func (s *SurrealStore) ListMilestoneProgress(ctx context.Context, userID models.UserID, planIDs []models.PlanID) ([]*models.MilestoneProgress, error) {
	if len(planIDs) == 0 {
		return nil, nil
	}
	progress, err := selectAll[models.MilestoneProgress](ctx, s.db,
		"SELECT * FROM milestone_progresses WHERE user_id = $user AND plan_id IN $plans",
		map[string]any{"user": userID, "plans": planIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return progress, nil
}

func (s *SurrealStore) CreateGeneration(ctx context.Context, generation *models.Generation) error {
	if generation.ID.IsZero() {
		generation.ID = models.NewGenerationID()
	}
	if generation.CreatedAt.IsZero() {
		generation.CreatedAt = time.Now().UTC()
	}
	if _, err := surrealdb.Create[models.Generation](ctx, s.db, generation.ID.RecordID(), generation); err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}
