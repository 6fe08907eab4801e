package surrealstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func (s *SurrealStore) CreatePlan(ctx context.Context, plan *models.Plan) error {
	if plan.ID.IsZero() {
		plan.ID = models.NewPlanID()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	if _, err := surrealdb.Create[models.Plan](ctx, s.db, plan.ID.RecordID(), plan); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetPlan(ctx context.Context, id models.PlanID) (*models.Plan, error) {
	plan, err := surrealdb.Select[models.Plan](ctx, s.db, id.RecordID())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil || plan.ID.IsZero() {
		return nil, nil
	}
	return plan, nil
}

func (s *SurrealStore) LatestPlan(ctx context.Context, owner models.UserID) (*models.Plan, error) {
	plan, err := selectOne[models.Plan](ctx, s.db,
		"SELECT * FROM plans WHERE owner_id = $owner ORDER BY created_at DESC LIMIT 1",
		map[string]any{"owner": owner})
	if err != nil {
		return nil, fmt.Errorf("failed to get latest plan: %w", err)
	}
	return plan, nil
}

func (s *SurrealStore) ListPlans(ctx context.Context, owner models.UserID) ([]*models.Plan, error) {
	plans, err := selectAll[models.Plan](ctx, s.db,
		"SELECT * FROM plans WHERE owner_id = $owner ORDER BY created_at DESC",
		map[string]any{"owner": owner})
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *SurrealStore) ListPublicPlans(ctx context.Context, query string) ([]*models.Plan, error) {
	q := "SELECT * FROM plans ORDER BY created_at DESC"
	params := map[string]any{}
	if term := strings.TrimSpace(query); term != "" {
		q = `SELECT * FROM plans WHERE
	string::contains(string::lowercase(title), $term) OR
	string::contains(string::lowercase(focus ?? ''), $term) OR
	string::contains(string::lowercase(outcome ?? ''), $term)
ORDER BY created_at DESC`
		params["term"] = strings.ToLower(term)
	}
	plans, err := selectAll[models.Plan](ctx, s.db, q, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list public plans: %w", err)
	}
	return plans, nil
}

func (s *SurrealStore) UpdatePlan(ctx context.Context, plan *models.Plan) (bool, error) {
	updated, err := selectAll[models.Plan](ctx, s.db,
		"UPDATE $plan MERGE $patch WHERE owner_id = $owner RETURN AFTER",
		map[string]any{
			"plan":  plan.ID.RecordID(),
			"owner": plan.OwnerID,
			"patch": map[string]any{
				"title":                    plan.Title,
				"focus":                    plan.Focus,
				"outcome":                  plan.Outcome,
				"estimated_duration_weeks": plan.EstimatedDurationWeeks,
			},
		})
	if err != nil {
		return false, fmt.Errorf("failed to update plan: %w", err)
	}
	return len(updated) > 0, nil
}

func (s *SurrealStore) DeletePlan(ctx context.Context, id models.PlanID) error {
	const query = `
BEGIN TRANSACTION;
LET $milestones = (SELECT VALUE id FROM milestones WHERE plan_id = $plan);
LET $steps = (SELECT VALUE id FROM steps WHERE milestone_id IN $milestones);
DELETE resources WHERE step_id IN $steps;
DELETE steps WHERE milestone_id IN $milestones;
DELETE milestone_progresses WHERE plan_id = $plan;
DELETE milestones WHERE plan_id = $plan;
DELETE bookmarks WHERE plan_id = $plan;
DELETE generations WHERE plan_id = $plan;
DELETE $plan;
COMMIT TRANSACTION;
`
	if err := s.exec(ctx, query, map[string]any{"plan": id.RecordID()}); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}
