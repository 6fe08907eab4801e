// Package store defines the persistence boundary of the study planner.
//
// [Store] covers the four roadmap collections (plans, milestones, steps,
// resources) plus the account, bookmark, progress and audit collections that
// surround them. Two implementations exist:
//
//   - [github.com/MDAnandaB35/study-planner/internal/store/gormstore.GormStore]
//     on PostgreSQL or SQLite through GORM, with ON DELETE CASCADE foreign keys
//   - [github.com/MDAnandaB35/study-planner/internal/store/surrealstore.SurrealStore]
//     on SurrealDB, deleting descendants explicitly inside one transaction
//
// Get methods return (nil, nil) when the row does not exist. List methods
// taking a set of parent ids return nothing, without querying, for an empty set.
// Siblings are always returned ascending by order index.
package store

import (
	"context"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

type Store interface {
	// Plans
	CreatePlan(ctx context.Context, plan *models.Plan) error
	GetPlan(ctx context.Context, id models.PlanID) (*models.Plan, error)
	// LatestPlan returns the most recently created plan of owner, or nil.
	LatestPlan(ctx context.Context, owner models.UserID) (*models.Plan, error)
	ListPlans(ctx context.Context, owner models.UserID) ([]*models.Plan, error)
	// ListPublicPlans lists every plan, newest first. A non-empty query keeps
	// plans whose title, focus or outcome contain it, case-insensitively.
	ListPublicPlans(ctx context.Context, query string) ([]*models.Plan, error)
	// UpdatePlan writes the editable columns of plan, filtered by both its id
	// and its owner. It reports whether a row matched.
	UpdatePlan(ctx context.Context, plan *models.Plan) (bool, error)
	DeletePlan(ctx context.Context, id models.PlanID) error

	// Milestones
	CreateMilestone(ctx context.Context, milestone *models.Milestone) error
	CreateMilestones(ctx context.Context, milestones []*models.Milestone) error
	GetMilestone(ctx context.Context, id models.MilestoneID) (*models.Milestone, error)
	ListMilestones(ctx context.Context, planID models.PlanID) ([]*models.Milestone, error)
	UpdateMilestone(ctx context.Context, milestone *models.Milestone) error
	DeleteMilestone(ctx context.Context, id models.MilestoneID) error
	// LastMilestoneOrder returns the highest order index in the plan, or -1.
	LastMilestoneOrder(ctx context.Context, planID models.PlanID) (int, error)
	// CountMilestones returns the number of milestones per plan.
	CountMilestones(ctx context.Context, planIDs []models.PlanID) (map[models.PlanID]int, error)

	// Steps
	CreateStep(ctx context.Context, step *models.Step) error
	CreateSteps(ctx context.Context, steps []*models.Step) error
	GetStep(ctx context.Context, id models.StepID) (*models.Step, error)
	ListSteps(ctx context.Context, milestoneIDs []models.MilestoneID) ([]*models.Step, error)
	UpdateStep(ctx context.Context, step *models.Step) error
	DeleteStep(ctx context.Context, id models.StepID) error
	LastStepOrder(ctx context.Context, milestoneID models.MilestoneID) (int, error)

	// Resources
	CreateResource(ctx context.Context, resource *models.Resource) error
	CreateResources(ctx context.Context, resources []*models.Resource) error
	GetResource(ctx context.Context, id models.ResourceID) (*models.Resource, error)
	ListResources(ctx context.Context, stepIDs []models.StepID) ([]*models.Resource, error)
	UpdateResource(ctx context.Context, resource *models.Resource) error
	DeleteResource(ctx context.Context, id models.ResourceID) error
	LastResourceOrder(ctx context.Context, stepID models.StepID) (int, error)

	// Accounts
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Bookmarks and progress
	// AddBookmark is idempotent per (user, plan).
	AddBookmark(ctx context.Context, bookmark *models.Bookmark) error
	RemoveBookmark(ctx context.Context, userID models.UserID, planID models.PlanID) error
	ListBookmarkedPlans(ctx context.Context, userID models.UserID) ([]*models.Plan, error)
	// SetMilestoneProgress records completion, replacing the timestamp of an
	// earlier record for the same (user, milestone).
	SetMilestoneProgress(ctx context.Context, progress *models.MilestoneProgress) error
	ClearMilestoneProgress(ctx context.Context, userID models.UserID, milestoneID models.MilestoneID) error
	ListMilestoneProgress(ctx context.Context, userID models.UserID, planIDs []models.PlanID) ([]*models.MilestoneProgress, error)

	// Audit
	CreateGeneration(ctx context.Context, generation *models.Generation) error

	Migrate(ctx context.Context) error
	Close() error
}
