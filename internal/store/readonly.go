package store

import (
	"context"
	"errors"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

// ErrReadOnly is returned by every write while the application is in
// maintenance (read-only) mode.
var ErrReadOnly = errors.New("operation denied: application is in read-only mode")

// ReadOnlyStore wraps a Store and rejects writes while isReadOnly reports
// true. Reads always pass through. Sessions are the exception: login and
// logout keep working so that readers can still authenticate.
type ReadOnlyStore struct {
	Store
	isReadOnly func() bool
}

func NewReadOnlyStore(store Store, isReadOnly func() bool) Store {
	return &ReadOnlyStore{
		Store:      store,
		isReadOnly: isReadOnly,
	}
}

// Unwrap returns the underlying store.
func (r *ReadOnlyStore) Unwrap() Store {
	return r.Store
}

func (r *ReadOnlyStore) checkReadOnly() error {
	if r.isReadOnly() {
		return ErrReadOnly
	}
	return nil
}

func (r *ReadOnlyStore) CreatePlan(ctx context.Context, plan *models.Plan) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreatePlan(ctx, plan)
}

func (r *ReadOnlyStore) UpdatePlan(ctx context.Context, plan *models.Plan) (bool, error) {
	if err := r.checkReadOnly(); err != nil {
		return false, err
	}
	return r.Store.UpdatePlan(ctx, plan)
}

func (r *ReadOnlyStore) DeletePlan(ctx context.Context, id models.PlanID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeletePlan(ctx, id)
}

func (r *ReadOnlyStore) CreateMilestone(ctx context.Context, milestone *models.Milestone) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateMilestone(ctx, milestone)
}

func (r *ReadOnlyStore) CreateMilestones(ctx context.Context, milestones []*models.Milestone) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateMilestones(ctx, milestones)
}

func (r *ReadOnlyStore) UpdateMilestone(ctx context.Context, milestone *models.Milestone) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateMilestone(ctx, milestone)
}

func (r *ReadOnlyStore) DeleteMilestone(ctx context.Context, id models.MilestoneID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteMilestone(ctx, id)
}

func (r *ReadOnlyStore) CreateStep(ctx context.Context, step *models.Step) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateStep(ctx, step)
}

func (r *ReadOnlyStore) CreateSteps(ctx context.Context, steps []*models.Step) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateSteps(ctx, steps)
}

func (r *ReadOnlyStore) UpdateStep(ctx context.Context, step *models.Step) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateStep(ctx, step)
}

func (r *ReadOnlyStore) DeleteStep(ctx context.Context, id models.StepID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteStep(ctx, id)
}

func (r *ReadOnlyStore) CreateResource(ctx context.Context, resource *models.Resource) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateResource(ctx, resource)
}

func (r *ReadOnlyStore) CreateResources(ctx context.Context, resources []*models.Resource) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateResources(ctx, resources)
}

func (r *ReadOnlyStore) UpdateResource(ctx context.Context, resource *models.Resource) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateResource(ctx, resource)
}

func (r *ReadOnlyStore) DeleteResource(ctx context.Context, id models.ResourceID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteResource(ctx, id)
}

func (r *ReadOnlyStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateUser(ctx, user)
}

func (r *ReadOnlyStore) AddBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.AddBookmark(ctx, bookmark)
}

func (r *ReadOnlyStore) RemoveBookmark(ctx context.Context, userID models.UserID, planID models.PlanID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.RemoveBookmark(ctx, userID, planID)
}

func (r *ReadOnlyStore) SetMilestoneProgress(ctx context.Context, progress *models.MilestoneProgress) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.SetMilestoneProgress(ctx, progress)
}

func (r *ReadOnlyStore) ClearMilestoneProgress(ctx context.Context, userID models.UserID, milestoneID models.MilestoneID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.ClearMilestoneProgress(ctx, userID, milestoneID)
}

func (r *ReadOnlyStore) CreateGeneration(ctx context.Context, generation *models.Generation) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateGeneration(ctx, generation)
}
