package roadmap

import (
	"context"

	"github.com/google/uuid"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

// GuardStore is the part of the store ownership checks need.
type GuardStore interface {
	GetPlan(ctx context.Context, id models.PlanID) (*models.Plan, error)
	GetMilestone(ctx context.Context, id models.MilestoneID) (*models.Milestone, error)
	GetStep(ctx context.Context, id models.StepID) (*models.Step, error)
	GetResource(ctx context.Context, id models.ResourceID) (*models.Resource, error)
}

// Guard authorizes mutations by following parent links up to the plan and
// comparing its owner with the requester. A missing entity and someone
// else's entity both produce ErrNotFound.
type Guard struct {
	store GuardStore
}

func NewGuard(store GuardStore) *Guard {
	return &Guard{store: store}
}

type level int

const (
	levelResource level = iota
	levelStep
	levelMilestone
	levelPlan
)

// chain holds whatever the walk loaded on its way to the plan.
type chain struct {
	resource  *models.Resource
	step      *models.Step
	milestone *models.Milestone
	plan      *models.Plan
}

// walk starts at (lvl, id) and loads one parent per iteration until it
// reaches the plan.
func (g *Guard) walk(ctx context.Context, lvl level, id uuid.UUID, owner models.UserID) (*chain, error) {
	var c chain
	for {
		switch lvl {
		case levelResource:
			r, err := g.store.GetResource(ctx, models.NewResourceIDFromUUID(id))
			if err != nil {
				return nil, storeError("read resource", models.PlanID{}, err)
			}
			if r == nil {
				return nil, ErrNotFound
			}
			c.resource = r
			lvl, id = levelStep, r.StepID.UUID()
		case levelStep:
			s, err := g.store.GetStep(ctx, models.NewStepIDFromUUID(id))
			if err != nil {
				return nil, storeError("read step", models.PlanID{}, err)
			}
			if s == nil {
				return nil, ErrNotFound
			}
			c.step = s
			lvl, id = levelMilestone, s.MilestoneID.UUID()
		case levelMilestone:
			m, err := g.store.GetMilestone(ctx, models.NewMilestoneIDFromUUID(id))
			if err != nil {
				return nil, storeError("read milestone", models.PlanID{}, err)
			}
			if m == nil {
				return nil, ErrNotFound
			}
			c.milestone = m
			lvl, id = levelPlan, m.PlanID.UUID()
		case levelPlan:
			p, err := g.store.GetPlan(ctx, models.NewPlanIDFromUUID(id))
			if err != nil {
				return nil, storeError("read plan", models.PlanID{}, err)
			}
			if p == nil || p.OwnerID != owner {
				return nil, ErrNotFound
			}
			c.plan = p
			return &c, nil
		}
	}
}

// Plan returns the plan if owner owns it.
func (g *Guard) Plan(ctx context.Context, id models.PlanID, owner models.UserID) (*models.Plan, error) {
	c, err := g.walk(ctx, levelPlan, id.UUID(), owner)
	if err != nil {
		return nil, err
	}
	return c.plan, nil
}

// Milestone returns the milestone and its plan if owner owns the plan.
func (g *Guard) Milestone(ctx context.Context, id models.MilestoneID, owner models.UserID) (*models.Milestone, *models.Plan, error) {
	c, err := g.walk(ctx, levelMilestone, id.UUID(), owner)
	if err != nil {
		return nil, nil, err
	}
	return c.milestone, c.plan, nil
}

func (g *Guard) Step(ctx context.Context, id models.StepID, owner models.UserID) (*models.Step, *models.Plan, error) {
	c, err := g.walk(ctx, levelStep, id.UUID(), owner)
	if err != nil {
		return nil, nil, err
	}
	return c.step, c.plan, nil
}

func (g *Guard) Resource(ctx context.Context, id models.ResourceID, owner models.UserID) (*models.Resource, *models.Plan, error) {
	c, err := g.walk(ctx, levelResource, id.UUID(), owner)
	if err != nil {
		return nil, nil, err
	}
	return c.resource, c.plan, nil
}
