package roadmap

import (
	"cmp"
	"context"
	"slices"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

// UnknownAuthor is shown when a public plan's owner cannot be resolved.
const UnknownAuthor = "Unknown"

// TreeStore is the part of the store tree reads need.
type TreeStore interface {
	GetPlan(ctx context.Context, id models.PlanID) (*models.Plan, error)
	LatestPlan(ctx context.Context, owner models.UserID) (*models.Plan, error)
	ListMilestones(ctx context.Context, planID models.PlanID) ([]*models.Milestone, error)
	ListSteps(ctx context.Context, milestoneIDs []models.MilestoneID) ([]*models.Step, error)
	ListResources(ctx context.Context, stepIDs []models.StepID) ([]*models.Resource, error)
}

// UserLookup resolves plan owners for public views.
type UserLookup interface {
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)
}

// Tree is a plan with its milestones, steps and resources nested in order.
type Tree struct {
	models.Plan
	AuthorEmail string           `json:"author_email,omitempty"`
	Milestones  []*MilestoneNode `json:"milestones"`
}

type MilestoneNode struct {
	models.Milestone
	Steps []*StepNode `json:"steps"`
}

type StepNode struct {
	models.Step
	Resources []*models.Resource `json:"resources"`
}

type Reader struct {
	store TreeStore
	users UserLookup
}

func NewReader(store TreeStore, users UserLookup) *Reader {
	return &Reader{store: store, users: users}
}

// ReadPlan reads any plan regardless of owner.
func (r *Reader) ReadPlan(ctx context.Context, id models.PlanID) (*Tree, error) {
	plan, err := r.store.GetPlan(ctx, id)
	if err != nil {
		return nil, storeError("read plan", models.PlanID{}, err)
	}
	if plan == nil {
		return nil, ErrNotFound
	}
	return r.readTree(ctx, plan)
}

// ReadOwnedPlan reads a plan only if owner owns it.
func (r *Reader) ReadOwnedPlan(ctx context.Context, id models.PlanID, owner models.UserID) (*Tree, error) {
	plan, err := r.store.GetPlan(ctx, id)
	if err != nil {
		return nil, storeError("read plan", models.PlanID{}, err)
	}
	if plan == nil || plan.OwnerID != owner {
		return nil, ErrNotFound
	}
	return r.readTree(ctx, plan)
}

// ReadLatest reads the owner's most recent plan. It returns nil, nil when
// the owner has no plans.
func (r *Reader) ReadLatest(ctx context.Context, owner models.UserID) (*Tree, error) {
	plan, err := r.store.LatestPlan(ctx, owner)
	if err != nil {
		return nil, storeError("read latest plan", models.PlanID{}, err)
	}
	if plan == nil {
		return nil, nil
	}
	return r.readTree(ctx, plan)
}

// ReadPublicPlan is ReadPlan plus the owner's email. A failed or empty owner
// lookup yields UnknownAuthor instead of an error.
func (r *Reader) ReadPublicPlan(ctx context.Context, id models.PlanID) (*Tree, error) {
	tree, err := r.ReadPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	tree.AuthorEmail = r.AuthorEmail(ctx, tree.OwnerID)
	return tree, nil
}

func (r *Reader) AuthorEmail(ctx context.Context, owner models.UserID) string {
	if r.users == nil {
		return UnknownAuthor
	}
	user, err := r.users.GetUser(ctx, owner)
	if err != nil || user == nil || user.Email == "" {
		return UnknownAuthor
	}
	return user.Email
}

func (r *Reader) readTree(ctx context.Context, plan *models.Plan) (*Tree, error) {
	tree := &Tree{Plan: *plan, Milestones: []*MilestoneNode{}}

	milestones, err := r.store.ListMilestones(ctx, plan.ID)
	if err != nil {
		return nil, storeError("read milestones", models.PlanID{}, err)
	}
	if len(milestones) == 0 {
		return tree, nil
	}
	slices.SortStableFunc(milestones, func(a, b *models.Milestone) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })

	milestoneIDs := make([]models.MilestoneID, len(milestones))
	for i, m := range milestones {
		milestoneIDs[i] = m.ID
	}
	steps, err := r.store.ListSteps(ctx, milestoneIDs)
	if err != nil {
		return nil, storeError("read steps", models.PlanID{}, err)
	}

	var resources []*models.Resource
	if len(steps) > 0 {
		stepIDs := make([]models.StepID, len(steps))
		for i, s := range steps {
			stepIDs[i] = s.ID
		}
		resources, err = r.store.ListResources(ctx, stepIDs)
		if err != nil {
			return nil, storeError("read resources", models.PlanID{}, err)
		}
	}

	resourcesByStep := make(map[models.StepID][]*models.Resource, len(steps))
	for _, res := range resources {
		resourcesByStep[res.StepID] = append(resourcesByStep[res.StepID], res)
	}
	stepsByMilestone := make(map[models.MilestoneID][]*StepNode, len(milestones))
	for _, s := range steps {
		children := resourcesByStep[s.ID]
		slices.SortStableFunc(children, func(a, b *models.Resource) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })
		if children == nil {
			children = []*models.Resource{}
		}
		stepsByMilestone[s.MilestoneID] = append(stepsByMilestone[s.MilestoneID], &StepNode{Step: *s, Resources: children})
	}

	tree.Milestones = make([]*MilestoneNode, len(milestones))
	for i, m := range milestones {
		children := stepsByMilestone[m.ID]
		slices.SortStableFunc(children, func(a, b *StepNode) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })
		if children == nil {
			children = []*StepNode{}
		}
		tree.Milestones[i] = &MilestoneNode{Milestone: *m, Steps: children}
	}
	return tree, nil
}
