package roadmap

import (
	"context"
	"fmt"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

const (
	DefaultPlanTitle    = "Study Plan"
	DefaultResourceType = models.ResourceLink
)

// Writer is the part of the store ingestion needs.
type Writer interface {
	CreatePlan(ctx context.Context, plan *models.Plan) error
	CreateMilestones(ctx context.Context, milestones []*models.Milestone) error
	CreateSteps(ctx context.Context, steps []*models.Step) error
	CreateResources(ctx context.Context, resources []*models.Resource) error
}

// Input is what the user asked for. Focus and Outcome back-fill the plan
// when the model leaves them out.
type Input struct {
	Owner   models.UserID
	Focus   string
	Outcome string
}

// Result identifies the plan a Persist call wrote.
type Result struct {
	PlanID models.PlanID
	Title  string
}

// Persister writes parsed roadmaps through a Writer.
type Persister struct {
	store Writer
}

// NewPersister returns a Persister writing to store.
func NewPersister(store Writer) *Persister {
	return &Persister{store: store}
}

// Persist writes doc top-down: the plan, then all milestones in one batch,
// then for each milestone its steps, then for each of those steps its
// resources. Order indices are array positions.
//
// Writes are not wrapped in a transaction. When a batch fails after the plan
// row exists, Persist returns both the Result and a *PersistenceError
// carrying the plan id; the rows already written stay in place.
func (p *Persister) Persist(ctx context.Context, doc *Document, in Input) (*Result, error) {
	plan := &models.Plan{
		ID:                     models.NewPlanID(),
		OwnerID:                in.Owner,
		Title:                  doc.PlanTitle.TextOr(DefaultPlanTitle),
		Focus:                  doc.Focus.TextOr(in.Focus),
		Outcome:                doc.Outcome.TextOr(in.Outcome),
		EstimatedDurationWeeks: doc.EstimatedDurationWeeks.Int(),
	}
	if err := p.store.CreatePlan(ctx, plan); err != nil {
		return nil, storeError("plan", models.PlanID{}, err)
	}
	result := &Result{PlanID: plan.ID, Title: plan.Title}

	milestones := make([]*models.Milestone, len(doc.Milestones))
	for i, m := range doc.Milestones {
		milestones[i] = &models.Milestone{
			ID:                models.NewMilestoneID(),
			PlanID:            plan.ID,
			Title:             m.Title.TextOr(fmt.Sprintf("Milestone %d", i+1)),
			Description:       m.Description.TextOrNil(),
			EstimatedDuration: m.EstimatedDuration.TextOrNil(),
			OrderIndex:        i,
		}
	}
	if len(milestones) > 0 {
		if err := p.store.CreateMilestones(ctx, milestones); err != nil {
			return result, storeError("milestones", plan.ID, err)
		}
	}

	for i, m := range doc.Milestones {
		if len(m.Steps) == 0 {
			continue
		}
		steps := make([]*models.Step, len(m.Steps))
		for j, s := range m.Steps {
			steps[j] = &models.Step{
				ID:          models.NewStepID(),
				MilestoneID: milestones[i].ID,
				Title:       s.Title.TextOr(fmt.Sprintf("Step %d", j+1)),
				Description: s.Description.TextOrNil(),
				OrderIndex:  j,
			}
		}
		if err := p.store.CreateSteps(ctx, steps); err != nil {
			return result, storeError("steps", plan.ID, err)
		}

		for j, s := range m.Steps {
			if len(s.Resources) == 0 {
				continue
			}
			resources := make([]*models.Resource, len(s.Resources))
			for k, r := range s.Resources {
				resources[k] = &models.Resource{
					ID:         models.NewResourceID(),
					StepID:     steps[j].ID,
					Type:       resourceType(r.Type.TextOr("")),
					Title:      r.Title.TextOrNil(),
					URL:        r.URL.TextOrNil(),
					OrderIndex: k,
				}
			}
			if err := p.store.CreateResources(ctx, resources); err != nil {
				return result, storeError("resources", plan.ID, err)
			}
		}
	}

	return result, nil
}
