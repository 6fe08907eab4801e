package roadmap

import (
	"context"
	"time"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

// Progress counts completed milestones of one plan for one user.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// PlanSummary is a plan row for listings, without its tree.
type PlanSummary struct {
	models.Plan
	AuthorEmail string    `json:"author_email,omitempty"`
	Progress    *Progress `json:"progress,omitempty"`
}

// ListPlans lists the owner's plans, newest first, with the owner's progress.
func (s *Service) ListPlans(ctx context.Context, owner models.UserID) ([]*PlanSummary, error) {
	plans, err := s.store.ListPlans(ctx, owner)
	if err != nil {
		return nil, storeError("list plans", models.PlanID{}, err)
	}
	return s.summarize(ctx, plans, owner, false)
}

// ListPublicPlans lists every plan, optionally filtered by a search term
// over title, focus and outcome, with the author's email.
func (s *Service) ListPublicPlans(ctx context.Context, query string) ([]*PlanSummary, error) {
	plans, err := s.store.ListPublicPlans(ctx, query)
	if err != nil {
		return nil, storeError("list public plans", models.PlanID{}, err)
	}
	return s.summarize(ctx, plans, models.UserID{}, true)
}

// ListBookmarks lists the plans user bookmarked, most recent bookmark first.
func (s *Service) ListBookmarks(ctx context.Context, user models.UserID) ([]*PlanSummary, error) {
	plans, err := s.store.ListBookmarkedPlans(ctx, user)
	if err != nil {
		return nil, storeError("list bookmarks", models.PlanID{}, err)
	}
	return s.summarize(ctx, plans, user, true)
}

// summarize attaches progress for viewer (unless zero) and, when authors is
// set, the owner email resolved once per owner.
func (s *Service) summarize(ctx context.Context, plans []*models.Plan, viewer models.UserID, authors bool) ([]*PlanSummary, error) {
	out := make([]*PlanSummary, len(plans))
	for i, p := range plans {
		out[i] = &PlanSummary{Plan: *p}
	}

	if authors {
		emails := make(map[models.UserID]string)
		for _, summary := range out {
			email, ok := emails[summary.OwnerID]
			if !ok {
				email = s.reader.AuthorEmail(ctx, summary.OwnerID)
				emails[summary.OwnerID] = email
			}
			summary.AuthorEmail = email
		}
	}

	if viewer.IsZero() || len(plans) == 0 {
		return out, nil
	}
	progress, err := s.progress(ctx, viewer, plans)
	if err != nil {
		return nil, err
	}
	for _, summary := range out {
		summary.Progress = progress[summary.ID]
	}
	return out, nil
}

func (s *Service) progress(ctx context.Context, user models.UserID, plans []*models.Plan) (map[models.PlanID]*Progress, error) {
	ids := make([]models.PlanID, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}

	totals, err := s.store.CountMilestones(ctx, ids)
	if err != nil {
		return nil, storeError("count milestones", models.PlanID{}, err)
	}
	done, err := s.store.ListMilestoneProgress(ctx, user, ids)
	if err != nil {
		return nil, storeError("read progress", models.PlanID{}, err)
	}

	out := make(map[models.PlanID]*Progress, len(ids))
	for _, id := range ids {
		out[id] = &Progress{Total: totals[id]}
	}
	for _, d := range done {
		if p, ok := out[d.PlanID]; ok {
			p.Completed++
		}
	}
	return out, nil
}

// PlanProgress returns user's progress on a single plan.
func (s *Service) PlanProgress(ctx context.Context, user models.UserID, planID models.PlanID) (*Progress, error) {
	progress, err := s.progress(ctx, user, []*models.Plan{{ID: planID}})
	if err != nil {
		return nil, err
	}
	return progress[planID], nil
}

// CompletedMilestones lists the milestones of a plan user marked done.
func (s *Service) CompletedMilestones(ctx context.Context, user models.UserID, planID models.PlanID) ([]models.MilestoneID, error) {
	done, err := s.store.ListMilestoneProgress(ctx, user, []models.PlanID{planID})
	if err != nil {
		return nil, storeError("read progress", models.PlanID{}, err)
	}
	ids := make([]models.MilestoneID, len(done))
	for i, d := range done {
		ids[i] = d.MilestoneID
	}
	return ids, nil
}

// SetMilestoneDone marks or unmarks a milestone as completed by user. Any
// readable plan can be tracked, so no ownership check applies. It returns
// the plan's updated progress.
func (s *Service) SetMilestoneDone(ctx context.Context, user models.UserID, milestoneID models.MilestoneID, done bool) (*Progress, error) {
	milestone, err := s.store.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, storeError("read milestone", models.PlanID{}, err)
	}
	if milestone == nil {
		return nil, ErrNotFound
	}

	if done {
		err = s.store.SetMilestoneProgress(ctx, &models.MilestoneProgress{
			UserID:      user,
			PlanID:      milestone.PlanID,
			MilestoneID: milestoneID,
			CompletedAt: time.Now().UTC(),
		})
	} else {
		err = s.store.ClearMilestoneProgress(ctx, user, milestoneID)
	}
	if err != nil {
		return nil, storeError("save progress", models.PlanID{}, err)
	}
	return s.PlanProgress(ctx, user, milestone.PlanID)
}

// AddBookmark bookmarks any existing plan. Bookmarking twice is a no-op.
func (s *Service) AddBookmark(ctx context.Context, user models.UserID, planID models.PlanID) error {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return storeError("read plan", models.PlanID{}, err)
	}
	if plan == nil {
		return ErrNotFound
	}
	if err := s.store.AddBookmark(ctx, &models.Bookmark{UserID: user, PlanID: planID}); err != nil {
		return storeError("add bookmark", models.PlanID{}, err)
	}
	return nil
}

func (s *Service) RemoveBookmark(ctx context.Context, user models.UserID, planID models.PlanID) error {
	if err := s.store.RemoveBookmark(ctx, user, planID); err != nil {
		return storeError("remove bookmark", models.PlanID{}, err)
	}
	return nil
}
