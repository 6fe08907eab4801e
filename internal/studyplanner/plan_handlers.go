package studyplanner

import (
	"net/http"

	"github.com/MDAnandaB35/study-planner/internal/models"
	"github.com/MDAnandaB35/study-planner/internal/roadmap"
)

// generateRequest is the body of POST /ai/complete.
type generateRequest struct {
	Focus   string `json:"focus"`
	Outcome string `json:"outcome"`
}

// handleComplete asks the model for a roadmap and stores it for the caller.
// A store failure after the plan row was written still reports its plan_id.
func (a *App) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(w, r, &req); err != nil {
		a.respondFailure(w, r, err)
		return
	}

	user := caller(r)
	generated, err := a.roadmaps.Generate(r.Context(), user.UserID, req.Focus, req.Outcome)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{
		"plan_id": generated.PlanID,
		"title":   generated.Title,
		"roadmap": generated.Document.Raw,
		"model":   generated.Model,
		"usage":   generated.Usage,
	})
}

func (a *App) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := a.roadmaps.ListPlans(r.Context(), caller(r).UserID)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"plans": plans})
}

// handleLatestPlan returns {"plan": null} when the caller has no plan yet.
func (a *App) handleLatestPlan(w http.ResponseWriter, r *http.Request) {
	user := caller(r)
	tree, err := a.roadmaps.Reader().ReadLatest(r.Context(), user.UserID)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	if tree == nil {
		respondOK(w, http.StatusOK, envelope{"plan": nil})
		return
	}
	a.respondTree(w, r, tree)
}

func (a *App) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParsePlanID, "plan")
	if !ok {
		return
	}
	tree, err := a.roadmaps.Reader().ReadOwnedPlan(r.Context(), id, caller(r).UserID)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	a.respondTree(w, r, tree)
}

// respondTree sends a plan tree with the caller's completed milestones.
func (a *App) respondTree(w http.ResponseWriter, r *http.Request, tree *roadmap.Tree) {
	user := caller(r)
	done, err := a.roadmaps.CompletedMilestones(r.Context(), user.UserID, tree.ID)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{
		"plan":                 tree,
		"completed_milestones": done,
	})
}

func (a *App) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParsePlanID, "plan")
	if !ok {
		return
	}
	var patch roadmap.PlanPatch
	if err := decodeBody(w, r, &patch); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	plan, err := a.roadmaps.UpdatePlan(r.Context(), caller(r).UserID, id, patch)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"plan": plan})
}

func (a *App) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParsePlanID, "plan")
	if !ok {
		return
	}
	if err := a.roadmaps.DeletePlan(r.Context(), caller(r).UserID, id); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"message": "Plan deleted"})
}

func (a *App) handleAppendMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParsePlanID, "plan")
	if !ok {
		return
	}
	var in roadmap.MilestoneInput
	if err := decodeBody(w, r, &in); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	milestone, err := a.roadmaps.AppendMilestone(r.Context(), caller(r).UserID, id, in)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, envelope{"milestone": milestone})
}

func (a *App) handleUpdateMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParseMilestoneID, "milestone")
	if !ok {
		return
	}
	var patch roadmap.MilestonePatch
	if err := decodeBody(w, r, &patch); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	milestone, err := a.roadmaps.UpdateMilestone(r.Context(), caller(r).UserID, id, patch)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"milestone": milestone})
}

func (a *App) handleDeleteMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParseMilestoneID, "milestone")
	if !ok {
		return
	}
	if err := a.roadmaps.DeleteMilestone(r.Context(), caller(r).UserID, id); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"message": "Milestone deleted"})
}

func (a *App) handleAppendStep(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParseMilestoneID, "milestone")
	if !ok {
		return
	}
	var in roadmap.StepInput
	if err := decodeBody(w, r, &in); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	step, err := a.roadmaps.AppendStep(r.Context(), caller(r).UserID, id, in)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, envelope{"step": step})
}

func (a *App) handleUpdateStep(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParseStepID, "step")
	if !ok {
		return
	}
	var patch roadmap.StepPatch
	if err := decodeBody(w, r, &patch); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	step, err := a.roadmaps.UpdateStep(r.Context(), caller(r).UserID, id, patch)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"step": step})
}

func (a *App) handleDeleteStep(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParseStepID, "step")
	if !ok {
		return
	}
	if err := a.roadmaps.DeleteStep(r.Context(), caller(r).UserID, id); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"message": "Step deleted"})
}

func (a *App) handleAppendResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParseStepID, "step")
	if !ok {
		return
	}
	var in roadmap.ResourceInput
	if err := decodeBody(w, r, &in); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	resource, err := a.roadmaps.AppendResource(r.Context(), caller(r).UserID, id, in)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, envelope{"resource": resource})
}

func (a *App) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParseResourceID, "resource")
	if !ok {
		return
	}
	var patch roadmap.ResourcePatch
	if err := decodeBody(w, r, &patch); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	resource, err := a.roadmaps.UpdateResource(r.Context(), caller(r).UserID, id, patch)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"resource": resource})
}

func (a *App) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParseResourceID, "resource")
	if !ok {
		return
	}
	if err := a.roadmaps.DeleteResource(r.Context(), caller(r).UserID, id); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"message": "Resource deleted"})
}
