package studyplanner

import (
	"net/http"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func (a *App) handleListPublicPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := a.roadmaps.ListPublicPlans(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"plans": plans})
}

func (a *App) handleGetPublicPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParsePlanID, "plan")
	if !ok {
		return
	}
	tree, err := a.roadmaps.Reader().ReadPublicPlan(r.Context(), id)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"plan": tree})
}

func (a *App) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	plans, err := a.roadmaps.ListBookmarks(r.Context(), caller(r).UserID)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"plans": plans})
}

func (a *App) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParsePlanID, "plan")
	if !ok {
		return
	}
	if err := a.roadmaps.AddBookmark(r.Context(), caller(r).UserID, id); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, envelope{"message": "Bookmark added"})
}

func (a *App) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParsePlanID, "plan")
	if !ok {
		return
	}
	if err := a.roadmaps.RemoveBookmark(r.Context(), caller(r).UserID, id); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{"message": "Bookmark removed"})
}

type progressRequest struct {
	Completed bool `json:"completed"`
}

func (a *App) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.ParseMilestoneID, "milestone")
	if !ok {
		return
	}
	var req progressRequest
	if err := decodeBody(w, r, &req); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	progress, err := a.roadmaps.SetMilestoneDone(r.Context(), caller(r).UserID, id, req.Completed)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, envelope{
		"milestone_id": id,
		"completed":    req.Completed,
		"progress":     progress,
	})
}
