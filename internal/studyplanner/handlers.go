package studyplanner

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, envelope{
		"message": "Study planner API running",
		"endpoints": map[string]any{
			"auth": map[string]string{
				"signup": "POST /auth/signup",
				"login":  "POST /auth/login",
				"logout": "POST /auth/logout",
				"me":     "GET /auth/me",
			},
			"roadmaps": map[string]string{
				"generate": "POST /ai/complete",
				"plans":    "GET /ai/plans",
				"public":   "GET /ai/public/plans",
			},
		},
	})
}

// handleHealth reports liveness and the store mode.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, envelope{
		"status":    "healthy",
		"backend":   a.config.Backend,
		"read_only": a.IsReadOnly(),
	})
}

// pathID parses the {id} route variable. It writes a 400 response and
// reports false when the value is not a valid id.
func pathID[T any](w http.ResponseWriter, r *http.Request, parse func(string) (T, error), what string) (T, bool) {
	id, err := parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid "+what+" ID")
		return id, false
	}
	return id, true
}
