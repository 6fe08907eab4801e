package studyplanner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Handler returns the HTTP API.
//
// Public:
//
//	GET    /                                  - service banner
//	GET    /health, /api/health               - health check
//	POST   /auth/signup                       - register
//	POST   /auth/login                        - issue a session (cookie and token)
//	POST   /auth/logout                       - end the session
//	GET    /ai/public/plans?q=                - every plan, optionally searched
//	GET    /ai/public/plans/{id}              - any plan tree with its author
//
// Authenticated (access_token cookie or Bearer token):
//
//	GET    /auth/me                           - current identity
//	POST   /ai/complete                       - generate and store a roadmap
//	GET    /ai/plans                          - own plans with progress
//	GET    /ai/plans/latest                   - newest own plan tree
//	GET    /ai/plans/{id}                     - own plan tree
//	PUT    /ai/plans/{id}                     - edit a plan
//	DELETE /ai/plans/{id}                     - delete a plan and its tree
//	POST   /ai/plans/{id}/milestones          - append a milestone
//	PUT    /ai/milestones/{id}                - edit a milestone
//	DELETE /ai/milestones/{id}                - delete a milestone
//	POST   /ai/milestones/{id}/steps          - append a step
//	PUT    /ai/milestones/{id}/progress       - mark a milestone done or not
//	PUT    /ai/steps/{id}                     - edit a step
//	DELETE /ai/steps/{id}                     - delete a step
//	POST   /ai/steps/{id}/resources           - append a resource
//	PUT    /ai/resources/{id}                 - edit a resource
//	DELETE /ai/resources/{id}                 - delete a resource
//	GET    /ai/bookmarks                      - bookmarked plans with progress
//	POST   /ai/bookmarks/{id}                 - bookmark a plan
//	DELETE /ai/bookmarks/{id}                 - remove a bookmark
func (a *App) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", a.handleIndex).Methods("GET")
	router.HandleFunc("/health", a.handleHealth).Methods("GET")
	router.HandleFunc("/api/health", a.handleHealth).Methods("GET")

	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", a.handleSignUp).Methods("POST")
	auth.HandleFunc("/login", a.handleLogin).Methods("POST")
	auth.HandleFunc("/logout", a.handleLogout).Methods("POST")
	auth.HandleFunc("/me", a.requireAuth(a.handleMe)).Methods("GET")

	ai := router.PathPrefix("/ai").Subrouter()
	ai.HandleFunc("/complete", a.requireAuth(a.handleComplete)).Methods("POST")

	// "latest" must be registered before {id}.
	ai.HandleFunc("/plans", a.requireAuth(a.handleListPlans)).Methods("GET")
	ai.HandleFunc("/plans/latest", a.requireAuth(a.handleLatestPlan)).Methods("GET")
	ai.HandleFunc("/plans/{id}", a.requireAuth(a.handleGetPlan)).Methods("GET")
	ai.HandleFunc("/plans/{id}", a.requireAuth(a.handleUpdatePlan)).Methods("PUT")
	ai.HandleFunc("/plans/{id}", a.requireAuth(a.handleDeletePlan)).Methods("DELETE")
	ai.HandleFunc("/plans/{id}/milestones", a.requireAuth(a.handleAppendMilestone)).Methods("POST")

	ai.HandleFunc("/milestones/{id}", a.requireAuth(a.handleUpdateMilestone)).Methods("PUT")
	ai.HandleFunc("/milestones/{id}", a.requireAuth(a.handleDeleteMilestone)).Methods("DELETE")
	ai.HandleFunc("/milestones/{id}/steps", a.requireAuth(a.handleAppendStep)).Methods("POST")
	ai.HandleFunc("/milestones/{id}/progress", a.requireAuth(a.handleSetProgress)).Methods("PUT")

	ai.HandleFunc("/steps/{id}", a.requireAuth(a.handleUpdateStep)).Methods("PUT")
	ai.HandleFunc("/steps/{id}", a.requireAuth(a.handleDeleteStep)).Methods("DELETE")
	ai.HandleFunc("/steps/{id}/resources", a.requireAuth(a.handleAppendResource)).Methods("POST")

	ai.HandleFunc("/resources/{id}", a.requireAuth(a.handleUpdateResource)).Methods("PUT")
	ai.HandleFunc("/resources/{id}", a.requireAuth(a.handleDeleteResource)).Methods("DELETE")

	ai.HandleFunc("/public/plans", a.handleListPublicPlans).Methods("GET")
	ai.HandleFunc("/public/plans/{id}", a.handleGetPublicPlan).Methods("GET")

	ai.HandleFunc("/bookmarks", a.requireAuth(a.handleListBookmarks)).Methods("GET")
	ai.HandleFunc("/bookmarks/{id}", a.requireAuth(a.handleAddBookmark)).Methods("POST")
	ai.HandleFunc("/bookmarks/{id}", a.requireAuth(a.handleRemoveBookmark)).Methods("DELETE")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return a.withRecover(a.withLogging(a.withCORS(router)))
}

// Run serves the API until ctx is cancelled, then allows in-flight requests
// up to five seconds to finish.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	addr := fmt.Sprintf(":%s", a.config.ServerPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.log.Info().
		Str("addr", addr).
		Str("backend", a.config.Backend).
		Bool("read_only", a.IsReadOnly()).
		Msg("starting study planner server")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
