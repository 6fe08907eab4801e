package studyplanner

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MDAnandaB35/study-planner/internal/completion"
	"github.com/MDAnandaB35/study-planner/internal/identity"
	"github.com/MDAnandaB35/study-planner/internal/roadmap"
	"github.com/MDAnandaB35/study-planner/internal/store"
)

// envelope is the body of every response. success is filled in by the
// respond helpers.
type envelope map[string]any

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

func respondOK(w http.ResponseWriter, status int, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = true
	respondJSON(w, status, body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{"success": false, "error": message})
}

// respondFailure maps an error from the service layer to a status code and
// an error envelope. Unexpected errors are logged and reported as 500.
func (a *App) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, body := a.failure(err)
	if status >= http.StatusInternalServerError {
		a.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	}
	body["success"] = false
	respondJSON(w, status, body)
}

func (a *App) failure(err error) (int, envelope) {
	var (
		validation  *roadmap.ValidationError
		malformed   *roadmap.MalformedResponseError
		persistence *roadmap.PersistenceError
		upstream    *completion.RequestError
	)

	switch {
	case errors.Is(err, store.ErrReadOnly):
		return http.StatusServiceUnavailable, envelope{"error": store.ErrReadOnly.Error()}
	case errors.Is(err, identity.ErrMissingCredential):
		return http.StatusUnauthorized, envelope{"error": identity.ErrMissingCredential.Error()}
	case errors.Is(err, identity.ErrUnauthenticated):
		return http.StatusUnauthorized, envelope{"error": identity.ErrUnauthenticated.Error()}
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized, envelope{"error": err.Error()}
	case errors.Is(err, identity.ErrMissingFields), errors.Is(err, identity.ErrEmailTaken):
		return http.StatusBadRequest, envelope{"error": err.Error()}
	case errors.As(err, &validation):
		return http.StatusBadRequest, envelope{"error": validation.Message, "field": validation.Field}
	case errors.Is(err, roadmap.ErrNotFound):
		return http.StatusNotFound, envelope{"error": "Not found"}
	case errors.As(err, &malformed):
		return http.StatusBadGateway, envelope{"error": roadmap.ErrMalformedModelResponse.Error(), "raw": malformed.Raw}
	case errors.Is(err, roadmap.ErrEmptyModelResponse):
		return http.StatusBadGateway, envelope{"error": err.Error()}
	case errors.Is(err, completion.ErrNotConfigured):
		return http.StatusInternalServerError, envelope{"error": err.Error()}
	case errors.As(err, &upstream):
		return upstream.HTTPStatus(), envelope{"error": upstream.Message}
	case errors.As(err, &persistence):
		body := envelope{"error": persistence.Error()}
		if persistence.Partial() {
			body["plan_id"] = persistence.PlanID
		}
		return http.StatusInternalServerError, body
	default:
		return http.StatusInternalServerError, envelope{"error": "Internal server error"}
	}
}

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// decodeBody reads a JSON request body of at most maxBodyBytes into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &roadmap.ValidationError{Field: "body", Message: "Invalid request payload"}
	}
	return nil
}
