package roadmap

import (
	"errors"
	"fmt"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

var (
	// ErrNotFound covers both missing entities and entities owned by someone
	// else. Callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	ErrEmptyModelResponse     = errors.New("model returned an empty response")
	ErrMalformedModelResponse = errors.New("model returned malformed JSON")
	ErrValidation             = errors.New("validation failed")
	ErrPersistence            = errors.New("persistence failed")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// MalformedResponseError keeps the model text that failed to decode.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedModelResponse, e.Err)
}

func (e *MalformedResponseError) Unwrap() []error {
	return []error{ErrMalformedModelResponse, e.Err}
}

// PersistenceError is a store failure. Error returns the store's message as
// is. PlanID is set once the plan row exists, which during ingestion means
// the failure left a partially written tree behind.
type PersistenceError struct {
	Stage  string
	PlanID models.PlanID
	Err    error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// Partial reports whether rows were left behind by the failed write.
func (e *PersistenceError) Partial() bool {
	return !e.PlanID.IsZero()
}

func storeError(stage string, planID models.PlanID, err error) error {
	return &PersistenceError{Stage: stage, PlanID: planID, Err: err}
}
