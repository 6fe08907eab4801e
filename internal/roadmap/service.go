// Package roadmap turns model output into stored study plans and reads them
// back.
//
// Ingestion runs [Parse] over a completion response and hands the resulting
// [Document] to [Persister], which writes the plan, milestones, steps and
// resources top-down with order indices taken from array positions. [Reader]
// rebuilds the nested [Tree] from the four flat tables. [Guard] authorizes
// every mutation by walking from the entity up to its plan owner.
//
// [Service] ties these to a [store.Store] and a [completion.Requester] and
// adds the owner facing operations: generation, single-entity appends and
// edits, listings, bookmarks and progress. Every operation takes the
// requesting user explicitly.
package roadmap

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/MDAnandaB35/study-planner/internal/completion"
	"github.com/MDAnandaB35/study-planner/internal/models"
	"github.com/MDAnandaB35/study-planner/internal/store"
)

// DefaultMaxTokens leaves room for a full roadmap. The completion client's
// own default is sized for short answers.
const DefaultMaxTokens = 1500

type Service struct {
	store     store.Store
	completer completion.Requester
	options   completion.Options
	log       zerolog.Logger

	persister *Persister
	reader    *Reader
	guard     *Guard
}

func NewService(st store.Store, completer completion.Requester, options completion.Options, log zerolog.Logger) *Service {
	if options.MaxTokens <= 0 {
		options.MaxTokens = DefaultMaxTokens
	}
	if options.ResponseFormat == "" {
		options.ResponseFormat = completion.FormatJSONObject
	}
	return &Service{
		store:     st,
		completer: completer,
		options:   options,
		log:       log,
		persister: NewPersister(st),
		reader:    NewReader(st, st),
		guard:     NewGuard(st),
	}
}

func (s *Service) Reader() *Reader { return s.reader }
func (s *Service) Guard() *Guard   { return s.guard }

// Generated is the outcome of one generation request.
type Generated struct {
	PlanID   models.PlanID
	Title    string
	Document *Document
	Model    string
	Usage    json.RawMessage
}

// Generate asks the model for a roadmap and stores it for owner.
//
// On a partial write the returned Generated still carries the plan id
// alongside the *PersistenceError.
func (s *Service) Generate(ctx context.Context, owner models.UserID, focus, outcome string) (*Generated, error) {
	focus = strings.TrimSpace(focus)
	outcome = strings.TrimSpace(outcome)
	if focus == "" {
		return nil, &ValidationError{Field: "focus", Message: "Fields 'focus' and 'outcome' are required"}
	}
	if outcome == "" {
		return nil, &ValidationError{Field: "outcome", Message: "Fields 'focus' and 'outcome' are required"}
	}

	resp, err := s.completer.Complete(ctx, completion.Request{
		SystemPrompt: SystemPrompt,
		UserPrompt:   UserPrompt(focus, outcome),
		Options:      s.options,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		s.log.Warn().Err(ErrEmptyModelResponse).Msg("unusable roadmap response")
		return nil, ErrEmptyModelResponse
	}

	doc, err := Parse(resp)
	if err != nil {
		s.log.Warn().Err(err).Str("model", resp.Model).Msg("unusable roadmap response")
		return nil, err
	}

	result, err := s.persister.Persist(ctx, doc, Input{Owner: owner, Focus: focus, Outcome: outcome})
	if err != nil {
		event := s.log.Error().Err(err).Str("owner_id", owner.String())
		if result != nil {
			event = event.Str("plan_id", result.PlanID.String())
		}
		event.Msg("failed to persist roadmap")
		if result == nil {
			return nil, err
		}
		return &Generated{PlanID: result.PlanID, Title: result.Title, Document: doc, Model: resp.Model, Usage: resp.Usage}, err
	}

	generation := &models.Generation{
		OwnerID: owner,
		PlanID:  result.PlanID,
		Model:   resp.Model,
		Focus:   focus,
		Outcome: outcome,
		Usage:   datatypes.JSON(resp.Usage),
		Roadmap: datatypes.JSON(doc.Raw),
	}
	if err := s.store.CreateGeneration(ctx, generation); err != nil {
		s.log.Warn().Err(err).Str("plan_id", result.PlanID.String()).Msg("failed to record generation")
	}

	s.log.Info().
		Str("owner_id", owner.String()).
		Str("plan_id", result.PlanID.String()).
		Int("milestones", len(doc.Milestones)).
		Str("model", resp.Model).
		Msg("roadmap generated")

	return &Generated{
		PlanID:   result.PlanID,
		Title:    result.Title,
		Document: doc,
		Model:    resp.Model,
		Usage:    resp.Usage,
	}, nil
}
