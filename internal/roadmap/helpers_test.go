package roadmap

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MDAnandaB35/study-planner/internal/completion"
	"github.com/MDAnandaB35/study-planner/internal/models"
	"github.com/MDAnandaB35/study-planner/internal/store"
	"github.com/MDAnandaB35/study-planner/internal/store/gormstore"
)

const learnGoResponse = `{"planTitle":"Go Mastery","focus":"Learn Go","outcome":"Build a CLI tool","estimatedDurationWeeks":4,"milestones":[{"title":"Basics","steps":[{"title":"Syntax","resources":[{"type":"link","title":"Tour of Go","url":"https://go.dev/tour"}]}]}]}`

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := gormstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// fakeCompleter answers every request with a fixed response or error and
// remembers the last request.
type fakeCompleter struct {
	resp *completion.Response
	err  error
	last completion.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req completion.Request) (*completion.Response, error) {
	f.last = req
	return f.resp, f.err
}

func textResponse(text string) *completion.Response {
	return &completion.Response{Model: "gpt-4o-mini", Text: text, Usage: []byte(`{"total_tokens":42}`)}
}

type testEnv struct {
	store     store.Store
	completer *fakeCompleter
	service   *Service
	logs      *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := newTestStore(t)
	completer := &fakeCompleter{resp: textResponse(learnGoResponse)}
	logs := &bytes.Buffer{}
	return &testEnv{
		store:     st,
		completer: completer,
		service:   NewService(st, completer, completion.Options{}, zerolog.New(logs)),
		logs:      logs,
	}
}

// persistDoc parses text and stores it for owner.
func (e *testEnv) persistDoc(t *testing.T, owner models.UserID, text string) models.PlanID {
	t.Helper()
	doc, err := Parse(textResponse(text))
	require.NoError(t, err)
	result, err := NewPersister(e.store).Persist(context.Background(), doc, Input{Owner: owner, Focus: "focus", Outcome: "outcome"})
	require.NoError(t, err)
	return result.PlanID
}

func newUser(t *testing.T, st store.Store, email string) models.UserID {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x"}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user.ID
}

func strPtr(s string) *string { return &s }
