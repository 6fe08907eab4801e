package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MDAnandaB35/study-planner/internal/models"
	"github.com/MDAnandaB35/study-planner/internal/store"
	"github.com/MDAnandaB35/study-planner/internal/store/gormstore"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := gormstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestProvider(t *testing.T) (*Provider, store.Store, *clock) {
	st := newTestStore(t)
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewProvider(st, WithBcryptCost(bcrypt.MinCost), WithClock(c.Now)), st, c
}

func TestSignUpAndLogin(t *testing.T) {
	p, st, _ := newTestProvider(t)
	ctx := context.Background()

	id, err := p.SignUp(ctx, "  Learner@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "learner@example.com", id.Email)
	assert.False(t, id.UserID.IsZero())

	user, err := st.GetUser(ctx, id.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	session, err := p.Login(ctx, "LEARNER@example.com", "hunter22")
	require.NoError(t, err)
	assert.Len(t, session.Token, 64)
	assert.Equal(t, id.UserID, session.User.UserID)
	assert.Equal(t, time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC), session.ExpiresAt)

	verified, err := p.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, id, verified)
}

func TestSignUpRejects(t *testing.T) {
	p, _, _ := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = p.SignUp(ctx, "a@example.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = p.SignUp(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "A@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejects(t *testing.T) {
	p, _, _ := newTestProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "a@example.com", "right")
	require.NoError(t, err)

	_, err = p.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = p.Login(ctx, "nobody@example.com", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = p.Login(ctx, "a@example.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestVerifyFailures(t *testing.T) {
	p, st, c := newTestProvider(t)
	ctx := context.Background()

	_, err := p.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = p.Verify(ctx, "not-a-session")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = p.SignUp(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	session, err := p.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	c.now = c.now.Add(DefaultSessionTTL)
	_, err = p.Verify(ctx, session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	stored, err := st.GetSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, stored, "expired sessions are removed")
}

// brokenStore fails session or user reads.
type brokenStore struct {
	store.Store
	sessionErr error
	userErr    error
}

func (b *brokenStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if b.sessionErr != nil {
		return nil, b.sessionErr
	}
	return b.Store.GetSession(ctx, token)
}

func (b *brokenStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	if b.userErr != nil {
		return nil, b.userErr
	}
	return b.Store.GetUser(ctx, id)
}

func TestVerifyStoreErrors(t *testing.T) {
	ctx := context.Background()
	broken := &brokenStore{Store: newTestStore(t)}
	p := NewProvider(broken, WithBcryptCost(bcrypt.MinCost))

	_, err := p.SignUp(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	session, err := p.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	outage := errors.New("connection refused")
	broken.sessionErr = outage
	_, err = p.Verify(ctx, session.Token)
	assert.ErrorIs(t, err, outage)
	assert.NotErrorIs(t, err, ErrUnauthenticated)

	broken.sessionErr = nil
	broken.userErr = outage
	_, err = p.Verify(ctx, session.Token)
	assert.ErrorIs(t, err, outage)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestLogout(t *testing.T) {
	p, _, _ := newTestProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	session, err := p.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, p.Logout(ctx, session.Token))
	require.NoError(t, p.Logout(ctx, session.Token))
	require.NoError(t, p.Logout(ctx, ""))

	_, err = p.Verify(ctx, session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionsSurviveReadOnly(t *testing.T) {
	st := newTestStore(t)
	readOnly := false
	ro := store.NewReadOnlyStore(st, func() bool { return readOnly })
	p := NewProvider(ro, WithBcryptCost(bcrypt.MinCost))
	ctx := context.Background()

	_, err := p.SignUp(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	readOnly = true
	_, err = p.SignUp(ctx, "b@example.com", "pw")
	assert.ErrorIs(t, err, store.ErrReadOnly)

	session, err := p.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	_, err = p.Verify(ctx, session.Token)
	assert.NoError(t, err)
}
