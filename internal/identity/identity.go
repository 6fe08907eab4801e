// Package identity authenticates users of the study planner.
//
// Accounts are email and bcrypt password pairs. A successful login issues an
// opaque session token that is stored with an expiry; [Provider.Verify]
// resolves such a token back to an [Identity]. Nothing is cached in process.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

// DefaultSessionTTL matches the lifetime of the login cookie.
const DefaultSessionTTL = 7 * 24 * time.Hour

var (
	ErrUnauthenticated    = errors.New("Invalid or expired token")
	ErrMissingCredential  = errors.New("No authentication token provided")
	ErrMissingFields      = errors.New("Email and password are required")
	ErrEmailTaken         = errors.New("User already registered")
	ErrInvalidCredentials = errors.New("Invalid login credentials")
)

// Identity is the verified caller of a request.
type Identity struct {
	UserID models.UserID `json:"id"`
	Email  string        `json:"email"`
}

// Verifier resolves a bearer credential to an identity. Every failure wraps
// ErrUnauthenticated.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// Store is the part of the persistence layer the provider needs.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type Provider struct {
	store Store
	ttl   time.Duration
	cost  int
	now   func() time.Time
}

type Option func(*Provider)

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithBcryptCost sets the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(p *Provider) { p.cost = cost }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func NewProvider(store Store, opts ...Option) *Provider {
	p := &Provider{
		store: store,
		ttl:   DefaultSessionTTL,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ Verifier = (*Provider)(nil)

// Session is a freshly issued login.
type Session struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *Identity `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new account. Emails are compared case-insensitively.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	existing, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := p.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &Identity{UserID: user.ID, Email: user.Email}, nil
}

// Login checks the password and issues a session.
func (p *Provider) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: p.now().Add(p.ttl).UTC(),
	}
	if err := p.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      &Identity{UserID: user.ID, Email: user.Email},
	}, nil
}

// Logout forgets the session. Unknown tokens are ignored.
func (p *Provider) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := p.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Verify resolves a session token. Expired sessions are deleted on sight.
// Store failures are returned as is, not as ErrUnauthenticated.
func (p *Provider) Verify(ctx context.Context, credential string) (*Identity, error) {
	if credential == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrMissingCredential)
	}

	session, err := p.store.GetSession(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if session == nil {
		return nil, ErrUnauthenticated
	}
	if session.Expired(p.now()) {
		_ = p.store.DeleteSession(ctx, credential)
		return nil, ErrUnauthenticated
	}

	user, err := p.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return &Identity{UserID: user.ID, Email: user.Email}, nil
}

// generateToken returns 32 random bytes, hex encoded.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
