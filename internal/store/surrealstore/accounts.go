package surrealstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func (s *SurrealStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if _, err := surrealdb.Create[models.User](ctx, s.db, user.ID.RecordID(), user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	user, err := surrealdb.Select[models.User](ctx, s.db, id.RecordID())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.ID.IsZero() {
		return nil, nil
	}
	return user, nil
}

func (s *SurrealStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := selectOne[models.User](ctx, s.db,
		"SELECT * FROM users WHERE email = $email LIMIT 1",
		map[string]any{"email": strings.ToLower(email)})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// Sessions live in their own table with generated record ids; the token is
// an indexed field.
func (s *SurrealStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if _, err := surrealdb.Create[models.Session](ctx, s.db, surrealmodels.Table(models.TableSessions), session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	session, err := selectOne[models.Session](ctx, s.db,
		"SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $token LIMIT 1",
		map[string]any{"token": token})
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (s *SurrealStore) DeleteSession(ctx context.Context, token string) error {
	if err := s.exec(ctx, "DELETE sessions WHERE token = $token", map[string]any{"token": token}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
