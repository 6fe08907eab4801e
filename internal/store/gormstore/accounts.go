package gormstore

import (
	"context"
	"strings"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.getDB(ctx).Create(user).Error
}

func (s *GormStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	var user models.User
	found, err := first(s.getDB(ctx), &user, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	found, err := first(s.getDB(ctx), &user, "email = ?", strings.ToLower(email))
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateSession(ctx context.Context, session *models.Session) error {
	return s.getDB(ctx).Create(session).Error
}

func (s *GormStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	found, err := first(s.getDB(ctx), &session, "token = ?", token)
	if err != nil || !found {
		return nil, err
	}
	return &session, nil
}

func (s *GormStore) DeleteSession(ctx context.Context, token string) error {
	return s.getDB(ctx).Delete(&models.Session{}, "token = ?", token).Error
}
