package client

import (
	"context"
	"net/http"
	"time"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

// Credentials is the body of sign-up and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is an authenticated account.
type User struct {
	ID    models.UserID `json:"id"`
	Email string        `json:"email"`
}

// Session is a login issued by the server.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

// SignUp registers an account. It does not log in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	var result struct {
		User *User `json:"user"`
	}
	if err := c.call(ctx, http.MethodPost, "/auth/signup", Credentials{Email: email, Password: password}, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// Login authenticates and keeps the session token for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var result struct {
		Session *Session `json:"session"`
	}
	if err := c.call(ctx, http.MethodPost, "/auth/login", Credentials{Email: email, Password: password}, &result); err != nil {
		return nil, err
	}
	c.SetAuthToken(result.Session.AccessToken)
	return result.Session, nil
}

// Logout ends the session and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.call(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetAuthToken("")
	return nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var result struct {
		User *User `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}
