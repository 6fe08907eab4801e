package studyplanner

import (
	"net/http"
	"time"
)

// credentials is the body of signup and login.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *App) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeBody(w, r, &req); err != nil {
		a.respondFailure(w, r, err)
		return
	}

	user, err := a.identity.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}
	a.log.Info().Str("user_id", user.UserID.String()).Msg("user signed up")
	respondOK(w, http.StatusCreated, envelope{
		"message": "User created successfully",
		"user":    user,
	})
}

// handleLogin issues a session and sets it as an HTTP-only cookie. The token
// is also returned for clients that send it as a Bearer header.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeBody(w, r, &req); err != nil {
		a.respondFailure(w, r, err)
		return
	}

	session, err := a.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.respondFailure(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   a.config.Production,
		SameSite: http.SameSiteLaxMode,
	})
	respondOK(w, http.StatusOK, envelope{
		"message": "Login successful",
		"session": session,
		"user":    session.User,
	})
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.identity.Logout(r.Context(), credential(r)); err != nil {
		a.respondFailure(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.config.Production,
		SameSite: http.SameSiteLaxMode,
	})
	respondOK(w, http.StatusOK, envelope{"message": "Logged out successfully"})
}

func (a *App) handleMe(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, envelope{"user": caller(r)})
}
