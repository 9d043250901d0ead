package resources

import (
	"context"
	"net/http"

	"github.com/arashgl/darabctl/internal/api"
	"github.com/arashgl/darabctl/internal/session"
)

// AuthService owns the session write paths: login, logout, and the
// verify flow used by the route guard. No other code writes the session.
type AuthService struct {
	base  *base
	store *session.Store
}

// loginResponse is the backend's login payload
type loginResponse struct {
	AccessToken string           `json:"access_token"`
	User        *session.Profile `json:"user"`
}

// Login exchanges credentials for a token and stores token and profile
// atomically. The backend-provided message surfaces on failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Profile, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	// The global 401 handler stays out of the login flow: a wrong password
	// is a form error, not a session expiry.
	err := s.base.client.JSON(ctx, http.MethodPost, "/auth/login", body, &resp, api.WithoutAuthHook())
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, &api.APIError{Kind: api.KindUnknown, Message: api.GenericFailureMessage}
	}

	if err := s.store.SetCredentials(resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	s.base.client.ResetAuth()
	s.base.logger.Debug("logged in", "email", resp.User.Email)
	return resp.User, nil
}

// Logout tells the backend to drop the server-side session, then clears
// local credentials. The network call is best effort: local credentials
// are cleared even when it fails, so logout never leaves a stale token.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.base.client.JSON(ctx, http.MethodPost, "/auth/logout", nil, nil, api.WithoutAuthHook()); err != nil {
		s.base.logger.Debug("server-side logout failed", "error", err)
	}
	return s.store.Clear()
}

// Verify asks the backend whether the current token is still live.
// The route guard owns the consequences, so the global 401 handler is
// suppressed here.
func (s *AuthService) Verify(ctx context.Context) error {
	return s.base.client.JSON(ctx, http.MethodGet, "/auth/verify", nil, nil, api.WithoutAuthHook())
}

// Me fetches the current user's profile from the backend
func (s *AuthService) Me(ctx context.Context) (*session.Profile, error) {
	var profile session.Profile
	if err := s.base.client.JSON(ctx, http.MethodGet, "/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Store exposes the session store for read access
func (s *AuthService) Store() *session.Store {
	return s.store
}
