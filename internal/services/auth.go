package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

// SessionStore is the persistence boundary for the local session cache.
// [repositories.SessionRepository] is the production implementation.
type SessionStore interface {
	Save(session *models.Session) error
	Read() (*models.Session, error)
	Clear() error
}

// AuthService handles registration, login, password recovery, and account
// management against the users endpoints. It owns the session cache: a
// successful login writes it, logout and account deletion clear it.
type AuthService struct {
	gw       *Gateway
	sessions SessionStore
}

// NewAuthService creates an AuthService backed by the given gateway and
// session store.
func NewAuthService(gw *Gateway, sessions SessionStore) *AuthService {
	return &AuthService{gw: gw, sessions: sessions}
}

// rawUser tolerates the id arriving as a string or a number and the user
// object carrying either "name" or "nombre" depending on backend version.
type rawUser struct {
	ID     flexID `json:"id"`
	Name   string `json:"name"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Age    int    `json:"age"`
}

func (u rawUser) normalize() models.User {
	return models.User{
		ID:    string(u.ID),
		Name:  firstNonEmpty(u.Name, u.Nombre),
		Email: u.Email,
		Age:   u.Age,
	}
}

// Login authenticates against the backend and persists the resulting session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	payload, err := s.gw.Post(ctx, "/users/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	var resp struct {
		Token string  `json:"token"`
		User  rawUser `json:"user"`
	}
	if err := payload.Decode(&resp); err != nil {
		return nil, fmt.Errorf("unexpected login response: %w", err)
	}

	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response carried no token", shared.ErrAuthFailed)
	}

	user := resp.User.normalize()
	session := &models.Session{
		UserID:      user.ID,
		Email:       firstNonEmpty(user.Email, email),
		DisplayName: user.Name,
		Token:       resp.Token,
	}

	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return session, nil
}

// Register creates a new account. The backend does not log the user in; the
// caller follows up with [AuthService.Login].
func (s *AuthService) Register(ctx context.Context, name, email string, age int, password string) error {
	_, err := s.gw.Post(ctx, "/users/register", map[string]any{
		"name":     name,
		"email":    email,
		"age":      age,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Logout invalidates the remote session and clears the local cache. The local
// cache is cleared even when the remote call fails, so the client never stays
// signed in against a dead token; the remote error is still returned.
func (s *AuthService) Logout(ctx context.Context) error {
	_, remoteErr := s.gw.Post(ctx, "/logout", nil)

	if err := s.sessions.Clear(); err != nil {
		return errors.Join(remoteErr, fmt.Errorf("failed to clear session: %w", err))
	}

	if remoteErr != nil {
		return fmt.Errorf("remote logout failed (local session cleared): %w", remoteErr)
	}
	return nil
}

// Session returns the cached session, or nil when unauthenticated.
func (s *AuthService) Session() (*models.Session, error) {
	return s.sessions.Read()
}

// ForgotPassword requests a password recovery email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	payload, err := s.gw.Post(ctx, "/auth/forgot-password", map[string]string{"email": email})
	if err != nil {
		return "", fmt.Errorf("recovery request failed: %w", err)
	}

	var resp struct {
		Message string `json:"message"`
	}
	if payload.Decode(&resp) == nil && resp.Message != "" {
		return resp.Message, nil
	}
	return "recovery email sent", nil
}

// ResetPassword redeems a recovery token for a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := s.gw.Post(ctx, "/auth/reset-password", map[string]string{
		"token":       token,
		"newPassword": newPassword,
	})
	if err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}
	return nil
}

// User fetches the profile for the given account id.
func (s *AuthService) User(ctx context.Context, userID string) (*models.User, error) {
	payload, err := s.gw.Get(ctx, "/users/"+userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	var raw rawUser
	if err := payload.Decode(&raw); err != nil {
		return nil, err
	}

	user := raw.normalize()
	if user.ID == "" {
		user.ID = userID
	}
	return &user, nil
}

// UserUpdate carries the mutable profile fields. Nil fields are omitted from
// the request so the backend leaves them untouched.
type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Age   *int    `json:"age,omitempty"`
}

// UpdateUser patches the profile and refreshes the cached session identity
// when the display name or email changed.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, update UserUpdate) (*models.User, error) {
	payload, err := s.gw.Put(ctx, "/users/"+userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}

	var raw rawUser
	if !payload.Empty() && payload.IsJSON {
		_ = payload.Decode(&raw)
	}

	user := raw.normalize()
	if user.ID == "" {
		user.ID = userID
	}
	if update.Name != nil && user.Name == "" {
		user.Name = *update.Name
	}
	if update.Email != nil && user.Email == "" {
		user.Email = *update.Email
	}

	if session, readErr := s.sessions.Read(); readErr == nil && session.Authenticated() && session.UserID == userID {
		session.DisplayName = firstNonEmpty(user.Name, session.DisplayName)
		session.Email = firstNonEmpty(user.Email, session.Email)
		if err := s.sessions.Save(session); err != nil {
			return &user, fmt.Errorf("profile updated but session refresh failed: %w", err)
		}
	}

	return &user, nil
}

// DeleteUser removes the account. When the deleted account is the one signed
// in, the local session is cleared as well.
func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	_, err := s.gw.Delete(ctx, "/users/"+userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}

	if session, readErr := s.sessions.Read(); readErr == nil && session.Authenticated() && session.UserID == userID {
		if err := s.sessions.Clear(); err != nil {
			return fmt.Errorf("account deleted but session cleanup failed: %w", err)
		}
	}
	return nil
}
