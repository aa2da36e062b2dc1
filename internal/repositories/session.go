package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

// SessionRepository persists the single cached login session. The sessions
// table holds at most one row; saving overwrites it, clearing removes it.
//
// The repository also implements [oauth2.TokenSource] so the HTTP gateway
// can pull the current bearer token per request without holding a copy.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given
// database connection.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save writes the session, replacing any previous one. A session with a
// token but no user id is rejected before touching the database.
func (r *SessionRepository) Save(session *models.Session) error {
	if session == nil {
		return fmt.Errorf("%w: nil session", shared.ErrSessionInvalid)
	}
	if session.Token != "" && session.UserID == "" {
		return fmt.Errorf("%w: token without user id", shared.ErrSessionInvalid)
	}

	userJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	query := `
		INSERT INTO sessions (slot, user_id, token, user_json, saved_at) VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET user_id = excluded.user_id, token = excluded.token,
			user_json = excluded.user_json, saved_at = excluded.saved_at
	`

	if _, err := r.db.Exec(query, session.UserID, session.Token, string(userJSON), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	return nil
}

// Read returns the cached session, or nil when no session is stored. A
// corrupt stored identity reads as nil rather than an error, matching the
// absent case; the bad row stays until the next Save or Clear.
func (r *SessionRepository) Read() (*models.Session, error) {
	var (
		userID   string
		token    string
		userJSON string
	)

	err := r.db.QueryRow("SELECT user_id, token, user_json FROM sessions WHERE slot = 1").
		Scan(&userID, &token, &userJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(userJSON), &session); err != nil {
		return nil, nil
	}

	session.UserID = userID
	session.Token = token
	return &session, nil
}

// Clear removes the cached session. Clearing an empty cache is a no-op.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE slot = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Token implements [oauth2.TokenSource] over the cached session.
func (r *SessionRepository) Token() (*oauth2.Token, error) {
	session, err := r.Read()
	if err != nil {
		return nil, err
	}
	if !session.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}

	return &oauth2.Token{AccessToken: session.Token, TokenType: "Bearer"}, nil
}
