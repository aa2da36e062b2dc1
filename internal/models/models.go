package models

import "time"

// Session is the authenticated user's identity plus the opaque bearer token.
// A non-empty token implies a non-empty user id; an empty token means
// unauthenticated.
type Session struct {
	UserID      string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Token       string `json:"-"`
}

// Authenticated reports whether the session carries a usable token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.UserID != ""
}

// User represents an account profile from the users endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age,omitempty"`
}

// MovieSummary is the canonical catalog entry. Backend payloads arrive in
// several shapes; services.NormalizeMovie maps them all onto this struct.
type MovieSummary struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	PosterURL       string  `json:"poster_url"`
	Genre           string  `json:"genre"`
	DurationLabel   string  `json:"duration_label"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	SourceURL       string  `json:"source_url"`
	AverageRating   float64 `json:"average_rating"`
}

// FavoriteEdge is the per-user, per-movie relation capturing favorite status
// and an optional rating. A zero Rating means "not yet rated"; when present
// it is an integer in [1,5].
type FavoriteEdge struct {
	MovieID string       `json:"movie_id"`
	Movie   MovieSummary `json:"movie"`
	Rating  int          `json:"rating,omitempty"`
	AddedAt time.Time    `json:"added_at,omitempty"`
}

// Rated reports whether the user has attached a rating to this edge.
func (f FavoriteEdge) Rated() bool {
	return f.Rating >= 1 && f.Rating <= 5
}

// Comment is an append-only movie comment. Pending marks an optimistic local
// copy that has not been confirmed by the backend yet; it is never serialized.
type Comment struct {
	ID          string    `json:"id"`
	AuthorLabel string    `json:"author"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	Pending     bool      `json:"-"`
}
