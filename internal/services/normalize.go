package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/michaelRS2002/Popfix-front/internal/models"
)

// Duration is the tagged duration value the backend sends in one of two
// shapes: raw seconds (number) or a pre-formatted label (string).
type Duration struct {
	Seconds int
	Label   string
}

// UnmarshalJSON accepts either form and records which one arrived.
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return fmt.Errorf("failed to decode duration label: %w", err)
		}
		d.Label = label
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("duration must be seconds or a label: %w", err)
	}
	d.Seconds = int(seconds)
	d.Label = FormatDuration(d.Seconds)
	return nil
}

// FormatDuration renders a duration in seconds as a compact label ("2h 14m").
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	hours := minutes / 60
	minutes = minutes % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// flexID tolerates ids arriving as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// rawMovie is the union of movie shapes seen across the catalog, search,
// details, and favorites endpoints.
type rawMovie struct {
	ID              flexID   `json:"id"`
	MovieID         flexID   `json:"movie_id"`
	Title           string   `json:"title"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	Poster          string   `json:"poster"`
	Image           string   `json:"image"`
	Genre           string   `json:"genre"`
	Duration        Duration `json:"duration"`
	DurationSeconds int      `json:"duration_seconds"`
	Source          string   `json:"source"`
	VideoURL        string   `json:"video_url"`
	URL             string   `json:"url"`
	Rating          *float64 `json:"rating"`
	AverageRating   *float64 `json:"averageRating"`
	AvgRating       *float64 `json:"average_rating"`
}

// normalize maps a raw movie payload onto the canonical summary.
func (m rawMovie) normalize() models.MovieSummary {
	summary := models.MovieSummary{
		ID:        firstNonEmpty(string(m.ID), string(m.MovieID)),
		Title:     m.Title,
		PosterURL: firstNonEmpty(m.ThumbnailURL, m.Poster, m.Image),
		Genre:     m.Genre,
		SourceURL: firstNonEmpty(m.Source, m.VideoURL, m.URL),
	}

	if m.DurationSeconds > 0 {
		summary.DurationSeconds = m.DurationSeconds
		summary.DurationLabel = FormatDuration(m.DurationSeconds)
	} else {
		summary.DurationSeconds = m.Duration.Seconds
		summary.DurationLabel = m.Duration.Label
	}

	switch {
	case m.AverageRating != nil:
		summary.AverageRating = *m.AverageRating
	case m.AvgRating != nil:
		summary.AverageRating = *m.AvgRating
	case m.Rating != nil:
		summary.AverageRating = *m.Rating
	}

	return summary
}

// rawFavoriteRow is a favorites-list entry. The joined movie object nests
// under "movies" or "movie" depending on the backend version, and the
// per-user rating appears either at the top level or inside the movie.
type rawFavoriteRow struct {
	MovieID    flexID    `json:"movie_id"`
	Movies     *rawMovie `json:"movies"`
	Movie      *rawMovie `json:"movie"`
	Rating     *int      `json:"rating"`
	IsFavorite *bool     `json:"is_favorite"`
	AddedAt    string    `json:"added_at"`
}

func (r rawFavoriteRow) normalize() models.FavoriteEdge {
	edge := models.FavoriteEdge{MovieID: string(r.MovieID)}

	movie := r.Movies
	if movie == nil {
		movie = r.Movie
	}
	if movie != nil {
		edge.Movie = movie.normalize()
		if edge.MovieID == "" {
			edge.MovieID = edge.Movie.ID
		} else if edge.Movie.ID == "" {
			edge.Movie.ID = edge.MovieID
		}
	}

	switch {
	case r.Rating != nil:
		edge.Rating = *r.Rating
	case movie != nil && movie.Rating != nil:
		edge.Rating = int(*movie.Rating)
	}

	if r.AddedAt != "" {
		edge.AddedAt = parseTimestamp(r.AddedAt)
	}

	return edge
}

// rawComment tolerates the comment shapes of the comments endpoints.
type rawComment struct {
	ID        flexID `json:"id"`
	Author    string `json:"author"`
	Name      string `json:"name"`
	User      string `json:"user"`
	Text      string `json:"text"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	Date      string `json:"date"`
}

func (c rawComment) normalize() models.Comment {
	return models.Comment{
		ID:          string(c.ID),
		AuthorLabel: firstNonEmpty(c.Author, c.Name, c.User),
		Text:        firstNonEmpty(c.Text, c.Content),
		CreatedAt:   parseTimestamp(firstNonEmpty(c.CreatedAt, c.Date)),
	}
}

// NormalizeMovie maps a single raw movie payload onto the canonical summary.
func NormalizeMovie(raw []byte) (models.MovieSummary, error) {
	var m rawMovie
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.MovieSummary{}, fmt.Errorf("failed to decode movie: %w", err)
	}
	return m.normalize(), nil
}

// listEnvelope is the wrapper some list endpoints use; others return a bare
// array. decodeList tries the bare form first.
type listEnvelope[T any] struct {
	Movies  []T `json:"movies"`
	Data    []T `json:"data"`
	Results []T `json:"results"`
}

func decodeList[T any](raw []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var env listEnvelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode list payload: %w", err)
	}

	switch {
	case env.Movies != nil:
		return env.Movies, nil
	case env.Data != nil:
		return env.Data, nil
	case env.Results != nil:
		return env.Results, nil
	}
	return nil, nil
}

func decodeMovieList(raw []byte) ([]models.MovieSummary, error) {
	rows, err := decodeList[rawMovie](raw)
	if err != nil {
		return nil, err
	}

	movies := make([]models.MovieSummary, 0, len(rows))
	for _, row := range rows {
		movies = append(movies, row.normalize())
	}
	return movies, nil
}

func decodeFavoriteList(raw []byte) ([]models.FavoriteEdge, error) {
	rows, err := decodeList[rawFavoriteRow](raw)
	if err != nil {
		return nil, err
	}

	edges := make([]models.FavoriteEdge, 0, len(rows))
	for _, row := range rows {
		if row.IsFavorite != nil && !*row.IsFavorite {
			continue
		}
		edges = append(edges, row.normalize())
	}
	return edges, nil
}

func decodeCommentList(raw []byte) ([]models.Comment, error) {
	rows, err := decodeList[rawComment](raw)
	if err != nil {
		return nil, err
	}

	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.normalize())
	}
	return comments, nil
}

// ExtractAggregateRating pulls a server-computed aggregate rating out of a
// mutation response, checking conventional keys at the top level and one
// level down under "data". Returns false when the response carries none.
func ExtractAggregateRating(raw []byte) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, false
	}

	if v, ok := lookupAggregate(doc); ok {
		return v, true
	}
	if data, ok := doc["data"].(map[string]any); ok {
		return lookupAggregate(data)
	}
	return 0, false
}

func lookupAggregate(m map[string]any) (float64, bool) {
	for _, key := range []string{"suggestedRating", "suggested_rating", "averageRating", "average_rating"} {
		if v, ok := m[key].(float64); ok {
			return v, true
		}
	}
	return 0, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseTimestamp tries the layouts seen in backend payloads; a zero time
// means the value was absent or unparseable.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
