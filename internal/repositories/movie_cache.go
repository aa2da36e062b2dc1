package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/michaelRS2002/Popfix-front/internal/models"
)

// MovieCacheRepository implements services.MovieCache over sqlite.
//
// Entries are keyed by movie id; re-caching a movie overwrites its row, so
// the cache always holds the last-seen version of each catalog entry.
type MovieCacheRepository struct {
	db *sql.DB
}

// NewMovieCacheRepository creates a new [MovieCacheRepository] with the given
// database connection.
func NewMovieCacheRepository(db *sql.DB) *MovieCacheRepository {
	return &MovieCacheRepository{db: db}
}

// Put upserts a catalog entry.
func (r *MovieCacheRepository) Put(movie models.MovieSummary) error {
	if movie.ID == "" {
		return fmt.Errorf("cannot cache a movie without an id")
	}

	query := `
		INSERT INTO movie_cache (movie_id, title, poster_url, genre, duration_label, duration_seconds, source_url, average_rating, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(movie_id) DO UPDATE SET title = excluded.title, poster_url = excluded.poster_url,
			genre = excluded.genre, duration_label = excluded.duration_label,
			duration_seconds = excluded.duration_seconds, source_url = excluded.source_url,
			average_rating = excluded.average_rating, cached_at = excluded.cached_at
	`

	_, err := r.db.Exec(query, movie.ID, movie.Title, movie.PosterURL, movie.Genre,
		movie.DurationLabel, movie.DurationSeconds, movie.SourceURL, movie.AverageRating, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to cache movie %s: %w", movie.ID, err)
	}

	return nil
}

// Get retrieves a cached entry by movie id, or nil when absent.
func (r *MovieCacheRepository) Get(movieID string) (*models.MovieSummary, error) {
	query := `
		SELECT movie_id, title, poster_url, genre, duration_label, duration_seconds, source_url, average_rating
		FROM movie_cache WHERE movie_id = ?
	`

	movie, err := scanMovie(r.db.QueryRow(query, movieID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached movie %s: %w", movieID, err)
	}

	return movie, nil
}

// List returns all cached entries, most recently cached first.
func (r *MovieCacheRepository) List() ([]models.MovieSummary, error) {
	query := `
		SELECT movie_id, title, poster_url, genre, duration_label, duration_seconds, source_url, average_rating
		FROM movie_cache ORDER BY cached_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached movies: %w", err)
	}
	defer rows.Close()

	var movies []models.MovieSummary
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached movie: %w", err)
		}
		movies = append(movies, *movie)
	}

	return movies, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*models.MovieSummary, error) {
	var (
		movie     models.MovieSummary
		posterURL sql.NullString
		genre     sql.NullString
		label     sql.NullString
		sourceURL sql.NullString
	)

	err := row.Scan(&movie.ID, &movie.Title, &posterURL, &genre, &label,
		&movie.DurationSeconds, &sourceURL, &movie.AverageRating)
	if err != nil {
		return nil, err
	}

	movie.PosterURL = posterURL.String
	movie.Genre = genre.String
	movie.DurationLabel = label.String
	movie.SourceURL = sourceURL.String
	return &movie, nil
}
