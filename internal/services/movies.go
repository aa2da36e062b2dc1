package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

// MovieCache is an optional local store for catalog entries. Writes are best
// effort; a cache failure never fails the fetch that fed it.
type MovieCache interface {
	Put(movie models.MovieSummary) error
}

// MovieService is the client for the movies, favorites, and comments
// endpoints. All responses pass through the normalization boundary in
// normalize.go before reaching callers.
type MovieService struct {
	gw    *Gateway
	cache MovieCache
}

// NewMovieService creates a MovieService. The cache may be nil.
func NewMovieService(gw *Gateway, cache MovieCache) *MovieService {
	return &MovieService{gw: gw, cache: cache}
}

// Popular fetches a page of the catalog.
func (s *MovieService) Popular(ctx context.Context, page, limit int) ([]models.MovieSummary, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/movies"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	payload, err := s.gw.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movies: %w", err)
	}
	if payload.Empty() {
		return nil, nil
	}

	movies, err := decodeMovieList(payload.Body)
	if err != nil {
		return nil, err
	}

	s.cacheAll(movies)
	return movies, nil
}

// Search queries the catalog by title.
func (s *MovieService) Search(ctx context.Context, q string, page int) ([]models.MovieSummary, error) {
	query := url.Values{"q": {q}}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}

	payload, err := s.gw.Get(ctx, "/movies/search?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if payload.Empty() {
		return nil, nil
	}

	movies, err := decodeMovieList(payload.Body)
	if err != nil {
		return nil, err
	}

	s.cacheAll(movies)
	return movies, nil
}

// Details fetches a single movie by id.
func (s *MovieService) Details(ctx context.Context, movieID string) (*models.MovieSummary, error) {
	payload, err := s.gw.Get(ctx, "/movies/"+movieID)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, movieID)
		}
		return nil, fmt.Errorf("failed to fetch movie %s: %w", movieID, err)
	}

	movie, err := NormalizeMovie(payload.Body)
	if err != nil {
		return nil, err
	}
	if movie.ID == "" {
		movie.ID = movieID
	}

	s.cacheAll([]models.MovieSummary{movie})
	return &movie, nil
}

// Favorites fetches the user's favorites with the joined movie data.
func (s *MovieService) Favorites(ctx context.Context, userID string) ([]models.FavoriteEdge, error) {
	payload, err := s.gw.Get(ctx, "/movies/favorites/"+userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	if payload.Empty() {
		return nil, nil
	}

	edges, err := decodeFavoriteList(payload.Body)
	if err != nil {
		return nil, err
	}

	for _, edge := range edges {
		s.cacheAll([]models.MovieSummary{edge.Movie})
	}
	return edges, nil
}

// FavoriteUpsert is the body for creating a favorite/rating row. The movie
// metadata fields let the backend denormalize the catalog entry on insert.
type FavoriteUpsert struct {
	MovieID      string `json:"movieId"`
	Favorite     *bool  `json:"favorite,omitempty"`
	Rating       *int   `json:"rating,omitempty"`
	Title        string `json:"title,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Genre        string `json:"genre,omitempty"`
	Source       string `json:"source,omitempty"`
}

// FavoriteUpdate is the body for mutating an existing favorite/rating row.
type FavoriteUpdate struct {
	MovieID    string `json:"movieId"`
	IsFavorite *bool  `json:"is_favorite,omitempty"`
	Rating     *int   `json:"rating,omitempty"`
}

// MutationResult is the backend's answer to a favorite or rating mutation.
// HasSuggested is set when the response carried a recomputed aggregate
// rating for the movie.
type MutationResult struct {
	Message         string
	SuggestedRating float64
	HasSuggested    bool
	Raw             []byte
}

func newMutationResult(payload *Payload) *MutationResult {
	result := &MutationResult{}
	if payload == nil || payload.Empty() {
		return result
	}

	result.Raw = payload.Body
	if payload.IsJSON {
		var resp struct {
			Message string `json:"message"`
		}
		if payload.Decode(&resp) == nil {
			result.Message = resp.Message
		}
		if v, ok := ExtractAggregateRating(payload.Body); ok {
			result.SuggestedRating = v
			result.HasSuggested = true
		}
	}
	return result
}

// UpsertFavorite creates the favorite/rating row for the user.
func (s *MovieService) UpsertFavorite(ctx context.Context, userID string, body FavoriteUpsert) (*MutationResult, error) {
	if body.Rating != nil && (*body.Rating < 1 || *body.Rating > 5) {
		return nil, fmt.Errorf("%w: %d", shared.ErrInvalidRating, *body.Rating)
	}

	payload, err := s.gw.Post(ctx, "/movies/insertFavoriteRating/"+userID, body)
	if err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	return newMutationResult(payload), nil
}

// UpdateFavorite mutates an existing favorite/rating row.
func (s *MovieService) UpdateFavorite(ctx context.Context, userID string, body FavoriteUpdate) (*MutationResult, error) {
	if body.Rating != nil && (*body.Rating < 1 || *body.Rating > 5) {
		return nil, fmt.Errorf("%w: %d", shared.ErrInvalidRating, *body.Rating)
	}

	payload, err := s.gw.Put(ctx, "/movies/update/"+userID, body)
	if err != nil {
		return nil, fmt.Errorf("failed to update favorite: %w", err)
	}
	return newMutationResult(payload), nil
}

// Comments fetches the comment thread for a movie, newest first.
func (s *MovieService) Comments(ctx context.Context, movieID string) ([]models.Comment, error) {
	payload, err := s.gw.Get(ctx, "/movies/"+movieID+"/comments")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	if payload.Empty() {
		return nil, nil
	}
	return decodeCommentList(payload.Body)
}

// PostComment appends a comment to the movie's thread and returns the
// server-confirmed copy when the response carries one.
func (s *MovieService) PostComment(ctx context.Context, movieID, text string) (*models.Comment, error) {
	payload, err := s.gw.Post(ctx, "/movies/"+movieID+"/comments", map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to post comment: %w", err)
	}

	if payload.Empty() || !payload.IsJSON {
		return nil, nil
	}

	var raw rawComment
	if err := payload.Decode(&raw); err != nil {
		return nil, nil
	}

	comment := raw.normalize()
	if comment.Text == "" {
		comment.Text = text
	}
	return &comment, nil
}

func (s *MovieService) cacheAll(movies []models.MovieSummary) {
	if s.cache == nil {
		return
	}
	for _, movie := range movies {
		if movie.ID == "" {
			continue
		}
		_ = s.cache.Put(movie)
	}
}
