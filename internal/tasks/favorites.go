package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/services"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

// FavoriteAPI is the backend surface the controller mutates through.
// [services.MovieService] is the production implementation.
type FavoriteAPI interface {
	Favorites(ctx context.Context, userID string) ([]models.FavoriteEdge, error)
	UpsertFavorite(ctx context.Context, userID string, body services.FavoriteUpsert) (*services.MutationResult, error)
	UpdateFavorite(ctx context.Context, userID string, body services.FavoriteUpdate) (*services.MutationResult, error)
}

// SessionReader exposes the cached session for precondition checks.
type SessionReader interface {
	Read() (*models.Session, error)
}

// Mutation is the deferred half of an optimistic change. The controller has
// already applied the change locally when a Mutation is handed out; Execute
// performs the backend call and reconciles the local state with the result.
type Mutation struct {
	Kind    EntityKind
	MovieID string

	call     func(ctx context.Context) (*services.MutationResult, error)
	commit   func(result *services.MutationResult)
	rollback func()
}

// Execute runs the backend call and reconciles. On failure the optimistic
// change is rolled back and the error returned; on success it is confirmed,
// possibly overwritten by a server-computed value, and an event published.
func (m *Mutation) Execute(ctx context.Context) error {
	result, err := m.call(ctx)
	if err != nil {
		m.rollback()
		return err
	}

	m.commit(result)
	return nil
}

// favoriteEntry is the controller's local view of one movie's relation.
type favoriteEntry struct {
	favorited bool
	rating    int
	persisted bool // a row exists server-side, so mutations go through update
	inFlight  bool
}

// FavoriteController keeps the favorite and rating state for the movies the
// user has touched and runs the optimistic mutation flow against it.
//
// At most one mutation per movie may be in flight; a second Toggle or Rate
// on the same movie before the first reconciles fails with
// [shared.ErrMutationInFlight].
type FavoriteController struct {
	mu       sync.Mutex
	api      FavoriteAPI
	sessions SessionReader
	bus      *EventBus
	entries  map[string]*favoriteEntry
}

// NewFavoriteController creates a controller. The bus may be nil when no
// other view needs change notifications.
func NewFavoriteController(api FavoriteAPI, sessions SessionReader, bus *EventBus) *FavoriteController {
	return &FavoriteController{
		api:      api,
		sessions: sessions,
		bus:      bus,
		entries:  make(map[string]*favoriteEntry),
	}
}

// Load fetches the user's favorites and seeds the local state from them.
func (c *FavoriteController) Load(ctx context.Context) ([]models.FavoriteEdge, error) {
	session, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	edges, err := c.api.Favorites(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, edge := range edges {
		c.entries[edge.MovieID] = &favoriteEntry{
			favorited: true,
			rating:    edge.Rating,
			persisted: true,
		}
	}

	return edges, nil
}

// Favorited reports the local favorite state for a movie.
func (c *FavoriteController) Favorited(movieID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[movieID]
	return ok && entry.favorited
}

// Rating returns the local rating for a movie, zero when unrated.
func (c *FavoriteController) Rating(movieID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[movieID]; ok {
		return entry.rating
	}
	return 0
}

// Toggle flips the favorite state for the movie optimistically and returns
// the mutation that reconciles it with the backend.
//
// The flip is applied before Toggle returns; callers refresh their display
// immediately and run Execute in the background. When unauthenticated no
// state changes and no mutation is produced.
func (c *FavoriteController) Toggle(movie models.MovieSummary) (*Mutation, error) {
	session, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entry(movie.ID)
	if entry.inFlight {
		return nil, fmt.Errorf("%w: %s", shared.ErrMutationInFlight, movie.ID)
	}

	previous := entry.favorited
	target := !previous
	persisted := entry.persisted
	entry.favorited = target
	entry.inFlight = true

	return &Mutation{
		Kind:    FavoriteEntity,
		MovieID: movie.ID,
		call: func(ctx context.Context) (*services.MutationResult, error) {
			if persisted {
				return c.api.UpdateFavorite(ctx, session.UserID, services.FavoriteUpdate{
					MovieID:    movie.ID,
					IsFavorite: &target,
				})
			}
			return c.api.UpsertFavorite(ctx, session.UserID, services.FavoriteUpsert{
				MovieID:      movie.ID,
				Favorite:     &target,
				Title:        movie.Title,
				ThumbnailURL: movie.PosterURL,
				Genre:        movie.Genre,
				Source:       movie.SourceURL,
			})
		},
		commit: func(result *services.MutationResult) {
			c.mu.Lock()
			entry.inFlight = false
			entry.persisted = true
			c.mu.Unlock()

			c.publish(Event{
				Kind:   FavoriteEntity,
				ID:     movie.ID,
				Fields: map[string]any{"favorited": target},
			})
		},
		rollback: func() {
			c.mu.Lock()
			entry.favorited = previous
			entry.inFlight = false
			c.mu.Unlock()
		},
	}, nil
}

// Rate sets the star rating for the movie optimistically and returns the
// reconciling mutation. Out-of-range ratings fail before any state changes.
func (c *FavoriteController) Rate(movie models.MovieSummary, rating int) (*Mutation, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: %d", shared.ErrInvalidRating, rating)
	}

	session, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entry(movie.ID)
	if entry.inFlight {
		return nil, fmt.Errorf("%w: %s", shared.ErrMutationInFlight, movie.ID)
	}

	previous := entry.rating
	persisted := entry.persisted
	entry.rating = rating
	entry.inFlight = true

	return &Mutation{
		Kind:    RatingEntity,
		MovieID: movie.ID,
		call: func(ctx context.Context) (*services.MutationResult, error) {
			if persisted {
				return c.api.UpdateFavorite(ctx, session.UserID, services.FavoriteUpdate{
					MovieID: movie.ID,
					Rating:  &rating,
				})
			}
			return c.api.UpsertFavorite(ctx, session.UserID, services.FavoriteUpsert{
				MovieID:      movie.ID,
				Rating:       &rating,
				Title:        movie.Title,
				ThumbnailURL: movie.PosterURL,
				Genre:        movie.Genre,
				Source:       movie.SourceURL,
			})
		},
		commit: func(result *services.MutationResult) {
			fields := map[string]any{"rating": rating}

			c.mu.Lock()
			entry.inFlight = false
			entry.persisted = true
			if result != nil && result.HasSuggested {
				fields["average_rating"] = result.SuggestedRating
			}
			c.mu.Unlock()

			c.publish(Event{Kind: RatingEntity, ID: movie.ID, Fields: fields})
		},
		rollback: func() {
			c.mu.Lock()
			entry.rating = previous
			entry.inFlight = false
			c.mu.Unlock()
		},
	}, nil
}

// entry returns the tracked state for a movie, creating it when absent.
// Callers hold c.mu.
func (c *FavoriteController) entry(movieID string) *favoriteEntry {
	if e, ok := c.entries[movieID]; ok {
		return e
	}
	e := &favoriteEntry{}
	c.entries[movieID] = e
	return e
}

func (c *FavoriteController) requireSession() (*models.Session, error) {
	session, err := c.sessions.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !session.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	return session, nil
}

func (c *FavoriteController) publish(event Event) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}
