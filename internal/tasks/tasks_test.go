package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/services"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
	tutils "github.com/michaelRS2002/Popfix-front/internal/testing"
)

// fakeFavoriteAPI records mutation calls and returns scripted results.
type fakeFavoriteAPI struct {
	edges      []models.FavoriteEdge
	result     *services.MutationResult
	err        error
	upserts    []services.FavoriteUpsert
	updates    []services.FavoriteUpdate
	callGate   chan struct{} // when non-nil, calls block until the gate closes
	callCount  int
	lastUserID string
}

func (f *fakeFavoriteAPI) Favorites(ctx context.Context, userID string) ([]models.FavoriteEdge, error) {
	f.lastUserID = userID
	return f.edges, f.err
}

func (f *fakeFavoriteAPI) UpsertFavorite(ctx context.Context, userID string, body services.FavoriteUpsert) (*services.MutationResult, error) {
	f.wait()
	f.callCount++
	f.lastUserID = userID
	f.upserts = append(f.upserts, body)
	return f.result, f.err
}

func (f *fakeFavoriteAPI) UpdateFavorite(ctx context.Context, userID string, body services.FavoriteUpdate) (*services.MutationResult, error) {
	f.wait()
	f.callCount++
	f.lastUserID = userID
	f.updates = append(f.updates, body)
	return f.result, f.err
}

func (f *fakeFavoriteAPI) wait() {
	if f.callGate != nil {
		<-f.callGate
	}
}

func authedStore() *tutils.MemSessionStore {
	return &tutils.MemSessionStore{
		Session: &models.Session{UserID: "u1", DisplayName: "Ana", Token: "tok-1"},
	}
}

var heat = models.MovieSummary{ID: "m1", Title: "Heat", PosterURL: "heat.jpg", Genre: "Crime", SourceURL: "heat.mp4"}

func TestFavoriteController(t *testing.T) {
	t.Run("Toggle", func(t *testing.T) {
		t.Run("Applies Optimistically Before Execute", func(t *testing.T) {
			api := &fakeFavoriteAPI{}
			ctrl := NewFavoriteController(api, authedStore(), nil)

			mutation, err := ctrl.Toggle(heat)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !ctrl.Favorited("m1") {
				t.Error("toggle must flip state before the backend call")
			}
			if api.callCount != 0 {
				t.Error("no backend call before Execute")
			}

			if err := mutation.Execute(context.Background()); err != nil {
				t.Fatalf("execute failed: %v", err)
			}
			if !ctrl.Favorited("m1") {
				t.Error("state must survive a successful reconcile")
			}
		})

		t.Run("Rolls Back On Backend Failure", func(t *testing.T) {
			api := &fakeFavoriteAPI{err: errors.New("boom")}
			ctrl := NewFavoriteController(api, authedStore(), nil)

			mutation, err := ctrl.Toggle(heat)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !ctrl.Favorited("m1") {
				t.Fatal("expected optimistic flip")
			}

			if err := mutation.Execute(context.Background()); err == nil {
				t.Fatal("expected backend error to propagate")
			}
			if ctrl.Favorited("m1") {
				t.Error("failed toggle must roll back to the previous state")
			}
		})

		t.Run("Unauthenticated Makes No Call And No Change", func(t *testing.T) {
			api := &fakeFavoriteAPI{}
			ctrl := NewFavoriteController(api, &tutils.MemSessionStore{}, nil)

			_, err := ctrl.Toggle(heat)
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Fatalf("expected ErrNotAuthenticated, got %v", err)
			}
			if ctrl.Favorited("m1") {
				t.Error("state must not change without auth")
			}
			if api.callCount != 0 {
				t.Error("no backend call without auth")
			}
		})

		t.Run("Second Toggle While In Flight Is Rejected", func(t *testing.T) {
			api := &fakeFavoriteAPI{callGate: make(chan struct{})}
			ctrl := NewFavoriteController(api, authedStore(), nil)

			mutation, err := ctrl.Toggle(heat)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			done := make(chan error, 1)
			go func() { done <- mutation.Execute(context.Background()) }()

			if _, err := ctrl.Toggle(heat); !errors.Is(err, shared.ErrMutationInFlight) {
				t.Errorf("expected ErrMutationInFlight, got %v", err)
			}

			close(api.callGate)
			if err := <-done; err != nil {
				t.Fatalf("execute failed: %v", err)
			}

			// Reconciled, so the next toggle goes through.
			if _, err := ctrl.Toggle(heat); err != nil {
				t.Errorf("expected toggle after reconcile to succeed, got %v", err)
			}
		})

		t.Run("Other Movies Are Not Blocked", func(t *testing.T) {
			api := &fakeFavoriteAPI{callGate: make(chan struct{})}
			ctrl := NewFavoriteController(api, authedStore(), nil)

			first, err := ctrl.Toggle(heat)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			done := make(chan error, 1)
			go func() { done <- first.Execute(context.Background()) }()

			alien := models.MovieSummary{ID: "m2", Title: "Alien"}
			if _, err := ctrl.Toggle(alien); err != nil {
				t.Errorf("in-flight guard is per movie, got %v", err)
			}

			close(api.callGate)
			<-done
		})

		t.Run("Known Rows Update Instead Of Insert", func(t *testing.T) {
			api := &fakeFavoriteAPI{
				edges: []models.FavoriteEdge{{MovieID: "m1", Movie: heat, Rating: 4}},
			}
			ctrl := NewFavoriteController(api, authedStore(), nil)

			if _, err := ctrl.Load(context.Background()); err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if !ctrl.Favorited("m1") {
				t.Fatal("loaded favorite must be marked")
			}

			mutation, err := ctrl.Toggle(heat)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := mutation.Execute(context.Background()); err != nil {
				t.Fatalf("execute failed: %v", err)
			}

			if len(api.updates) != 1 || len(api.upserts) != 0 {
				t.Fatalf("expected one update and no upserts, got %d/%d", len(api.updates), len(api.upserts))
			}
			if api.updates[0].IsFavorite == nil || *api.updates[0].IsFavorite {
				t.Error("expected is_favorite=false for removal")
			}
		})

		t.Run("New Rows Insert With Movie Metadata", func(t *testing.T) {
			api := &fakeFavoriteAPI{}
			ctrl := NewFavoriteController(api, authedStore(), nil)

			mutation, err := ctrl.Toggle(heat)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := mutation.Execute(context.Background()); err != nil {
				t.Fatalf("execute failed: %v", err)
			}

			if len(api.upserts) != 1 {
				t.Fatalf("expected one upsert, got %d", len(api.upserts))
			}
			body := api.upserts[0]
			if body.MovieID != "m1" || body.Title != "Heat" || body.ThumbnailURL != "heat.jpg" {
				t.Errorf("expected denormalized metadata, got %+v", body)
			}
		})
	})

	t.Run("Rate", func(t *testing.T) {
		t.Run("Out Of Range Never Reaches Backend", func(t *testing.T) {
			api := &fakeFavoriteAPI{}
			ctrl := NewFavoriteController(api, authedStore(), nil)

			for _, rating := range []int{0, 6, -3} {
				_, err := ctrl.Rate(heat, rating)
				if !errors.Is(err, shared.ErrInvalidRating) {
					t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
				}
			}

			if ctrl.Rating("m1") != 0 {
				t.Error("invalid rating must not change state")
			}
			if api.callCount != 0 {
				t.Error("invalid rating must not reach the backend")
			}
		})

		t.Run("Boundary Ratings Are Accepted", func(t *testing.T) {
			for _, rating := range []int{1, 5} {
				api := &fakeFavoriteAPI{}
				ctrl := NewFavoriteController(api, authedStore(), nil)

				mutation, err := ctrl.Rate(heat, rating)
				if err != nil {
					t.Fatalf("rating %d: expected no error, got %v", rating, err)
				}
				if ctrl.Rating("m1") != rating {
					t.Errorf("expected optimistic rating %d, got %d", rating, ctrl.Rating("m1"))
				}
				if err := mutation.Execute(context.Background()); err != nil {
					t.Fatalf("execute failed: %v", err)
				}
			}
		})

		t.Run("Rollback Restores Previous Rating", func(t *testing.T) {
			api := &fakeFavoriteAPI{
				edges: []models.FavoriteEdge{{MovieID: "m1", Movie: heat, Rating: 3}},
			}
			ctrl := NewFavoriteController(api, authedStore(), nil)

			if _, err := ctrl.Load(context.Background()); err != nil {
				t.Fatalf("load failed: %v", err)
			}

			api.err = errors.New("boom")
			mutation, err := ctrl.Rate(heat, 5)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ctrl.Rating("m1") != 5 {
				t.Fatal("expected optimistic rating")
			}

			if err := mutation.Execute(context.Background()); err == nil {
				t.Fatal("expected error")
			}
			if ctrl.Rating("m1") != 3 {
				t.Errorf("expected rollback to 3, got %d", ctrl.Rating("m1"))
			}
		})

		t.Run("Publishes Server Aggregate When Present", func(t *testing.T) {
			api := &fakeFavoriteAPI{
				result: &services.MutationResult{SuggestedRating: 4.2, HasSuggested: true},
			}
			bus := NewEventBus()
			ctrl := NewFavoriteController(api, authedStore(), bus)

			sub := bus.Subscribe()
			defer sub.Cancel()

			mutation, err := ctrl.Rate(heat, 5)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := mutation.Execute(context.Background()); err != nil {
				t.Fatalf("execute failed: %v", err)
			}

			select {
			case event := <-sub.C:
				if event.Kind != RatingEntity || event.ID != "m1" {
					t.Errorf("unexpected event: %+v", event)
				}
				if event.Fields["average_rating"] != 4.2 {
					t.Errorf("expected server aggregate in event, got %+v", event.Fields)
				}
			case <-time.After(time.Second):
				t.Fatal("expected an event")
			}
		})
	})

	t.Run("Load Requires Auth", func(t *testing.T) {
		ctrl := NewFavoriteController(&fakeFavoriteAPI{}, &tutils.MemSessionStore{}, nil)
		if _, err := ctrl.Load(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestEventBus(t *testing.T) {
	t.Run("Fan Out", func(t *testing.T) {
		bus := NewEventBus()
		a := bus.Subscribe()
		b := bus.Subscribe()
		defer a.Cancel()
		defer b.Cancel()

		bus.Publish(Event{Kind: FavoriteEntity, ID: "m1"})

		for name, sub := range map[string]*Subscription{"a": a, "b": b} {
			select {
			case event := <-sub.C:
				if event.ID != "m1" {
					t.Errorf("%s: unexpected event %+v", name, event)
				}
			case <-time.After(time.Second):
				t.Fatalf("%s: expected an event", name)
			}
		}
	})

	t.Run("Publish Never Blocks", func(t *testing.T) {
		bus := NewEventBus()
		sub := bus.Subscribe()
		defer sub.Cancel()

		// Overflow the subscriber buffer; publish must return regardless.
		for i := 0; i < 100; i++ {
			bus.Publish(Event{Kind: CommentEntity, ID: "m1"})
		}
	})

	t.Run("Cancel Is Idempotent And Closes Channel", func(t *testing.T) {
		bus := NewEventBus()
		sub := bus.Subscribe()

		sub.Cancel()
		sub.Cancel()

		if _, open := <-sub.C; open {
			t.Error("expected closed channel after cancel")
		}

		// Publishing after cancel must not panic.
		bus.Publish(Event{Kind: FavoriteEntity, ID: "m1"})
	})
}
