package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestSessionRepository(t *testing.T) {
	t.Run("Save And Read Round Trip", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		session := &models.Session{
			UserID:      "u1",
			Email:       "ana@example.com",
			DisplayName: "Ana",
			Token:       "tok-1",
		}

		if err := repo.Save(session); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		got, err := repo.Read()
		if err != nil {
			t.Fatalf("failed to read session: %v", err)
		}
		if got == nil {
			t.Fatal("expected a session")
		}

		if got.UserID != "u1" || got.Token != "tok-1" {
			t.Errorf("identity mismatch: %+v", got)
		}
		if got.Email != "ana@example.com" || got.DisplayName != "Ana" {
			t.Errorf("profile mismatch: %+v", got)
		}
	})

	t.Run("Save Overwrites Previous Session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		first := &models.Session{UserID: "u1", Token: "tok-1"}
		second := &models.Session{UserID: "u2", Token: "tok-2"}

		if err := repo.Save(first); err != nil {
			t.Fatalf("failed to save first: %v", err)
		}
		if err := repo.Save(second); err != nil {
			t.Fatalf("failed to save second: %v", err)
		}

		got, err := repo.Read()
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if got.UserID != "u2" {
			t.Errorf("expected second session, got %+v", got)
		}
	})

	t.Run("Read Without Session Yields Nil", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		got, err := repo.Read()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("Corrupt Identity Reads As Nil", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionRepository(db)

		_, err := db.Exec("INSERT INTO sessions (slot, user_id, token, user_json, saved_at) VALUES (1, 'u1', 'tok', '{not json', CURRENT_TIMESTAMP)")
		if err != nil {
			t.Fatalf("failed to seed corrupt row: %v", err)
		}

		got, err := repo.Read()
		if err != nil {
			t.Fatalf("corruption must not surface as an error, got %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for corrupt session, got %+v", got)
		}
	})

	t.Run("Clear Is Idempotent", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(&models.Session{UserID: "u1", Token: "tok-1"}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		for i := 0; i < 3; i++ {
			if err := repo.Clear(); err != nil {
				t.Fatalf("clear %d failed: %v", i, err)
			}
		}

		got, err := repo.Read()
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if got != nil {
			t.Errorf("expected empty cache, got %+v", got)
		}
	})

	t.Run("Rejects Token Without User ID", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		err := repo.Save(&models.Session{Token: "tok-1"})
		if !errors.Is(err, shared.ErrSessionInvalid) {
			t.Errorf("expected ErrSessionInvalid, got %v", err)
		}
	})

	t.Run("Token Source", func(t *testing.T) {
		t.Run("Yields Bearer Token When Authenticated", func(t *testing.T) {
			repo := NewSessionRepository(setupTestDB(t))

			if err := repo.Save(&models.Session{UserID: "u1", Token: "tok-1"}); err != nil {
				t.Fatalf("failed to save: %v", err)
			}

			tok, err := repo.Token()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tok.AccessToken != "tok-1" {
				t.Errorf("expected tok-1, got %q", tok.AccessToken)
			}
		})

		t.Run("Fails When Unauthenticated", func(t *testing.T) {
			repo := NewSessionRepository(setupTestDB(t))

			_, err := repo.Token()
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})
}

func TestMovieCacheRepository(t *testing.T) {
	movie := models.MovieSummary{
		ID:              "m1",
		Title:           "Heat",
		PosterURL:       "heat.jpg",
		Genre:           "Crime",
		DurationLabel:   "2h 50m",
		DurationSeconds: 10200,
		SourceURL:       "heat.mp4",
		AverageRating:   4.7,
	}

	t.Run("Put And Get Round Trip", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		if err := repo.Put(movie); err != nil {
			t.Fatalf("failed to cache movie: %v", err)
		}

		got, err := repo.Get("m1")
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if got == nil {
			t.Fatal("expected a cached movie")
		}

		if diff := cmp.Diff(movie, *got); diff != "" {
			t.Errorf("movie mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Put Deduplicates By ID", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		if err := repo.Put(movie); err != nil {
			t.Fatalf("first put failed: %v", err)
		}

		updated := movie
		updated.AverageRating = 4.9
		if err := repo.Put(updated); err != nil {
			t.Fatalf("second put failed: %v", err)
		}

		movies, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}

		if len(movies) != 1 {
			t.Fatalf("expected one entry, got %d", len(movies))
		}
		if movies[0].AverageRating != 4.9 {
			t.Errorf("expected updated rating, got %v", movies[0].AverageRating)
		}
	})

	t.Run("Get Missing Yields Nil", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		got, err := repo.Get("absent")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("Rejects Empty ID", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		if err := repo.Put(models.MovieSummary{Title: "No ID"}); err == nil {
			t.Error("expected error for movie without id")
		}
	})
}
