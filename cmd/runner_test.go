package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
	tutils "github.com/michaelRS2002/Popfix-front/internal/testing"
)

// setupTestRunner builds a Runner against an in-memory database and the
// given backend, capturing output in a buffer.
func setupTestRunner(t *testing.T, backend http.Handler) (*Runner, *bytes.Buffer) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	config := shared.DefaultConfig()
	if backend != nil {
		server := httptest.NewServer(backend)
		t.Cleanup(server.Close)
		config.API.BaseURL = server.URL
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		DB:     db,
		Output: output,
	})
	return runner, output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			want := time.Duration(shared.DefaultConfig().API.TimeoutSeconds) * time.Second
			if runner.httpClient.Timeout != want {
				t.Errorf("expected default client timeout %v, got %v", want, runner.httpClient.Timeout)
			}
		})

		t.Run("without database runs degraded", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.sessions != nil {
				t.Error("expected nil session repo without a database")
			}
			if runner.gateway == nil || runner.movies == nil || runner.auth == nil {
				t.Error("gateway and services must still be wired")
			}
		})

		t.Run("with database wires repositories", func(t *testing.T) {
			runner, _ := setupTestRunner(t, nil)

			if runner.sessions == nil || runner.cache == nil {
				t.Error("expected repositories to be wired")
			}
			if runner.favorites == nil {
				t.Error("expected favorite controller to be wired")
			}
		})
	})

	t.Run("Output Helpers", func(t *testing.T) {
		runner, output := setupTestRunner(t, nil)

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("writePlain failed: %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("unexpected output: %q", output.String())
		}

		output.Reset()
		if err := runner.writeJSON(map[string]string{"a": "b"}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if strings.TrimSpace(output.String()) != `{"a":"b"}` {
			t.Errorf("unexpected JSON output: %q", output.String())
		}
	})

	t.Run("Output Helpers Surface Writer Failures", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tutils.FWriter{}})

		if err := runner.writePlain("hello"); err == nil {
			t.Error("expected writePlain to surface the write error")
		}
		if err := runner.writePlainln("hello"); err == nil {
			t.Error("expected writePlainln to surface the write error")
		}
		if err := runner.writeJSON(map[string]string{"a": "b"}, false); err == nil {
			t.Error("expected writeJSON to surface the write error")
		}
	})

	t.Run("Session Gate", func(t *testing.T) {
		t.Run("rejects commands without a session", func(t *testing.T) {
			runner, _ := setupTestRunner(t, nil)

			if err := runner.requireSession(); err == nil {
				t.Error("expected error without a session")
			}
		})

		t.Run("passes with a cached session", func(t *testing.T) {
			runner, _ := setupTestRunner(t, nil)

			session := &models.Session{UserID: "u1", Email: "a@b.co", Token: "tok-1"}
			if err := runner.sessions.Save(session); err != nil {
				t.Fatalf("failed to seed session: %v", err)
			}

			if err := runner.requireSession(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Login Persists Session", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/login" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token":"tok-1","user":{"id":"u1","name":"Ana","email":"ana@example.com"}}`))
		})

		runner, output := setupTestRunner(t, backend)

		cmd := authCommand(runner)
		err := cmd.Run(context.Background(), []string{"auth", "login", "--email", "ana@example.com", "--password", "Passw0rd!"})
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}

		if !strings.Contains(output.String(), "Signed in as ana@example.com") {
			t.Errorf("unexpected output: %q", output.String())
		}

		session, err := runner.sessions.Read()
		if err != nil || !session.Authenticated() {
			t.Errorf("expected persisted session, got %+v (%v)", session, err)
		}
	})

	t.Run("Login Rejects Invalid Form Without Network", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("backend must not be called for invalid forms")
		})

		runner, _ := setupTestRunner(t, backend)

		cmd := authCommand(runner)
		err := cmd.Run(context.Background(), []string{"auth", "login", "--email", "not-an-email", "--password", "x"})
		if err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("Logout Clears Session Despite Remote Failure", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		runner, _ := setupTestRunner(t, backend)
		if err := runner.sessions.Save(&models.Session{UserID: "u1", Token: "tok-1"}); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}

		cmd := authCommand(runner)
		if err := cmd.Run(context.Background(), []string{"auth", "logout"}); err == nil {
			t.Error("expected remote error to propagate")
		}

		session, err := runner.sessions.Read()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if session != nil {
			t.Error("expected local session cleared")
		}
	})

	t.Run("Status Without Session", func(t *testing.T) {
		runner, output := setupTestRunner(t, nil)

		cmd := authCommand(runner)
		if err := cmd.Run(context.Background(), []string{"auth", "status"}); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Not signed in") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})
}

func TestMoviesCommands(t *testing.T) {
	t.Run("List Prints Catalog And Fills Cache", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"m1","title":"Heat","genre":"Crime","duration":10200}]`))
		})

		runner, output := setupTestRunner(t, backend)

		cmd := moviesCommand(runner)
		if err := cmd.Run(context.Background(), []string{"movies", "list"}); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		if !strings.Contains(output.String(), "Heat") {
			t.Errorf("unexpected output: %q", output.String())
		}

		cached, err := runner.cache.Get("m1")
		if err != nil || cached == nil {
			t.Fatalf("expected movie cached, got %v (%v)", cached, err)
		}
	})

	t.Run("Cached List Skips Backend", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("backend must not be called with --cached")
		})

		runner, output := setupTestRunner(t, backend)
		if err := runner.cache.Put(models.MovieSummary{ID: "m1", Title: "Cached Movie"}); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		cmd := moviesCommand(runner)
		if err := cmd.Run(context.Background(), []string{"movies", "list", "--cached"}); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Cached Movie") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("Search Requires Query", func(t *testing.T) {
		runner, _ := setupTestRunner(t, nil)

		cmd := moviesCommand(runner)
		if err := cmd.Run(context.Background(), []string{"movies", "search"}); err == nil {
			t.Error("expected error without query")
		}
	})
}

func TestFavoritesCommands(t *testing.T) {
	t.Run("Rate Validates Before Network", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("backend must not be called for invalid ratings")
		})

		runner, _ := setupTestRunner(t, backend)
		if err := runner.sessions.Save(&models.Session{UserID: "u1", Token: "tok-1"}); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}

		cmd := favoritesCommand(runner)
		if err := cmd.Run(context.Background(), []string{"favorites", "rate", "m1", "9"}); err == nil {
			t.Error("expected error for rating 9")
		}
	})

	t.Run("List Requires Session", func(t *testing.T) {
		runner, _ := setupTestRunner(t, nil)

		cmd := favoritesCommand(runner)
		if err := cmd.Run(context.Background(), []string{"favorites", "list"}); err == nil {
			t.Error("expected error without a session")
		}
	})

	t.Run("Export Writes File", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"movie_id":"m1","rating":4,"movies":{"id":"m1","title":"Heat","genre":"Crime"}}]`))
		})

		runner, _ := setupTestRunner(t, backend)
		if err := runner.sessions.Save(&models.Session{UserID: "u1", DisplayName: "Ana", Token: "tok-1"}); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}

		path := filepath.Join(t.TempDir(), "favs.csv")
		cmd := favoritesCommand(runner)
		if err := cmd.Run(context.Background(), []string{"favorites", "export", "--output", path}); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tutils.AssertFileExists(t, path)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), "Heat") {
			t.Errorf("unexpected export contents:\n%s", string(data))
		}
	})
}
