package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	tutils "github.com/michaelRS2002/Popfix-front/internal/testing"
)

type staticTokenSource struct {
	token string
}

func (s staticTokenSource) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("no session")
}

func TestGateway(t *testing.T) {
	t.Run("Bearer Token Attachment", func(t *testing.T) {
		t.Run("Attaches Token When Available", func(t *testing.T) {
			var gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"ok":true}`))
			}))
			defer server.Close()

			gw := NewGateway(server.URL, server.Client(), staticTokenSource{token: "tok-123"})
			if _, err := gw.Get(context.Background(), "/movies"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotAuth != "Bearer tok-123" {
				t.Errorf("expected bearer header, got %q", gotAuth)
			}
		})

		t.Run("Omits Header Without Token Source", func(t *testing.T) {
			var gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			gw := NewGateway(server.URL, server.Client(), nil)
			if _, err := gw.Get(context.Background(), "/movies"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotAuth != "" {
				t.Errorf("expected no Authorization header, got %q", gotAuth)
			}
		})

		t.Run("Omits Header When Source Fails", func(t *testing.T) {
			var gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			gw := NewGateway(server.URL, server.Client(), failingTokenSource{})
			if _, err := gw.Get(context.Background(), "/movies"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotAuth != "" {
				t.Errorf("expected no Authorization header, got %q", gotAuth)
			}
		})
	})

	t.Run("Error Normalization", func(t *testing.T) {
		cases := []struct {
			name   string
			status int
			body   string
			want   string
		}{
			{"Message Field", 400, `{"message":"invalid credentials"}`, "invalid credentials"},
			{"Error Field", 400, `{"error":"bad request"}`, "bad request"},
			{"Validation Errors Array", 422, `{"errors":[{"msg":"email is required"},{"msg":"ignored"}]}`, "email is required"},
			{"Plain Text Body", 500, "upstream exploded", "upstream exploded"},
			{"Empty Body", 503, "", "HTTP Error: 503"},
			{"JSON Without Known Fields", 500, `{"detail":"nope"}`, "HTTP Error: 500"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tc.status)
					w.Write([]byte(tc.body))
				}))
				defer server.Close()

				gw := NewGateway(server.URL, server.Client(), nil)
				_, err := gw.Get(context.Background(), "/whatever")
				if err == nil {
					t.Fatal("expected an error")
				}

				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected *APIError, got %T", err)
				}

				if apiErr.Status != tc.status {
					t.Errorf("expected status %d, got %d", tc.status, apiErr.Status)
				}
				if apiErr.Message != tc.want {
					t.Errorf("expected message %q, got %q", tc.want, apiErr.Message)
				}
			})
		}
	})

	t.Run("Empty Responses", func(t *testing.T) {
		t.Run("204 Yields Empty Payload", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			gw := NewGateway(server.URL, server.Client(), nil)
			payload, err := gw.Delete(context.Background(), "/users/1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !payload.Empty() {
				t.Error("expected empty payload for 204")
			}
		})

		t.Run("200 With Empty Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			defer server.Close()

			gw := NewGateway(server.URL, server.Client(), nil)
			payload, err := gw.Get(context.Background(), "/logout")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !payload.Empty() {
				t.Error("expected empty payload")
			}
		})
	})

	t.Run("Payload Decoding", func(t *testing.T) {
		t.Run("JSON Content Type", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"title":"Heat"}`))
			}))
			defer server.Close()

			gw := NewGateway(server.URL, server.Client(), nil)
			payload, err := gw.Get(context.Background(), "/movies/1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !payload.IsJSON {
				t.Error("expected payload to be JSON")
			}

			var doc struct {
				Title string `json:"title"`
			}
			if err := payload.Decode(&doc); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if doc.Title != "Heat" {
				t.Errorf("expected Heat, got %s", doc.Title)
			}
		})

		t.Run("Plain Text Is Not JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.Write([]byte("pong"))
			}))
			defer server.Close()

			gw := NewGateway(server.URL, server.Client(), nil)
			payload, err := gw.Get(context.Background(), "/ping")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if payload.IsJSON {
				t.Error("expected non-JSON payload")
			}
			if payload.Text() != "pong" {
				t.Errorf("expected pong, got %s", payload.Text())
			}
		})
	})

	t.Run("Transport Failures", func(t *testing.T) {
		t.Run("RoundTrip Error", func(t *testing.T) {
			client := &http.Client{Transport: tutils.NewMockRoundTripper(nil, errors.New("connection refused"))}
			gw := NewGateway("http://backend.invalid/api", client, nil)

			_, err := gw.Get(context.Background(), "/movies")
			if err == nil {
				t.Fatal("expected an error")
			}

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				t.Error("transport failures must not become API errors")
			}
		})

		t.Run("Body Read Error", func(t *testing.T) {
			resp := &http.Response{StatusCode: 200, Body: &tutils.FCloser{}}
			client := &http.Client{Transport: tutils.NewMockRoundTripper(resp, nil)}
			gw := NewGateway("http://backend.invalid/api", client, nil)

			_, err := gw.Get(context.Background(), "/movies")
			if err == nil {
				t.Fatal("expected an error")
			}
		})

		t.Run("Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			gw := NewGateway(server.URL, server.Client(), nil)
			if _, err := gw.Get(ctx, "/movies"); err == nil {
				t.Fatal("expected an error for canceled context")
			}
		})
	})
}
