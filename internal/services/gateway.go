package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "http://localhost:5100/api"

// Gateway is the single choke point for all backend calls.
//
// It attaches the bearer token from the provided [oauth2.TokenSource] when
// one is available, serializes request bodies as JSON, and normalizes
// non-success responses into [APIError] values. The Gateway performs no
// retries and does not touch the session cache; callers reconcile state
// based on the returned result.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
}

// NewGateway creates a Gateway for the given base URL. The token source may
// be nil for a client that only calls unauthenticated endpoints.
func NewGateway(baseURL string, client *http.Client, tokens oauth2.TokenSource) *Gateway {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Gateway{
		baseURL:    baseURL,
		httpClient: client,
		tokens:     tokens,
	}
}

// SetRateLimit installs a client-side request throttle of rps requests per
// second. A non-positive value disables throttling.
func (g *Gateway) SetRateLimit(rps float64) {
	if rps > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	} else {
		g.limiter = nil
	}
}

// Payload is a normalized successful response.
type Payload struct {
	StatusCode int
	Body       []byte
	IsJSON     bool
}

// Empty reports whether the response carried no payload (204 or empty body).
func (p *Payload) Empty() bool {
	return p == nil || len(p.Body) == 0
}

// Decode unmarshals a JSON payload into v.
func (p *Payload) Decode(v any) error {
	if p.Empty() {
		return fmt.Errorf("empty response payload")
	}
	if !p.IsJSON {
		return fmt.Errorf("response is not JSON: %s", truncate(string(p.Body), 80))
	}
	if err := json.Unmarshal(p.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Text returns the raw response body as a string.
func (p *Payload) Text() string {
	if p == nil {
		return ""
	}
	return string(p.Body)
}

// APIError is a normalized backend failure carrying the human-readable
// message extracted from the error payload, the HTTP status, and the raw
// JSON body when one was present.
type APIError struct {
	Status  int
	Message string
	Raw     json.RawMessage
}

func (e *APIError) Error() string {
	return e.Message
}

// newAPIError extracts a message from conventional error payload fields
// (message / error / first validation-error msg), falling back to the
// response text, then to a generic status-coded string.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Errors  []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}

	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Raw = json.RawMessage(bytes.Clone(body))
		switch {
		case envelope.Message != "":
			apiErr.Message = envelope.Message
		case envelope.Error != "":
			apiErr.Message = envelope.Error
		case len(envelope.Errors) > 0 && envelope.Errors[0].Msg != "":
			apiErr.Message = envelope.Errors[0].Msg
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		apiErr.Message = text
	}

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP Error: %d", status)
	}

	return apiErr
}

// Request performs an HTTP request against the backend.
//
// The body, when non-nil, is serialized as JSON. A bearer token is attached
// when the token source yields one; unauthenticated calls proceed without.
// Non-2xx responses return a nil payload and an [*APIError]. A 204 response
// yields a payload with no body.
func (g *Gateway) Request(ctx context.Context, method, path string, body any) (*Payload, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("request throttled: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if g.tokens != nil {
		if tok, err := g.tokens.Token(); err == nil && tok.AccessToken != "" {
			tok.SetAuthHeader(req)
		}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	if resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return &Payload{StatusCode: resp.StatusCode}, nil
	}

	payload := &Payload{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") || json.Valid(respBody) {
		payload.IsJSON = true
	}

	return payload, nil
}

// Get performs a GET request to the specified path.
func (g *Gateway) Get(ctx context.Context, path string) (*Payload, error) {
	return g.Request(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON body.
func (g *Gateway) Post(ctx context.Context, path string, body any) (*Payload, error) {
	return g.Request(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with the given JSON body.
func (g *Gateway) Put(ctx context.Context, path string, body any) (*Payload, error) {
	return g.Request(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request to the specified path.
func (g *Gateway) Delete(ctx context.Context, path string) (*Payload, error) {
	return g.Request(ctx, http.MethodDelete, path, nil)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
