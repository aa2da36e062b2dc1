// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/michaelRS2002/Popfix-front/internal/models"
)

// MemSessionStore is an in-memory test double for the session cache.
type MemSessionStore struct {
	Session  *models.Session
	SaveErr  error
	ClearErr error
	Cleared  int
}

func (m *MemSessionStore) Save(session *models.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Session = session
	return nil
}

func (m *MemSessionStore) Read() (*models.Session, error) {
	return m.Session, nil
}

func (m *MemSessionStore) Clear() error {
	m.Cleared++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Session = nil
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// JSONResponse builds an HTTP response with a JSON body for a mock transport.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
