package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/services"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

// CommentAPI is the backend surface for comment threads.
type CommentAPI interface {
	Comments(ctx context.Context, movieID string) ([]models.Comment, error)
	PostComment(ctx context.Context, movieID, text string) (*models.Comment, error)
}

// CommentThread holds one movie's comments and runs the optimistic posting
// flow: a new comment is prepended locally as pending, then replaced by the
// server-confirmed copy or removed on failure.
type CommentThread struct {
	mu       sync.Mutex
	api      CommentAPI
	sessions SessionReader
	bus      *EventBus
	movieID  string
	comments []models.Comment
}

// NewCommentThread creates a thread for the given movie.
func NewCommentThread(api CommentAPI, sessions SessionReader, bus *EventBus, movieID string) *CommentThread {
	return &CommentThread{
		api:      api,
		sessions: sessions,
		bus:      bus,
		movieID:  movieID,
	}
}

// Load fetches the thread from the backend, replacing local state.
func (t *CommentThread) Load(ctx context.Context) error {
	comments, err := t.api.Comments(ctx, t.movieID)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}

	t.mu.Lock()
	t.comments = comments
	t.mu.Unlock()
	return nil
}

// Comments returns a copy of the thread, newest first.
func (t *CommentThread) Comments() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.Comment, len(t.comments))
	copy(out, t.comments)
	return out
}

// Post prepends the comment locally as pending and returns the mutation that
// confirms it against the backend. Empty or whitespace-only text is rejected
// before any state changes.
func (t *CommentThread) Post(text string) (*Mutation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty comment", shared.ErrInvalidInput)
	}

	session, err := t.sessions.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !session.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}

	localID := shared.GenerateID()
	pending := models.Comment{
		ID:          localID,
		AuthorLabel: session.DisplayName,
		Text:        text,
		CreatedAt:   time.Now(),
		Pending:     true,
	}

	t.mu.Lock()
	t.comments = append([]models.Comment{pending}, t.comments...)
	t.mu.Unlock()

	return &Mutation{
		Kind:    CommentEntity,
		MovieID: t.movieID,
		call: func(ctx context.Context) (*services.MutationResult, error) {
			confirmed, err := t.api.PostComment(ctx, t.movieID, text)
			if err != nil {
				return nil, err
			}

			t.mu.Lock()
			for i := range t.comments {
				if t.comments[i].ID != localID {
					continue
				}
				if confirmed != nil {
					confirmed.Pending = false
					if confirmed.AuthorLabel == "" {
						confirmed.AuthorLabel = pending.AuthorLabel
					}
					if confirmed.CreatedAt.IsZero() {
						confirmed.CreatedAt = pending.CreatedAt
					}
					t.comments[i] = *confirmed
				} else {
					t.comments[i].Pending = false
				}
				break
			}
			t.mu.Unlock()
			return nil, nil
		},
		commit: func(*services.MutationResult) {
			if t.bus != nil {
				t.bus.Publish(Event{
					Kind:   CommentEntity,
					ID:     t.movieID,
					Fields: map[string]any{"text": text},
				})
			}
		},
		rollback: func() {
			t.mu.Lock()
			filtered := t.comments[:0]
			for _, c := range t.comments {
				if c.ID != localID {
					filtered = append(filtered, c)
				}
			}
			t.comments = filtered
			t.mu.Unlock()
		},
	}, nil
}
