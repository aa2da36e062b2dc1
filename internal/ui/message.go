package ui

import (
	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/tasks"
)

type moviesFetchedMsg struct {
	movies []models.MovieSummary
	err    error
}

type favoritesFetchedMsg struct {
	edges []models.FavoriteEdge
	err   error
}

type detailFetchedMsg struct {
	movie    *models.MovieSummary
	comments []models.Comment
	err      error
}

type loginResultMsg struct {
	session *models.Session
	err     error
}

// mutationDoneMsg reports the reconcile outcome of an optimistic change.
type mutationDoneMsg struct {
	kind    tasks.EntityKind
	movieID string
	err     error
}

// busEventMsg wraps a cross-view change notification from the event bus.
type busEventMsg tasks.Event

// busClosedMsg signals that the subscription was canceled.
type busClosedMsg struct{}

// authRequiredMsg redirects to the login view when an action needs a session.
type authRequiredMsg struct{}

// toastExpiredMsg dismisses a transient status message.
type toastExpiredMsg struct{ id int }
