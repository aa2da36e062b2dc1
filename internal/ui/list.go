package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/michaelRS2002/Popfix-front/internal/models"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = favoriteItem{}
)

// movieItem wraps [models.MovieSummary] to implement [list.Item].
type movieItem struct {
	movie     models.MovieSummary
	favorited bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorited {
		return "★ " + i.movie.Title
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	desc := i.movie.Genre
	if i.movie.DurationLabel != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.movie.DurationLabel)
	}
	if i.movie.AverageRating > 0 {
		desc = fmt.Sprintf("%s • %.1f/5", desc, i.movie.AverageRating)
	}
	return desc
}

// favoriteItem wraps [models.FavoriteEdge] to implement [list.Item].
type favoriteItem struct {
	edge models.FavoriteEdge
}

func (i favoriteItem) FilterValue() string { return i.edge.Movie.Title }
func (i favoriteItem) Title() string       { return i.edge.Movie.Title }
func (i favoriteItem) Description() string {
	if i.edge.Rated() {
		return fmt.Sprintf("%s • rated %d/5", i.edge.Movie.Genre, i.edge.Rating)
	}
	return fmt.Sprintf("%s • unrated", i.edge.Movie.Genre)
}
