package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/michaelRS2002/Popfix-front/internal/formatter"
	"github.com/michaelRS2002/Popfix-front/internal/forms"
	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

// FavoritesList prints the user's favorites with ratings.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	edges, err := r.favorites.Load(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(edges, cmd.Bool("pretty"))
	}

	if len(edges) == 0 {
		return r.writePlainln("No favorites yet")
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(edges)))
	for _, edge := range edges {
		line := fmt.Sprintf("%s  %s", edge.MovieID, edge.Movie.Title)
		if edge.Rated() {
			line += fmt.Sprintf("  %d/5", edge.Rating)
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// FavoritesAdd marks a movie as a favorite.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	return r.setFavorite(ctx, cmd.Args().First(), true)
}

// FavoritesRemove unmarks a favorite.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	return r.setFavorite(ctx, cmd.Args().First(), false)
}

// setFavorite drives the optimistic toggle flow synchronously: seed the
// controller, flip when the current state differs, reconcile inline.
func (r *Runner) setFavorite(ctx context.Context, movieID string, want bool) error {
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	if err := r.requireSession(); err != nil {
		return err
	}

	if _, err := r.favorites.Load(ctx); err != nil {
		return err
	}

	if r.favorites.Favorited(movieID) == want {
		if want {
			return r.writePlainln("Already in favorites")
		}
		return r.writePlainln("Not in favorites")
	}

	movie := r.lookupMovie(ctx, movieID)

	mutation, err := r.favorites.Toggle(movie)
	if err != nil {
		return err
	}
	if err := mutation.Execute(ctx); err != nil {
		return err
	}

	if want {
		return r.writePlainln("Added %s to favorites", movie.Title)
	}
	return r.writePlainln("Removed %s from favorites", movie.Title)
}

// FavoritesRate sets a 1 to 5 star rating.
func (r *Runner) FavoritesRate(ctx context.Context, cmd *cli.Command) error {
	movieID := cmd.Args().First()
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	rating, err := strconv.Atoi(cmd.Args().Get(1))
	if err != nil {
		return fmt.Errorf("%w: rating must be a number", shared.ErrInvalidArgument)
	}
	if err := forms.ValidateRating(rating); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidRating, err)
	}

	if err := r.requireSession(); err != nil {
		return err
	}
	if _, err := r.favorites.Load(ctx); err != nil {
		return err
	}

	movie := r.lookupMovie(ctx, movieID)

	mutation, err := r.favorites.Rate(movie, rating)
	if err != nil {
		return err
	}
	if err := mutation.Execute(ctx); err != nil {
		return err
	}

	return r.writePlainln("Rated %s %d/5", movie.Title, rating)
}

// FavoritesExport writes the favorites list to a file.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	edges, err := r.favorites.Load(ctx)
	if err != nil {
		return err
	}

	session, err := r.sessions.Read()
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if err := formatter.WriteExport(edges, session.DisplayName, cmd.String("format"), output); err != nil {
		return err
	}

	r.logger.Info("favorites exported", "path", output, "count", len(edges))
	return r.writePlainln("Exported %d favorites to %s", len(edges), output)
}

// lookupMovie resolves catalog metadata for mutation bodies. Cache first,
// then the backend; a bare id is enough when both miss.
func (r *Runner) lookupMovie(ctx context.Context, movieID string) models.MovieSummary {
	if r.cache != nil {
		if cached, err := r.cache.Get(movieID); err == nil && cached != nil {
			return *cached
		}
	}

	if movie, err := r.movies.Details(ctx, movieID); err == nil {
		return *movie
	}

	return models.MovieSummary{ID: movieID}
}
