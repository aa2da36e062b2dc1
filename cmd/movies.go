package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

// MoviesList prints a catalog page, or the local cache with --cached.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	var (
		movies []models.MovieSummary
		err    error
	)

	if cmd.Bool("cached") {
		if r.cache == nil {
			return fmt.Errorf("%w: database not initialized, run 'popfix setup'", shared.ErrServiceUnavailable)
		}
		movies, err = r.cache.List()
	} else {
		movies, err = r.movies.Popular(ctx, int(cmd.Int("page")), int(cmd.Int("limit")))
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Movies (%d)", len(movies)))
	r.printMovies(movies)
	return nil
}

// MoviesSearch queries the catalog by title.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	movies, err := r.movies.Search(ctx, query, int(cmd.Int("page")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		return r.writePlainln("No movies matched %q", query)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q (%d)", query, len(movies)))
	r.printMovies(movies)
	return nil
}

// MoviesShow prints one movie with its comment thread.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	movieID := cmd.Args().First()
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	movie, err := r.movies.Details(ctx, movieID)
	if err != nil {
		return err
	}

	comments, err := r.movies.Comments(ctx, movieID)
	if err != nil {
		r.logger.Warn("failed to fetch comments", "movie", movieID, "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Movie    *models.MovieSummary `json:"movie"`
			Comments []models.Comment     `json:"comments"`
		}{movie, comments}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(movie.Title)
	if movie.Genre != "" {
		r.writePlain("Genre: %s\n", movie.Genre)
	}
	if movie.DurationLabel != "" {
		r.writePlain("Duration: %s\n", movie.DurationLabel)
	}
	if movie.AverageRating > 0 {
		r.writePlain("Rating: %.1f/5\n", movie.AverageRating)
	}

	if len(comments) > 0 {
		r.writePlainln("Comments:")
		for _, comment := range comments {
			r.writePlain("  %s: %s\n", comment.AuthorLabel, comment.Text)
		}
	}
	return nil
}

// MoviesPlay opens the movie's stream in the default browser.
func (r *Runner) MoviesPlay(ctx context.Context, cmd *cli.Command) error {
	movieID := cmd.Args().First()
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	movie, err := r.movies.Details(ctx, movieID)
	if err != nil {
		return err
	}
	if movie.SourceURL == "" {
		return fmt.Errorf("%w: movie %s has no stream URL", shared.ErrMovieNotFound, movieID)
	}

	r.logger.Info("opening stream", "movie", movie.Title)
	if err := shared.OpenBrowser(movie.SourceURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return r.writePlainln("Playing %s", movie.Title)
}

func (r *Runner) printMovies(movies []models.MovieSummary) {
	for _, movie := range movies {
		line := fmt.Sprintf("%s  %s", movie.ID, movie.Title)
		if movie.Genre != "" {
			line += fmt.Sprintf(" [%s]", movie.Genre)
		}
		if movie.DurationLabel != "" {
			line += fmt.Sprintf(" (%s)", movie.DurationLabel)
		}
		r.writePlain("%s\n", line)
	}
}
