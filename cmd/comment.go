package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/michaelRS2002/Popfix-front/internal/shared"
	"github.com/michaelRS2002/Popfix-front/internal/tasks"
)

// Comment reads a movie's thread, or posts to it when text is given.
func (r *Runner) Comment(ctx context.Context, cmd *cli.Command) error {
	movieID := cmd.Args().First()
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	text := strings.Join(cmd.Args().Slice()[1:], " ")
	if text == "" {
		return r.listComments(ctx, cmd, movieID)
	}

	if err := r.requireSession(); err != nil {
		return err
	}

	thread := tasks.NewCommentThread(r.movies, r.sessions, r.bus, movieID)
	mutation, err := thread.Post(text)
	if err != nil {
		return err
	}
	if err := mutation.Execute(ctx); err != nil {
		return err
	}

	return r.writePlainln("Comment posted")
}

func (r *Runner) listComments(ctx context.Context, cmd *cli.Command, movieID string) error {
	comments, err := r.movies.Comments(ctx, movieID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(comments, cmd.Bool("pretty"))
	}

	if len(comments) == 0 {
		return r.writePlainln("No comments yet")
	}

	r.writePlainHeader(fmt.Sprintf("Comments (%d)", len(comments)))
	for _, comment := range comments {
		r.writePlain("%s: %s\n", comment.AuthorLabel, comment.Text)
	}
	return nil
}
