// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the local database and configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// authCommand handles session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in, sign out, and manage the cached session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in and cache the session locally",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.IntFlag{Name: "age", Usage: "Age in years", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
					&cli.StringFlag{Name: "confirm", Usage: "Password confirmation", Required: true},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Invalidate the remote session and clear the local cache",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the cached session",
				Action: r.AuthStatus,
			},
			{
				Name:  "forgot",
				Usage: "Request a password recovery email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
				},
				Action: r.AuthForgot,
			},
			{
				Name:  "reset",
				Usage: "Redeem a recovery token for a new password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Usage: "Recovery token", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "New password", Required: true},
				},
				Action: r.AuthReset,
			},
		},
	}
}

// moviesCommand handles catalog operations
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the catalog",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Usage: "Page number", Value: 1},
					&cli.IntFlag{Name: "limit", Usage: "Movies per page", Value: 20},
					&cli.BoolFlag{Name: "cached", Usage: "List the local cache instead of calling the backend"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.MoviesList,
			},
			{
				Name:      "search",
				Usage:     "Search the catalog by title",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Usage: "Page number", Value: 1},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.MoviesSearch,
			},
			{
				Name:      "show",
				Usage:     "Show one movie with its comments",
				ArgsUsage: "<movie-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.MoviesShow,
			},
			{
				Name:      "play",
				Usage:     "Open a movie's stream in the browser",
				ArgsUsage: "<movie-id>",
				Action:    r.MoviesPlay,
			},
		},
	}
}

// favoritesCommand handles the favorite/rating relation
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorites and ratings",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your favorites",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to your favorites",
				ArgsUsage: "<movie-id>",
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a movie from your favorites",
				ArgsUsage: "<movie-id>",
				Action:    r.FavoritesRemove,
			},
			{
				Name:      "rate",
				Usage:     "Rate a movie from 1 to 5",
				ArgsUsage: "<movie-id> <rating>",
				Action:    r.FavoritesRate,
			},
			{
				Name:  "export",
				Usage: "Export your favorites to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path", Required: true},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, md, txt, or json (default: from extension)"},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// commentCommand handles movie comment threads
func commentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "comment",
		Usage:     "Read or post movie comments",
		ArgsUsage: "<movie-id> [text]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.Comment,
	}
}

// accountCommand handles profile operations
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Show, update, or delete your account",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show your profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.AccountShow,
			},
			{
				Name:  "update",
				Usage: "Update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "New display name"},
					&cli.StringFlag{Name: "email", Usage: "New email"},
					&cli.IntFlag{Name: "age", Usage: "New age"},
				},
				Action: r.AccountUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete your account",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "Skip the confirmation prompt"},
				},
				Action: r.AccountDelete,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
