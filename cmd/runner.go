package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/michaelRS2002/Popfix-front/internal/repositories"
	"github.com/michaelRS2002/Popfix-front/internal/services"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
	"github.com/michaelRS2002/Popfix-front/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	db         *sql.DB
	sessions   *repositories.SessionRepository
	cache      *repositories.MovieCacheRepository
	gateway    *services.Gateway
	auth       *services.AuthService
	movies     *services.MovieService
	favorites  *tasks.FavoriteController
	bus        *tasks.EventBus
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: time.Duration(opts.Config.API.TimeoutSeconds) * time.Second,
		}
	}

	r := &Runner{
		config:     opts.Config,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		bus:        tasks.NewEventBus(),
	}

	var tokens oauth2.TokenSource
	var cache services.MovieCache
	var store services.SessionStore
	if opts.DB != nil {
		r.sessions = repositories.NewSessionRepository(opts.DB)
		r.cache = repositories.NewMovieCacheRepository(opts.DB)
		tokens = r.sessions
		cache = r.cache
		store = r.sessions
	}

	r.gateway = services.NewGateway(opts.Config.API.BaseURL, opts.HTTPClient, tokens)
	r.gateway.SetRateLimit(opts.Config.API.RequestsPerSecond)

	r.auth = services.NewAuthService(r.gateway, store)
	r.movies = services.NewMovieService(r.gateway, cache)
	if r.sessions != nil {
		r.favorites = tasks.NewFavoriteController(r.movies, r.sessions, r.bus)
	}

	return r
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, favoritesCommand, commentCommand, accountCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireSession fails the command when nobody is signed in.
func (r *Runner) requireSession() error {
	if r.sessions == nil {
		return fmt.Errorf("%w: database not initialized, run 'popfix setup'", shared.ErrServiceUnavailable)
	}

	session, err := r.sessions.Read()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !session.Authenticated() {
		return fmt.Errorf("%w: run 'popfix auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
