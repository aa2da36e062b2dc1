package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/michaelRS2002/Popfix-front/internal/forms"
	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/services"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
	"github.com/michaelRS2002/Popfix-front/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CatalogView ViewState = iota
	LoginView
	DetailView
	FavoritesView
	ProfileView
)

// Deps bundles the services the TUI runs on.
type Deps struct {
	Auth      *services.AuthService
	Movies    *services.MovieService
	Favorites *tasks.FavoriteController
	Sessions  tasks.SessionReader
	Bus       *tasks.EventBus

	PageSize      int
	ToastDuration time.Duration
}

// Model represents the TUI application state.
type Model struct {
	ctx  context.Context
	view ViewState
	prev ViewState
	deps Deps

	width  int
	height int

	movieList list.Model
	listReady bool
	favList   list.Model
	favReady  bool

	detail   *models.MovieSummary
	thread   *tasks.CommentThread
	comments []models.Comment

	composing    bool
	commentInput textinput.Model

	emailInput    textinput.Model
	passwordInput textinput.Model
	focusPassword bool
	formError     string

	session *models.Session
	sub     *tasks.Subscription

	toast   string
	toastID int

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.PageSize <= 0 {
		deps.PageSize = 20
	}
	if deps.ToastDuration <= 0 {
		deps.ToastDuration = 2500 * time.Millisecond
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	comment := textinput.New()
	comment.Placeholder = "write a comment"
	comment.CharLimit = 500

	m := &Model{
		ctx:           ctx,
		view:          CatalogView,
		deps:          deps,
		emailInput:    email,
		passwordInput: password,
		commentInput:  comment,
		help:          help.New(),
		keys:          newKeyMap(),
	}

	if session, err := deps.Sessions.Read(); err == nil && session.Authenticated() {
		m.session = session
	}
	if deps.Bus != nil {
		m.sub = deps.Bus.Subscribe()
	}

	return m
}

// Init fetches the catalog and starts listening for change events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchMovies(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.movieList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.favReady {
			m.favList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CatalogView:
			return m.handleCatalogKeys(msg)
		case LoginView:
			return m.handleLoginKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FavoritesView:
			return m.handleFavoritesKeys(msg)
		case ProfileView:
			return m.handleProfileKeys(msg)
		}

	case moviesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(msg.movies))
		for i, movie := range msg.movies {
			items[i] = movieItem{movie: movie, favorited: m.deps.Favorites.Favorited(movie.ID)}
		}
		m.movieList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.movieList.Title = "PopFix"
		m.movieList.SetSize(m.width-4, m.height-8)
		m.listReady = true
		return m, nil

	case favoritesFetchedMsg:
		if msg.err != nil {
			return m, m.showToast(msg.err.Error())
		}
		items := make([]list.Item, len(msg.edges))
		for i, edge := range msg.edges {
			items[i] = favoriteItem{edge: edge}
		}
		m.favList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.favList.Title = "Favorites"
		m.favList.SetSize(m.width-4, m.height-8)
		m.favReady = true
		m.view = FavoritesView
		return m, nil

	case detailFetchedMsg:
		if msg.err != nil {
			return m, m.showToast(msg.err.Error())
		}
		m.detail = msg.movie
		m.comments = msg.comments
		m.view = DetailView
		return m, nil

	case loginResultMsg:
		if msg.err != nil {
			m.formError = msg.err.Error()
			return m, nil
		}
		m.session = msg.session
		m.formError = ""
		m.passwordInput.SetValue("")
		m.view = m.prev
		return m, m.showToast(fmt.Sprintf("signed in as %s", msg.session.Email))

	case mutationDoneMsg:
		if msg.err != nil {
			m.refreshFavoriteMarks()
			return m, m.showToast(fmt.Sprintf("change failed: %v", msg.err))
		}
		return m, nil

	case busEventMsg:
		m.applyEvent(tasks.Event(msg))
		return m, m.waitForEvent()

	case authRequiredMsg:
		return m.gotoLogin(m.view)

	case busClosedMsg:
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string

	switch m.view {
	case CatalogView:
		body = m.renderCatalog()
	case LoginView:
		body = m.renderLogin()
	case DetailView:
		body = m.renderDetail()
	case FavoritesView:
		body = m.renderFavorites()
	case ProfileView:
		body = m.renderProfile()
	}

	if m.toast != "" {
		body += "\n\n" + styles.warn.Render(m.toast)
	}
	return body
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.listReady && m.movieList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if movie, ok := m.selectedMovie(); ok {
			return m, m.fetchDetail(movie.ID)
		}
	case key.Matches(msg, m.keys.favorite):
		if movie, ok := m.selectedMovie(); ok {
			return m, m.toggleFavorite(movie)
		}
	case key.Matches(msg, m.keys.favorites):
		return m, m.fetchFavorites()
	case key.Matches(msg, m.keys.profile):
		if m.session == nil {
			return m.gotoLogin(CatalogView)
		}
		m.view = ProfileView
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = m.prev
		m.formError = ""
		return m, nil
	case "tab", "shift+tab":
		m.focusPassword = !m.focusPassword
		if m.focusPassword {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		} else {
			m.passwordInput.Blur()
			m.emailInput.Focus()
		}
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()

		if result := forms.ValidateLoginForm(email, password); !result.IsValid {
			for _, message := range result.Errors {
				m.formError = message
				break
			}
			return m, nil
		}

		return m, m.doLogin(email, password)
	}

	var cmd tea.Cmd
	if m.focusPassword {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	} else {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composing {
		switch msg.String() {
		case "esc":
			m.composing = false
			m.commentInput.SetValue("")
			return m, nil
		case "enter":
			text := m.commentInput.Value()
			m.composing = false
			m.commentInput.SetValue("")
			return m, m.postComment(text)
		}

		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CatalogView
		m.detail = nil
		m.thread = nil
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if m.detail != nil {
			return m, m.toggleFavorite(*m.detail)
		}
	case key.Matches(msg, m.keys.comment):
		m.composing = true
		m.commentInput.Focus()
		return m, nil
	case key.Matches(msg, m.keys.rate):
		if m.detail != nil {
			rating, _ := strconv.Atoi(msg.String())
			return m, m.rateMovie(*m.detail, rating)
		}
	}

	return m, nil
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.favReady && m.favList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CatalogView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.favList.SelectedItem().(favoriteItem); ok {
			return m, m.fetchDetail(item.edge.MovieID)
		}
	case key.Matches(msg, m.keys.favorite):
		if item, ok := m.favList.SelectedItem().(favoriteItem); ok {
			return m, m.toggleFavorite(item.edge.Movie)
		}
	}

	return m.updateLists(msg)
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CatalogView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CatalogView:
		if m.listReady {
			m.movieList, cmd = m.movieList.Update(msg)
		}
	case FavoritesView:
		if m.favReady {
			m.favList, cmd = m.favList.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) selectedMovie() (models.MovieSummary, bool) {
	if !m.listReady {
		return models.MovieSummary{}, false
	}
	if item, ok := m.movieList.SelectedItem().(movieItem); ok {
		return item.movie, true
	}
	return models.MovieSummary{}, false
}

// gotoLogin remembers where the user was so a successful login returns there.
func (m *Model) gotoLogin(from ViewState) (tea.Model, tea.Cmd) {
	m.prev = from
	m.view = LoginView
	m.focusPassword = false
	m.emailInput.Focus()
	m.passwordInput.Blur()
	return m, m.showToast("sign in to continue")
}

// toggleFavorite runs the optimistic flip. The local state is already
// changed when the command is returned, so the list refreshes immediately.
func (m *Model) toggleFavorite(movie models.MovieSummary) tea.Cmd {
	mutation, err := m.deps.Favorites.Toggle(movie)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			_, cmd := m.gotoLogin(m.view)
			return cmd
		}
		return m.showToast(err.Error())
	}

	m.refreshFavoriteMarks()
	return m.runMutation(mutation)
}

func (m *Model) rateMovie(movie models.MovieSummary, rating int) tea.Cmd {
	mutation, err := m.deps.Favorites.Rate(movie, rating)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			_, cmd := m.gotoLogin(m.view)
			return cmd
		}
		return m.showToast(err.Error())
	}

	return tea.Batch(m.showToast(fmt.Sprintf("rated %d/5", rating)), m.runMutation(mutation))
}

func (m *Model) postComment(text string) tea.Cmd {
	if m.thread == nil {
		return nil
	}

	mutation, err := m.thread.Post(text)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			_, cmd := m.gotoLogin(m.view)
			return cmd
		}
		return m.showToast(err.Error())
	}

	m.comments = m.thread.Comments()
	return m.runMutation(mutation)
}

func (m *Model) runMutation(mutation *tasks.Mutation) tea.Cmd {
	return func() tea.Msg {
		err := mutation.Execute(m.ctx)
		return mutationDoneMsg{kind: mutation.Kind, movieID: mutation.MovieID, err: err}
	}
}

// refreshFavoriteMarks re-reads the controller state into the catalog list.
func (m *Model) refreshFavoriteMarks() {
	if !m.listReady {
		return
	}
	for i, item := range m.movieList.Items() {
		if mi, ok := item.(movieItem); ok {
			mi.favorited = m.deps.Favorites.Favorited(mi.movie.ID)
			m.movieList.SetItem(i, mi)
		}
	}
	if m.thread != nil {
		m.comments = m.thread.Comments()
	}
}

// applyEvent folds a cross-view change notification into the open views.
func (m *Model) applyEvent(event tasks.Event) {
	switch event.Kind {
	case tasks.FavoriteEntity:
		m.refreshFavoriteMarks()
	case tasks.RatingEntity:
		avg, hasAvg := event.Fields["average_rating"].(float64)
		if m.detail != nil && m.detail.ID == event.ID && hasAvg {
			m.detail.AverageRating = avg
		}
		if m.listReady && hasAvg {
			for i, item := range m.movieList.Items() {
				if mi, ok := item.(movieItem); ok && mi.movie.ID == event.ID {
					mi.movie.AverageRating = avg
					m.movieList.SetItem(i, mi)
				}
			}
		}
	case tasks.CommentEntity:
		if m.thread != nil {
			m.comments = m.thread.Comments()
		}
	}
}

func (m *Model) fetchMovies() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.deps.Movies.Popular(m.ctx, 1, m.deps.PageSize)
		return moviesFetchedMsg{movies: movies, err: err}
	}
}

func (m *Model) fetchFavorites() tea.Cmd {
	return func() tea.Msg {
		edges, err := m.deps.Favorites.Load(m.ctx)
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return authRequiredMsg{}
		}
		return favoritesFetchedMsg{edges: edges, err: err}
	}
}

func (m *Model) fetchDetail(movieID string) tea.Cmd {
	thread := tasks.NewCommentThread(m.deps.Movies, m.deps.Sessions, m.deps.Bus, movieID)
	m.thread = thread

	return func() tea.Msg {
		movie, err := m.deps.Movies.Details(m.ctx, movieID)
		if err != nil {
			return detailFetchedMsg{err: err}
		}
		if err := thread.Load(m.ctx); err != nil {
			return detailFetchedMsg{movie: movie, err: err}
		}
		return detailFetchedMsg{movie: movie, comments: thread.Comments()}
	}
}

func (m *Model) doLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		session, err := m.deps.Auth.Login(m.ctx, email, password)
		return loginResultMsg{session: session, err: err}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-m.sub.C
		if !ok {
			return busClosedMsg{}
		}
		return busEventMsg(event)
	}
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toast = text
	m.toastID++
	id := m.toastID
	return tea.Tick(m.deps.ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) renderCatalog() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}
	if !m.listReady {
		return styles.help.Render("Loading catalog...")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.favorite, m.keys.favorites, m.keys.profile, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.movieList.View(), helpView)
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in to PopFix")

	var errLine string
	if m.formError != "" {
		errLine = "\n" + styles.err.Render(m.formError)
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
		m.keys.back,
	})

	return fmt.Sprintf("%s\n%s\n%s%s\n\n%s", title, m.emailInput.View(), m.passwordInput.View(), errLine, helpView)
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		return styles.help.Render("Loading...")
	}

	title := styles.title.Render(m.detail.Title)

	var meta []string
	if m.detail.Genre != "" {
		meta = append(meta, m.detail.Genre)
	}
	if m.detail.DurationLabel != "" {
		meta = append(meta, m.detail.DurationLabel)
	}
	if m.detail.AverageRating > 0 {
		meta = append(meta, fmt.Sprintf("%.1f/5", m.detail.AverageRating))
	}

	state := "not in favorites"
	if m.deps.Favorites.Favorited(m.detail.ID) {
		state = styles.ok.Render("★ in favorites")
		if rating := m.deps.Favorites.Rating(m.detail.ID); rating > 0 {
			state += fmt.Sprintf("  rated %d/5", rating)
		}
	}

	var comments strings.Builder
	comments.WriteString("\nComments:\n")
	if len(m.comments) == 0 {
		comments.WriteString(styles.help.Render("  no comments yet") + "\n")
	}
	for _, c := range m.comments {
		line := fmt.Sprintf("  %s: %s", c.AuthorLabel, c.Text)
		if c.Pending {
			line = styles.help.Render(line + " (sending...)")
		}
		comments.WriteString(line + "\n")
	}

	var composer string
	if m.composing {
		composer = "\n" + m.commentInput.View()
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.favorite, m.keys.rate, m.keys.comment, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n%s%s\n\n%s", title, strings.Join(meta, " • "), state, comments.String(), composer, helpView)
}

func (m *Model) renderFavorites() string {
	if !m.favReady {
		return styles.help.Render("Loading favorites...")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.favorite, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.favList.View(), helpView)
}

func (m *Model) renderProfile() string {
	if m.session == nil {
		return styles.help.Render("Not signed in")
	}

	title := styles.title.Render("Account")
	info := fmt.Sprintf("Name: %s\nEmail: %s\nUser ID: %s", m.session.DisplayName, m.session.Email, m.session.UserID)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
