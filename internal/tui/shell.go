package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/biblio/internal/authz"
	"github.com/felixgeelhaar/biblio/internal/guard"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/session"
	"github.com/felixgeelhaar/biblio/internal/views"
)

// Sessions is the session API the shell drives. *session.Store satisfies it.
type Sessions interface {
	Initialize(ctx context.Context) error
	Login(ctx context.Context, email, password string) (authz.Role, error)
	Logout(ctx context.Context)
	Snapshot() session.Session
	Subscribe(fn session.Listener) (unsubscribe func())
}

// field is the text input holding keyboard focus
type field int

const (
	fieldNone field = iota
	fieldEmail
	fieldPassword
	fieldQuery
	fieldCompose
)

// Shell is the interactive bubbletea model. Every navigation goes through the
// router; the current route is resolved again after each session change.
type Shell struct {
	ctx      context.Context
	sessions Sessions
	router   *router.Router
	backend  views.Backend
	styles   Styles

	spinner  spinner.Model
	email    textinput.Model
	password textinput.Model
	query    textinput.Model
	compose  textinput.Model
	focus    field

	// requested is the path the shell is trying to show, path the one it shows
	requested string
	path      string
	forbidden bool

	screen screen
	seq    int
	busy   bool
	cursor int

	notice   *views.Notice
	loginErr string
	showHelp bool

	width    int
	height   int
	quitting bool
}

// Custom messages

type initDoneMsg struct{ err error }

// sessionMsg reports a session store change
type sessionMsg struct{}

type loginDoneMsg struct {
	role authz.Role
	err  error
}

type logoutDoneMsg struct{}

// loadedMsg carries a freshly loaded screen. seq ties it to the navigation that
// started it; results of superseded loads are dropped.
type loadedMsg struct {
	seq    int
	screen screen
	notice *views.Notice
	err    error
}

// NewShell creates the shell model
func NewShell(ctx context.Context, sessions Sessions, r *router.Router, backend views.Backend) *Shell {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles().Status

	return &Shell{
		ctx:      ctx,
		sessions: sessions,
		router:   r,
		backend:  backend,
		styles:   DefaultStyles(),
		spinner:  sp,
		email:    newInput("email@exemple.fr", false),
		password: newInput("mot de passe", true),
		query:    newInput("filtrer…", false),
		compose:  newInput("Posez votre question…", false),
	}
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Cursor.SetMode(cursor.CursorStatic)
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

// Run starts the shell on the terminal and blocks until the user quits
func Run(ctx context.Context, sessions Sessions, r *router.Router, backend views.Backend) error {
	m := NewShell(ctx, sessions, r, backend)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := sessions.Subscribe(func(session.Session) { p.Send(sessionMsg{}) })
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Init starts session initialization (required by Bubble Tea)
func (m *Shell) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initialize())
}

func (m *Shell) initialize() tea.Cmd {
	ctx, sessions := m.ctx, m.sessions
	return func() tea.Msg {
		return initDoneMsg{err: sessions.Initialize(ctx)}
	}
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case initDoneMsg:
		if msg.err != nil {
			m.notice = &views.Notice{Level: views.LevelError, Title: "Session illisible", Message: views.ErrorMessage(msg.err)}
		}
		return m, m.reroute()

	case sessionMsg:
		return m, m.reroute()

	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.loginErr = views.ErrorMessage(msg.err)
			return m, nil
		}
		m.loginErr = ""
		m.password.SetValue("")
		m.requested = router.PathLogin
		return m, m.reroute()

	case logoutDoneMsg:
		m.screen = screen{}
		m.notice = &views.Notice{Level: views.LevelInfo, Title: "Déconnecté"}
		return m, m.reroute()

	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.busy = false
		if msg.notice != nil {
			m.notice = msg.notice
		}
		if msg.err == nil && msg.screen.path == m.path {
			m.screen = msg.screen
			m.clampCursor()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m *Shell) spinning() bool {
	return m.busy || m.sessions.Snapshot().IsLoading
}

// reroute resolves the requested path against the current session
func (m *Shell) reroute() tea.Cmd {
	sess := m.sessions.Snapshot()
	if m.requested == "" || (m.requested == router.PathLogin && sess.Authenticated()) {
		switch {
		case sess.Authenticated():
			return m.navigate(router.Destination(sess.Role()))
		case sess.IsLoading:
			return m.spinner.Tick
		default:
			return m.navigate(router.PathLogin)
		}
	}
	return m.navigate(m.requested)
}

// navigate runs the router on path and shows where it lands
func (m *Shell) navigate(path string) tea.Cmd {
	nav, err := m.router.Navigate(path)
	if err != nil {
		m.notice = &views.Notice{Level: views.LevelError, Title: "Navigation impossible", Message: views.ErrorMessage(err)}
		return nil
	}

	final := nav.Final
	switch final.Decision.Kind {
	case guard.Loading:
		m.requested = nav.Requested
		return m.spinner.Tick
	case guard.Fallback:
		m.show(final.Path)
		m.forbidden = true
		return nil
	}

	if nav.Redirected() && final.Path == router.PathDashboard && nav.Requested != router.PathRoot {
		m.notice = &views.Notice{Level: views.LevelInfo, Title: "Accès refusé", Message: "Redirection vers le tableau de bord"}
	}
	m.show(final.Path)

	switch m.path {
	case router.PathLogin:
		m.setFocus(fieldEmail)
		return nil
	case router.PathChat:
		m.setFocus(fieldCompose)
	}
	return m.load()
}

func (m *Shell) show(path string) {
	if path != m.path {
		m.screen = screen{}
		m.cursor = 0
		m.query.SetValue("")
	}
	m.requested, m.path, m.forbidden = path, path, false
	m.setFocus(fieldNone)
}

// op is an action run on a freshly loaded screen
type op func(ctx context.Context, s *screen) error

// load reloads the current screen
func (m *Shell) load() tea.Cmd {
	return m.run(nil)
}

// run builds the current path's screen in a command, loads it, restores the
// carried state and applies f
func (m *Shell) run(f op) tea.Cmd {
	if m.path == "" || m.path == router.PathLogin || m.forbidden {
		return nil
	}
	sess := m.sessions.Snapshot()
	if sess.User == nil {
		return nil
	}

	m.seq++
	m.busy = true
	seq, path, viewer := m.seq, m.path, *sess.User
	state := m.screen.carried()
	ctx, backend := m.ctx, m.backend

	load := func() tea.Msg {
		box := &inbox{}
		s := newScreen(path, backend, viewer, box)
		err := s.load(ctx)
		if err == nil {
			s.restore(state)
			if f != nil {
				err = f(ctx, &s)
			}
		}
		return loadedMsg{seq: seq, screen: s, notice: box.last(), err: err}
	}
	return tea.Batch(m.spinner.Tick, load)
}

func (m *Shell) setFocus(f field) {
	m.focus = f
	inputs := map[field]*textinput.Model{
		fieldEmail:    &m.email,
		fieldPassword: &m.password,
		fieldQuery:    &m.query,
		fieldCompose:  &m.compose,
	}
	for k, in := range inputs {
		if k == f {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// handleKeyPress handles keyboard input
func (m *Shell) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.focus != fieldNone {
		return m.handleInput(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, keys.Logout):
		return m, m.logout()
	case key.Matches(msg, keys.Refresh):
		return m, m.load()
	}

	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 {
		return m, m.openMenu(n)
	}

	return m, m.handleViewKey(msg)
}

// openMenu navigates to the n-th sidebar entry
func (m *Shell) openMenu(n int) tea.Cmd {
	menu := m.menu()
	if n > len(menu) {
		return nil
	}
	m.notice = nil
	return m.navigate(menu[n-1].Path)
}

func (m *Shell) menu() []router.Route {
	sess := m.sessions.Snapshot()
	if !sess.Authenticated() {
		return nil
	}
	return m.router.Menu(sess.Role())
}

// handleViewKey handles the keys of the current view
func (m *Shell) handleViewKey(msg tea.KeyMsg) tea.Cmd {
	s := &m.screen
	switch {
	case key.Matches(msg, keys.Search) && (s.library != nil || s.approval != nil || s.search != nil):
		m.setFocus(fieldQuery)
	case key.Matches(msg, keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, keys.NextPage):
		m.turnPage(1)
	case key.Matches(msg, keys.PrevPage):
		m.turnPage(-1)
	case key.Matches(msg, keys.Approve) && s.approval != nil:
		if id, ok := m.selectedDocument(); ok {
			return m.run(func(ctx context.Context, s *screen) error { return s.approval.Approve(ctx, id) })
		}
	case key.Matches(msg, keys.Reject) && s.approval != nil:
		if id, ok := m.selectedDocument(); ok {
			return m.run(func(ctx context.Context, s *screen) error { return s.approval.Reject(ctx, id) })
		}
	case key.Matches(msg, keys.Delete) && s.library != nil:
		if id, ok := m.selectedDocument(); ok {
			return m.run(func(ctx context.Context, s *screen) error { return s.library.Delete(ctx, id) })
		}
	case key.Matches(msg, keys.NewChat) && s.chat != nil:
		m.setFocus(fieldCompose)
		return m.run(func(ctx context.Context, s *screen) error {
			_, err := s.chat.NewConversation(ctx, "")
			return err
		})
	case key.Matches(msg, keys.NextChat) && s.chat != nil:
		m.nextConversation()
	case key.Matches(msg, keys.Compose) && s.chat != nil:
		m.setFocus(fieldCompose)
	}
	return nil
}

// handleInput routes keys to the focused text input
func (m *Shell) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	login := m.focus == fieldEmail || m.focus == fieldPassword

	switch {
	case key.Matches(msg, keys.Cancel) && !login:
		m.setFocus(fieldNone)
		return m, nil
	case key.Matches(msg, keys.SwitchFocus) && login:
		if m.focus == fieldEmail {
			m.setFocus(fieldPassword)
		} else {
			m.setFocus(fieldEmail)
		}
		return m, nil
	case key.Matches(msg, keys.Submit):
		return m, m.submit()
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	case fieldQuery:
		m.query, cmd = m.query.Update(msg)
	case fieldCompose:
		m.compose, cmd = m.compose.Update(msg)
	}
	return m, cmd
}

// submit handles enter in the focused input
func (m *Shell) submit() tea.Cmd {
	switch m.focus {
	case fieldEmail:
		m.setFocus(fieldPassword)
		return nil
	case fieldPassword:
		return m.login()
	case fieldQuery:
		m.applyQuery(m.query.Value())
		m.setFocus(fieldNone)
		return nil
	case fieldCompose:
		content := m.compose.Value()
		if strings.TrimSpace(content) == "" || m.screen.chat == nil {
			return nil
		}
		m.compose.SetValue("")
		return m.run(func(ctx context.Context, s *screen) error {
			_, err := s.chat.Send(ctx, content)
			return err
		})
	}
	return nil
}

func (m *Shell) login() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.loginErr = "Email et mot de passe requis"
		return nil
	}

	m.busy = true
	m.loginErr = ""
	ctx, sessions := m.ctx, m.sessions
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		role, err := sessions.Login(ctx, email, password)
		return loginDoneMsg{role: role, err: err}
	})
}

func (m *Shell) logout() tea.Cmd {
	ctx, sessions := m.ctx, m.sessions
	m.seq++
	return func() tea.Msg {
		sessions.Logout(ctx)
		return logoutDoneMsg{}
	}
}

func (m *Shell) applyQuery(q string) {
	s := &m.screen
	switch {
	case s.library != nil:
		s.library.SetQuery(q)
	case s.approval != nil:
		s.approval.SetQuery(q)
	case s.search != nil:
		s.searchQuery = q
	}
	m.cursor = 0
}

func (m *Shell) turnPage(delta int) {
	s := &m.screen
	switch {
	case s.library != nil:
		s.library.SetPage(s.library.Page().Number + delta)
	case s.approval != nil:
		s.approval.SetPage(s.approval.Page().Number + delta)
	default:
		return
	}
	m.cursor = 0
}

// rows returns the documents listed on the current view
func (m *Shell) rows() []views.Document {
	s := &m.screen
	switch {
	case s.library != nil:
		return s.library.Page().Items
	case s.approval != nil:
		return s.approval.Page().Items
	case s.search != nil:
		return s.search.Run(s.searchQuery, views.ScopeAll)
	}
	return nil
}

func (m *Shell) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Shell) selectedDocument() (string, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return "", false
	}
	return rows[m.cursor].ID, true
}

func (m *Shell) nextConversation() {
	chat := m.screen.chat
	convs := chat.Conversations()
	if len(convs) == 0 {
		return
	}
	current, _ := chat.Selected()
	next := 0
	for i, c := range convs {
		if c.ID == current.ID {
			next = (i + 1) % len(convs)
		}
	}
	_ = chat.Select(convs[next].ID)
}

var _ tea.Model = (*Shell)(nil)
