package tui

import (
	"context"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/apitest"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/session"
)

type harness struct {
	sh    *Shell
	srv   *apitest.Server
	store *session.Store
}

func newHarness(t *testing.T, role string) *harness {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("me@biblio.test", "secret", "Moi", role)

	var store *session.Store
	client := api.NewClient(srv.APIURL(), api.WithTokenFunc(func() string { return store.Token() }))
	store = session.NewStore(session.NewMemoryStorage(), client)

	sh := NewShell(context.Background(), store, router.NewDefault(store), client)
	return &harness{sh: sh, srv: srv, store: store}
}

// drive runs cmd and feeds the resulting messages back into the shell until
// nothing is left. Spinner ticks are dropped so the loop never waits on a timer.
func (h *harness) drive(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			h.drive(c)
		}
	default:
		_, next := h.sh.Update(msg)
		h.drive(next)
	}
}

func (h *harness) press(k tea.KeyType) {
	_, cmd := h.sh.Update(tea.KeyMsg{Type: k})
	h.drive(cmd)
}

func (h *harness) typeText(s string) {
	_, cmd := h.sh.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	h.drive(cmd)
}

func (h *harness) start() {
	h.drive(h.sh.Init())
}

func (h *harness) login(password string) {
	h.typeText("me@biblio.test")
	h.press(tea.KeyEnter)
	h.typeText(password)
	h.press(tea.KeyEnter)
}

func TestShell_LoadingShowsSpinner(t *testing.T) {
	h := newHarness(t, "user")

	h.drive(h.sh.navigate(router.PathDashboard))
	assert.Empty(t, h.sh.path, "nothing is rendered while the session loads")
	assert.Equal(t, router.PathDashboard, h.sh.requested)
	assert.Contains(t, h.sh.View(), "Chargement de la session")
}

func TestShell_StartsOnLogin(t *testing.T) {
	h := newHarness(t, "user")
	h.start()

	assert.Equal(t, router.PathLogin, h.sh.path)
	assert.Equal(t, fieldEmail, h.sh.focus)
	assert.Contains(t, h.sh.View(), "Mot de passe")
}

func TestShell_LoginLandsOnDestination(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"user", router.PathChat},
		{"admin", router.PathDashboard},
		{"super_admin", router.PathDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			h := newHarness(t, tt.role)
			h.start()
			h.login("secret")

			assert.Equal(t, tt.want, h.sh.path)
			assert.True(t, h.store.Snapshot().Authenticated())
			assert.False(t, h.sh.busy)
		})
	}
}

func TestShell_UserChatIsReady(t *testing.T) {
	h := newHarness(t, "user")
	h.start()
	h.login("secret")

	require.NotNil(t, h.sh.screen.chat)
	assert.Len(t, h.sh.screen.chat.Conversations(), 1, "a first conversation is created")
	assert.Equal(t, fieldCompose, h.sh.focus)

	h.typeText("Bonjour")
	h.press(tea.KeyEnter)

	msgs := h.sh.screen.chat.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Bonjour", msgs[0].Content)
	assert.Empty(t, h.sh.compose.Value())

	h.press(tea.KeyEnter)
	assert.Len(t, h.sh.screen.chat.Messages(), 1, "blank input is not sent")
}

func TestShell_LoginFailure(t *testing.T) {
	h := newHarness(t, "user")
	h.start()
	h.login("wrong")

	assert.Equal(t, router.PathLogin, h.sh.path)
	assert.Equal(t, "Identifiants invalides.", h.sh.loginErr)
	assert.False(t, h.store.Snapshot().Authenticated())
	assert.False(t, h.store.Snapshot().IsLoading)
	assert.Contains(t, h.sh.View(), "Échec de la connexion")
}

func TestShell_MenuAndLogout(t *testing.T) {
	h := newHarness(t, "super_admin")
	h.start()
	h.login("secret")

	menu := h.sh.menu()
	require.Len(t, menu, 7)
	require.Equal(t, router.PathUsers, menu[6].Path)

	h.typeText("7")
	assert.Equal(t, router.PathUsers, h.sh.path)
	require.NotNil(t, h.sh.screen.users)
	assert.Len(t, h.sh.screen.users.Accounts(), 1)

	h.typeText("o")
	assert.Equal(t, router.PathLogin, h.sh.path, "logging out re-resolves the current route")
	assert.False(t, h.store.Snapshot().Authenticated())
	assert.Nil(t, h.sh.screen.users)
}

func TestShell_RoleRedirects(t *testing.T) {
	t.Run("admin on approvals lands on the dashboard", func(t *testing.T) {
		h := newHarness(t, "admin")
		h.start()
		h.login("secret")

		h.drive(h.sh.navigate(router.PathApprovals))
		assert.Equal(t, router.PathDashboard, h.sh.path)
		require.NotNil(t, h.sh.notice)
		assert.Equal(t, "Accès refusé", h.sh.notice.Title)
	})

	t.Run("user on users sees the forbidden view", func(t *testing.T) {
		h := newHarness(t, "user")
		h.start()
		h.login("secret")

		h.drive(h.sh.navigate(router.PathUsers))
		assert.Equal(t, router.PathUsers, h.sh.path)
		assert.True(t, h.sh.forbidden)
		assert.Contains(t, h.sh.View(), "droits nécessaires")
	})

	t.Run("unknown path keeps the current view", func(t *testing.T) {
		h := newHarness(t, "admin")
		h.start()
		h.login("secret")

		h.drive(h.sh.navigate("/nowhere"))
		assert.Equal(t, router.PathDashboard, h.sh.path)
		require.NotNil(t, h.sh.notice)
		assert.Equal(t, "Navigation impossible", h.sh.notice.Title)
	})
}

func TestShell_LibraryFilter(t *testing.T) {
	h := newHarness(t, "admin")
	h.srv.AddDocument(api.Document{Title: "Atlas", Source: api.SourceGeneral})
	h.srv.AddDocument(api.Document{Title: "Code civil", Source: api.SourceGeneral})
	h.start()
	h.login("secret")

	h.typeText("2")
	require.NotNil(t, h.sh.screen.library)
	assert.Len(t, h.sh.screen.library.Filtered(), 2)

	h.typeText("/")
	assert.Equal(t, fieldQuery, h.sh.focus)
	h.typeText("atlas")
	h.press(tea.KeyEnter)

	assert.Equal(t, fieldNone, h.sh.focus)
	assert.Len(t, h.sh.screen.library.Filtered(), 1)

	h.typeText("r")
	assert.Equal(t, "atlas", h.sh.screen.library.Query(), "refresh keeps the filter")
}

func TestShell_ApproveSelected(t *testing.T) {
	h := newHarness(t, "super_admin")
	h.srv.AddPendingDocument(api.Document{Title: "Thèse"})
	h.start()
	h.login("secret")

	h.typeText("6")
	require.NotNil(t, h.sh.screen.approval)
	require.Len(t, h.sh.screen.approval.Documents(), 1)

	h.typeText("a")
	assert.Empty(t, h.sh.screen.approval.Documents())
	require.NotNil(t, h.sh.notice)
	assert.Equal(t, "Document validé", h.sh.notice.Title)
}

func TestShell_StaleLoadIgnored(t *testing.T) {
	h := newHarness(t, "admin")
	h.start()
	h.login("secret")
	require.NotNil(t, h.sh.screen.dashboard)

	h.sh.seq = 10
	h.sh.Update(loadedMsg{seq: 9, screen: screen{path: router.PathDashboard}})
	assert.NotNil(t, h.sh.screen.dashboard, "a superseded load does not replace the screen")
}

func TestShell_Quit(t *testing.T) {
	h := newHarness(t, "admin")
	h.start()
	h.login("secret")

	_, cmd := h.sh.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, h.sh.quitting)
	assert.Empty(t, h.sh.View())
}
