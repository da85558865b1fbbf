package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/views"
)

// View renders the shell (required by Bubble Tea)
func (m *Shell) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("📚 Bibliothèque Numérique"))
	b.WriteString("\n")

	sess := m.sessions.Snapshot()
	switch {
	case m.path == "" || (sess.IsLoading && !sess.Authenticated() && m.path != router.PathLogin):
		b.WriteString(m.spinner.View() + " Chargement de la session…\n")
	case m.path == router.PathLogin:
		b.WriteString(m.renderLogin())
	default:
		body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", m.renderMain())
		b.WriteString(body)
		b.WriteString("\n")
	}

	if m.notice != nil {
		b.WriteString("\n" + m.renderNotice(*m.notice) + "\n")
	}
	b.WriteString(m.renderHelpLine())
	return b.String()
}

func (m *Shell) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Connexion") + "\n\n")
	b.WriteString("Email        " + m.email.View() + "\n")
	b.WriteString("Mot de passe " + m.password.View() + "\n")
	if m.busy {
		b.WriteString("\n" + m.spinner.View() + " Connexion en cours…\n")
	}
	if m.loginErr != "" {
		b.WriteString("\n" + m.styles.Error.Render("Échec de la connexion: ") + m.loginErr + "\n")
	}
	return m.styles.Border.Render(b.String())
}

func (m *Shell) renderSidebar() string {
	var b strings.Builder
	sess := m.sessions.Snapshot()
	if sess.User != nil {
		b.WriteString(m.styles.Status.Render(sess.User.DisplayName()) + "\n")
		b.WriteString(m.styles.Muted.Render(sess.User.Role.Label()) + "\n\n")
	}

	for i, route := range m.menu() {
		line := fmt.Sprintf("%d %s", i+1, route.Title)
		if route.Path == m.path {
			line = m.styles.Highlighted.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return m.styles.Sidebar.Render(b.String())
}

func (m *Shell) renderMain() string {
	var b strings.Builder
	if route, ok := m.router.Lookup(m.path); ok {
		b.WriteString(m.styles.Subtitle.Render(route.Title))
		if m.busy {
			b.WriteString(" " + m.spinner.View())
		}
		b.WriteString("\n\n")
	}

	if m.forbidden {
		b.WriteString(m.styles.Error.Render("Accès refusé") + "\n")
		b.WriteString("Vous n'avez pas les droits nécessaires pour accéder à cette page.\n")
		return b.String()
	}

	s := &m.screen
	switch {
	case s.dashboard != nil:
		b.WriteString(m.renderDashboard(s.dashboard.Stats()))
	case s.library != nil:
		b.WriteString(m.renderQuery(s.library.Query()))
		b.WriteString(m.renderDocuments(s.library.Page()))
	case s.approval != nil:
		b.WriteString(m.renderQuery(s.approval.Query()))
		b.WriteString(m.renderDocuments(s.approval.Page()))
	case s.search != nil:
		b.WriteString(m.renderQuery(s.searchQuery))
		results := s.search.Run(s.searchQuery, views.ScopeAll)
		if strings.TrimSpace(s.searchQuery) == "" {
			b.WriteString(m.styles.Muted.Render("Appuyez sur / pour rechercher.") + "\n")
		} else {
			b.WriteString(m.renderDocuments(views.Paginate(results, 1)))
		}
	case s.chat != nil:
		b.WriteString(m.renderChat())
	case s.users != nil:
		b.WriteString(m.renderUsers(s.users.Accounts()))
	}
	return b.String()
}

func (m *Shell) renderQuery(current string) string {
	if m.focus == fieldQuery {
		return "Filtre " + m.query.View() + "\n\n"
	}
	if current != "" {
		return m.styles.Muted.Render("Filtre: "+current) + "\n\n"
	}
	return ""
}

func (m *Shell) renderDashboard(st views.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bibliothèque générale  %d\n", st.GeneralDocuments)
	fmt.Fprintf(&b, "Mes documents          %d\n", st.MyDocuments)
	fmt.Fprintf(&b, "Conversations          %d\n", st.Conversations)
	if st.PendingApprovals >= 0 {
		fmt.Fprintf(&b, "En attente             %d\n", st.PendingApprovals)
	}

	if len(st.Recent) > 0 {
		b.WriteString("\n" + m.styles.Subtitle.Render("Récents") + "\n")
		for _, d := range st.Recent {
			fmt.Fprintf(&b, "• %s %s\n", d.Title, m.styles.Muted.Render(d.StatusLabel()))
		}
	}
	return b.String()
}

func (m *Shell) renderDocuments(page views.Page[views.Document]) string {
	if page.Total == 0 {
		return m.styles.Muted.Render("Aucun document.") + "\n"
	}

	var b strings.Builder
	for i, d := range page.Items {
		line := fmt.Sprintf("%-36s %-14s %-4s %s", truncate(d.Title, 36), truncate(d.Tag(), 14), d.Language, d.StatusLabel())
		if i == m.cursor {
			line = m.styles.Highlighted.Render(line)
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "\n%s\n", m.styles.Muted.Render(fmt.Sprintf("Page %d/%d · %d documents", page.Number, page.TotalPages, page.Total)))
	return b.String()
}

func (m *Shell) renderChat() string {
	chat := m.screen.chat
	var b strings.Builder

	current, _ := chat.Selected()
	for _, c := range chat.Conversations() {
		title := c.Title
		if title == "" {
			title = api.DefaultConversationTitle
		}
		if c.ID == current.ID {
			title = m.styles.Highlighted.Render(title)
		}
		b.WriteString(title + "  ")
	}
	b.WriteString("\n\n")

	msgs := chat.Messages()
	if len(msgs) == 0 {
		b.WriteString(m.styles.Muted.Render("Aucun message pour le moment.") + "\n")
	}
	for _, msg := range msgs {
		who := m.styles.Key.Render("Vous")
		if msg.Sender == api.SenderAssistant {
			who = m.styles.Status.Render("Assistant")
		}
		fmt.Fprintf(&b, "%s %s\n%s\n\n", who, m.styles.Muted.Render(msg.CreatedAt.Local().Format("15:04")), msg.Content)
	}
	b.WriteString("> " + m.compose.View() + "\n")
	return b.String()
}

func (m *Shell) renderUsers(accounts []views.Account) string {
	if len(accounts) == 0 {
		return m.styles.Muted.Render("Aucun utilisateur.") + "\n"
	}
	var b strings.Builder
	for _, a := range accounts {
		fmt.Fprintf(&b, "%-24s %-32s %s\n", truncate(a.Name, 24), truncate(a.Email, 32), a.Role.Label())
	}
	return b.String()
}

func (m *Shell) renderNotice(n views.Notice) string {
	style := m.styles.Status
	switch n.Level {
	case views.LevelSuccess:
		style = m.styles.Success
	case views.LevelError:
		style = m.styles.Error
	}
	if n.Message == "" {
		return style.Render(n.Title)
	}
	return style.Render(n.Title+": ") + n.Message
}

// renderHelpLine renders the key hints of the current view
func (m *Shell) renderHelpLine() string {
	item := func(k, desc string) string { return m.styles.Key.Render(k) + " " + desc }

	var items []string
	switch {
	case m.path == router.PathLogin:
		items = []string{item("tab", "field"), item("enter", "login"), item("ctrl+c", "quit")}
	case m.focus != fieldNone:
		items = []string{item("enter", "submit"), item("esc", "cancel")}
	default:
		items = []string{item("1-9", "menu"), item("r", "refresh")}
		s := &m.screen
		if s.library != nil || s.approval != nil || s.search != nil {
			items = append(items, item("/", "filter"))
		}
		if m.showHelp {
			switch {
			case s.library != nil:
				items = append(items, item("n/p", "page"), item("d", "delete"))
			case s.approval != nil:
				items = append(items, item("n/p", "page"), item("a", "approve"), item("x", "reject"))
			case s.chat != nil:
				items = append(items, item("i", "write"), item("c", "new"), item("tab", "next"))
			}
		}
		items = append(items, item("o", "logout"), item("?", "help"), item("q", "quit"))
	}
	return m.styles.Help.Render(strings.Join(items, " • "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
