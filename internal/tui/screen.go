package tui

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/session"
	"github.com/felixgeelhaar/biblio/internal/views"
)

// screen holds the view model of one path. A screen is built and loaded inside a
// command and handed to Update whole; Update never shares it with a running command.
type screen struct {
	path string

	dashboard *views.Dashboard
	library   *views.Library
	search    *views.Search
	chat      *views.Chat
	approval  *views.Approval
	users     *views.Users

	// searchQuery is the last query run on the search view
	searchQuery string
}

func newScreen(path string, backend views.Backend, viewer session.Identity, n views.Notifier) screen {
	s := screen{path: path}
	switch path {
	case router.PathDashboard:
		s.dashboard = views.NewDashboard(backend, viewer, n)
	case router.PathGeneralLibrary:
		s.library = views.NewGeneralLibrary(backend, viewer, n)
	case router.PathMyLibrary:
		s.library = views.NewPersonalLibrary(backend, viewer, n)
	case router.PathSearch:
		s.search = views.NewSearch(backend, viewer, n)
	case router.PathChat:
		s.chat = views.NewChat(backend, n)
	case router.PathApprovals:
		s.approval = views.NewApproval(backend, n)
	case router.PathUsers:
		s.users = views.NewUsers(backend, n)
	}
	return s
}

func (s *screen) load(ctx context.Context) error {
	switch {
	case s.dashboard != nil:
		return s.dashboard.Load(ctx)
	case s.library != nil:
		return s.library.Load(ctx)
	case s.search != nil:
		return s.search.Load(ctx)
	case s.chat != nil:
		return s.chat.Load(ctx)
	case s.approval != nil:
		return s.approval.Load(ctx)
	case s.users != nil:
		return s.users.Load(ctx)
	}
	return nil
}

// carried is the user-controlled state a reload keeps
type carried struct {
	query    string
	page     int
	selected string
}

func (s *screen) carried() carried {
	var c carried
	switch {
	case s.library != nil:
		c.query, c.page = s.library.Query(), s.library.Page().Number
	case s.approval != nil:
		c.query, c.page = s.approval.Query(), s.approval.Page().Number
	case s.search != nil:
		c.query = s.searchQuery
	case s.chat != nil:
		if conv, ok := s.chat.Selected(); ok {
			c.selected = conv.ID
		}
	}
	return c
}

func (s *screen) restore(c carried) {
	switch {
	case s.library != nil:
		s.library.SetQuery(c.query)
		s.library.SetPage(c.page)
	case s.approval != nil:
		s.approval.SetQuery(c.query)
		s.approval.SetPage(c.page)
	case s.search != nil:
		s.searchQuery = c.query
	case s.chat != nil && c.selected != "":
		_ = s.chat.Select(c.selected)
	}
}

// inbox collects the notices a command's views emit
type inbox struct {
	mu      sync.Mutex
	notices []views.Notice
}

func (b *inbox) Notify(n views.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
}

func (b *inbox) last() *views.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.notices) == 0 {
		return nil
	}
	n := b.notices[len(b.notices)-1]
	return &n
}
