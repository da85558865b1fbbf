package views

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/session"
)

// Scope narrows a search
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeGeneral  Scope = "general"
	ScopePersonal Scope = "personal"
)

// ParseScope accepts all, general or personal; anything else is ScopeAll
func ParseScope(s string) Scope {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeGeneral:
		return ScopeGeneral
	case ScopePersonal:
		return ScopePersonal
	default:
		return ScopeAll
	}
}

// Search is keyword search over the documents visible to the viewer
type Search struct {
	backend DocumentBackend
	notify  Notifier
	viewer  session.Identity

	docs []Document
}

// NewSearch creates the search view
func NewSearch(backend DocumentBackend, viewer session.Identity, n Notifier) *Search {
	return &Search{backend: backend, notify: orDiscard(n), viewer: viewer}
}

// Load fetches the searchable documents
func (s *Search) Load(ctx context.Context) error {
	docs, tags, err := loadDocuments(ctx, s.backend)
	if err != nil {
		return failure(s.notify, "Chargement impossible", err)
	}

	visible := make([]Document, 0, len(docs))
	for _, d := range MapDocuments(docs, tags) {
		if d.VisibleTo(s.viewer) {
			visible = append(visible, d)
		}
	}
	s.docs = visible
	return nil
}

// Run returns the documents in scope whose title, filename, language or tag
// contain query. A blank query returns nothing.
func (s *Search) Run(query string, scope Scope) []Document {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var results []Document
	for _, d := range s.docs {
		if !inScope(d, scope, s.viewer) {
			continue
		}
		if strings.Contains(d.haystack(), q) {
			results = append(results, d)
		}
	}
	return results
}

func inScope(d Document, scope Scope, viewer session.Identity) bool {
	switch scope {
	case ScopeGeneral:
		return d.Source == api.SourceGeneral
	case ScopePersonal:
		return d.OwnedBy(viewer)
	default:
		return d.VisibleTo(viewer)
	}
}
