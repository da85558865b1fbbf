package views

import (
	"context"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/authz"
	"github.com/felixgeelhaar/biblio/internal/session"
)

// RecentLimit is the number of documents in the dashboard's recent list
const RecentLimit = 5

// Stats are the dashboard counters
type Stats struct {
	GeneralDocuments int
	MyDocuments      int
	Conversations    int

	// PendingApprovals is only counted for super admins; -1 otherwise.
	PendingApprovals int

	ByStatus map[string]int
	Recent   []Document
}

// Dashboard summarizes the libraries for the viewer
type Dashboard struct {
	backend Backend
	notify  Notifier
	viewer  session.Identity

	stats Stats
}

// NewDashboard creates the dashboard view
func NewDashboard(backend Backend, viewer session.Identity, n Notifier) *Dashboard {
	return &Dashboard{backend: backend, notify: orDiscard(n), viewer: viewer, stats: Stats{PendingApprovals: -1}}
}

// Load recomputes every counter. Nothing is replaced unless every call succeeds.
func (d *Dashboard) Load(ctx context.Context) error {
	docs, tags, err := loadDocuments(ctx, d.backend)
	if err != nil {
		return failure(d.notify, "Chargement impossible", err)
	}
	convs, err := d.backend.ListConversations(ctx)
	if err != nil {
		return failure(d.notify, "Chargement impossible", err)
	}

	pending := -1
	if d.viewer.Role == authz.RoleSuperAdmin {
		p, err := d.backend.ListPendingDocuments(ctx)
		if err != nil {
			return failure(d.notify, "Chargement impossible", err)
		}
		pending = len(p)
	}

	stats := Stats{
		Conversations:    len(convs),
		PendingApprovals: pending,
		ByStatus:         map[string]int{},
	}

	var visible []Document
	for _, doc := range MapDocuments(docs, tags) {
		if !doc.VisibleTo(d.viewer) {
			continue
		}
		visible = append(visible, doc)
		if doc.Source == api.SourceGeneral {
			stats.GeneralDocuments++
		}
		if doc.OwnedBy(d.viewer) {
			stats.MyDocuments++
		}
		stats.ByStatus[doc.Status]++
	}

	SortNewest(visible)
	if len(visible) > RecentLimit {
		visible = visible[:RecentLimit]
	}
	stats.Recent = visible

	d.stats = stats
	return nil
}

// Stats returns the last loaded counters
func (d *Dashboard) Stats() Stats {
	return d.stats
}

// Viewer returns the identity the dashboard was built for
func (d *Dashboard) Viewer() session.Identity {
	return d.viewer
}
