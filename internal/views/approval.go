package views

import (
	"context"

	"github.com/felixgeelhaar/biblio/internal/api"
)

// Approval lists documents awaiting validation. Rejecting deletes the document.
type Approval struct {
	backend DocumentBackend
	notify  Notifier

	docs  []Document
	tags  []api.Tag
	query string
	page  int
}

// NewApproval creates the approval view
func NewApproval(backend DocumentBackend, n Notifier) *Approval {
	return &Approval{backend: backend, notify: orDiscard(n), page: 1}
}

// Load fetches pending documents and tags
func (a *Approval) Load(ctx context.Context) error {
	docs, err := a.backend.ListPendingDocuments(ctx)
	if err != nil {
		return failure(a.notify, "Chargement impossible", err)
	}
	tags, err := a.backend.ListTags(ctx)
	if err != nil {
		return failure(a.notify, "Chargement impossible", err)
	}

	a.tags = tags
	a.docs = MapDocuments(docs, tags)
	a.page = ClampPage(a.page, Paginate(a.Filtered(), 1).TotalPages)
	return nil
}

// Documents returns every pending document
func (a *Approval) Documents() []Document {
	return a.docs
}

// SetQuery filters the list and returns to the first page
func (a *Approval) SetQuery(q string) {
	a.query = q
	a.page = 1
}

// Query returns the current filter
func (a *Approval) Query() string {
	return a.query
}

// Filtered returns the pending documents matching the query
func (a *Approval) Filtered() []Document {
	return filterDocuments(a.docs, a.query)
}

// SetPage moves to page n, clamped
func (a *Approval) SetPage(n int) {
	a.page = ClampPage(n, Paginate(a.Filtered(), 1).TotalPages)
}

// Page returns the current page of the filtered list
func (a *Approval) Page() Page[Document] {
	return Paginate(a.Filtered(), a.page)
}

func (a *Approval) find(id string) (Document, bool) {
	for _, d := range a.docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// Approve validates a pending document and reloads
func (a *Approval) Approve(ctx context.Context, id string) error {
	doc, ok := a.find(id)
	if !ok {
		return failure(a.notify, "Validation impossible", notInView(id))
	}
	if _, err := a.backend.ApproveDocument(ctx, id); err != nil {
		return failure(a.notify, "Validation impossible", err)
	}
	success(a.notify, "Document validé", doc.Title)
	_ = a.Load(ctx)
	return nil
}

// Reject deletes a pending document and reloads
func (a *Approval) Reject(ctx context.Context, id string) error {
	doc, ok := a.find(id)
	if !ok {
		return failure(a.notify, "Rejet impossible", notInView(id))
	}
	if err := a.backend.DeleteDocument(ctx, id); err != nil {
		return failure(a.notify, "Rejet impossible", err)
	}
	success(a.notify, "Document rejeté", doc.Title)
	_ = a.Load(ctx)
	return nil
}
