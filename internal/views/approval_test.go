package views

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/biblio/internal/api"
)

func TestApproval_ApproveAndReject(t *testing.T) {
	f := newFixture(t, "super_admin")
	keep := f.srv.AddPendingDocument(api.Document{Title: "Thèse", Source: api.SourceGeneral})
	drop := f.srv.AddPendingDocument(api.Document{Title: "Brouillon", Source: api.SourceGeneral})

	view := NewApproval(f.client, f.notes)
	require.NoError(t, view.Load(context.Background()))
	require.Len(t, view.Documents(), 2)
	assert.Equal(t, "En validation", view.Documents()[0].StatusLabel())

	require.NoError(t, view.Approve(context.Background(), keep.ID))
	require.Len(t, view.Documents(), 1)
	assert.Equal(t, "Document validé", f.notes.last().Title)

	require.NoError(t, view.Reject(context.Background(), drop.ID))
	assert.Empty(t, view.Documents())

	docs := f.srv.Documents()
	require.Len(t, docs, 1, "rejecting deletes the document")
	assert.Equal(t, keep.ID, docs[0].ID)
}

func TestApproval_FilterAndPage(t *testing.T) {
	f := newFixture(t, "super_admin")
	for i := 0; i < 12; i++ {
		f.srv.AddPendingDocument(api.Document{Title: "Mémoire", Filename: "m.pdf"})
	}
	f.srv.AddPendingDocument(api.Document{Title: "Atlas"})

	view := NewApproval(f.client, f.notes)
	require.NoError(t, view.Load(context.Background()))
	assert.Equal(t, 2, view.Page().TotalPages)

	view.SetQuery("atlas")
	assert.Len(t, view.Filtered(), 1)
	view.SetPage(5)
	assert.Equal(t, 1, view.Page().Number)
}

func TestApproval_ApproveFailureKeepsList(t *testing.T) {
	f := newFixture(t, "super_admin")
	doc := f.srv.AddPendingDocument(api.Document{Title: "Thèse"})

	view := NewApproval(f.client, f.notes)
	require.NoError(t, view.Load(context.Background()))

	f.srv.FailNext(http.MethodPost, "/documents/"+doc.ID+"/approve/", http.StatusInternalServerError, `{"detail": "erreur"}`)
	require.Error(t, view.Approve(context.Background(), doc.ID))
	assert.Len(t, view.Documents(), 1)
	assert.Equal(t, "erreur", f.notes.last().Message)
}
