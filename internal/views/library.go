package views

import (
	"context"
	"io"
	"strings"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/authz"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/session"
)

// DefaultLanguage is applied to uploads without a language
const DefaultLanguage = "fr"

// Library is the general or the personal document library
type Library struct {
	backend DocumentBackend
	notify  Notifier
	viewer  session.Identity
	source  string

	docs  []Document
	tags  []api.Tag
	query string
	page  int
}

// NewGeneralLibrary shows documents whose source is general
func NewGeneralLibrary(backend DocumentBackend, viewer session.Identity, n Notifier) *Library {
	return &Library{backend: backend, notify: orDiscard(n), viewer: viewer, source: api.SourceGeneral, page: 1}
}

// NewPersonalLibrary shows the viewer's personal documents
func NewPersonalLibrary(backend DocumentBackend, viewer session.Identity, n Notifier) *Library {
	return &Library{backend: backend, notify: orDiscard(n), viewer: viewer, source: api.SourcePersonal, page: 1}
}

// Source returns api.SourceGeneral or api.SourcePersonal
func (l *Library) Source() string {
	return l.source
}

// Title is the screen heading
func (l *Library) Title() string {
	if l.source == api.SourceGeneral {
		return "Bibliothèque générale"
	}
	return "Ma bibliothèque"
}

// Load fetches documents and tags
func (l *Library) Load(ctx context.Context) error {
	docs, tags, err := loadDocuments(ctx, l.backend)
	if err != nil {
		return failure(l.notify, "Chargement impossible", err)
	}
	l.tags = tags
	l.docs = l.scope(MapDocuments(docs, tags))
	l.page = ClampPage(l.page, l.pageCount())
	return nil
}

func loadDocuments(ctx context.Context, backend DocumentBackend) ([]api.Document, []api.Tag, error) {
	docs, err := backend.ListDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	tags, err := backend.ListTags(ctx)
	if err != nil {
		return nil, nil, err
	}
	return docs, tags, nil
}

func (l *Library) scope(all []Document) []Document {
	out := make([]Document, 0, len(all))
	for _, d := range all {
		switch l.source {
		case api.SourceGeneral:
			if d.Source == api.SourceGeneral {
				out = append(out, d)
			}
		default:
			if d.OwnedBy(l.viewer) {
				out = append(out, d)
			}
		}
	}
	return out
}

// Documents returns every document of the library, unfiltered
func (l *Library) Documents() []Document {
	return l.docs
}

// Tags returns the tags loaded with the documents
func (l *Library) Tags() []api.Tag {
	return l.tags
}

// SetQuery filters the list and returns to the first page
func (l *Library) SetQuery(q string) {
	l.query = q
	l.page = 1
}

// Query returns the current filter
func (l *Library) Query() string {
	return l.query
}

// Filtered returns the documents matching the query
func (l *Library) Filtered() []Document {
	return filterDocuments(l.docs, l.query)
}

func filterDocuments(docs []Document, query string) []Document {
	if strings.TrimSpace(query) == "" {
		return docs
	}
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.MatchesAny(query) {
			out = append(out, d)
		}
	}
	return out
}

func (l *Library) pageCount() int {
	return Paginate(l.Filtered(), 1).TotalPages
}

// SetPage moves to page n, clamped to the available pages
func (l *Library) SetPage(n int) {
	l.page = ClampPage(n, l.pageCount())
}

// Page returns the current page of the filtered list
func (l *Library) Page() Page[Document] {
	return Paginate(l.Filtered(), l.page)
}

// Find returns the library document with id
func (l *Library) Find(id string) (Document, bool) {
	for _, d := range l.docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// UploadInput describes a file to add to the library
type UploadInput struct {
	File     io.Reader
	FileName string
	Title    string // defaults to the file name without extension
	Language string // defaults to DefaultLanguage
	TagID    *int
}

// CanUpload reports whether the viewer may add documents here.
// The general library takes uploads from admins and super admins only.
func (l *Library) CanUpload() bool {
	if l.source == api.SourceGeneral {
		return l.viewer.Role.Includes(authz.RoleAdmin)
	}
	return true
}

// Upload sends the file into this library's source and reloads
func (l *Library) Upload(ctx context.Context, in UploadInput) (*Document, error) {
	if !l.CanUpload() {
		return nil, failure(l.notify, "Téléversement refusé",
			berrors.New(berrors.ErrCodeForbidden, "uploading to the general library requires the admin role"))
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = TitleFromFilename(in.FileName)
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = DefaultLanguage
	}

	created, err := l.backend.UploadDocument(ctx, api.UploadDocumentRequest{
		File:     in.File,
		FileName: in.FileName,
		Title:    title,
		Tag:      in.TagID,
		Source:   l.source,
		Language: language,
	})
	if err != nil {
		return nil, failure(l.notify, "Téléversement impossible", err)
	}

	success(l.notify, "Document ajouté", title)
	doc := MapDocuments([]api.Document{*created}, l.tags)[0]
	_ = l.Load(ctx)
	return &doc, nil
}

// EditInput carries the metadata to change. Nil fields are left as they are.
type EditInput struct {
	Title    *string
	Language *string
	TagID    *int
	ClearTag bool
}

// Edit updates a document's title, language or tag and reloads
func (l *Library) Edit(ctx context.Context, id string, in EditInput) error {
	if _, ok := l.Find(id); !ok {
		return failure(l.notify, "Mise à jour impossible", notInView(id))
	}

	var req api.UpdateDocumentRequest
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return failure(l.notify, "Mise à jour impossible", berrors.NewInputRequiredError("title"))
		}
		req.Title = &t
	}
	if in.Language != nil {
		lang := strings.TrimSpace(*in.Language)
		if lang == "" {
			return failure(l.notify, "Mise à jour impossible", berrors.NewInputRequiredError("language"))
		}
		req.Language = &lang
	}
	req.Tag = in.TagID
	req.ClearTag = in.ClearTag

	if _, err := l.backend.UpdateDocument(ctx, id, req); err != nil {
		return failure(l.notify, "Mise à jour impossible", err)
	}

	success(l.notify, "Métadonnées mises à jour", "Les informations du document ont été mises à jour.")
	_ = l.Load(ctx)
	return nil
}

// Delete removes a document of this library and reloads
func (l *Library) Delete(ctx context.Context, id string) error {
	doc, ok := l.Find(id)
	if !ok {
		return failure(l.notify, "Suppression impossible", notInView(id))
	}
	if err := l.backend.DeleteDocument(ctx, id); err != nil {
		return failure(l.notify, "Suppression impossible", err)
	}

	success(l.notify, "Document supprimé", doc.Title)
	_ = l.Load(ctx)
	return nil
}

func notInView(id string) error {
	return berrors.New(berrors.ErrCodeInputInvalid, "no document "+id+" in this view").
		WithSuggestion("List the documents first to get a valid id")
}
