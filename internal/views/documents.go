package views

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/session"
)

// Document is a document prepared for display
type Document struct {
	ID        string
	Title     string
	Filename  string
	File      string
	Language  string
	Source    string
	Status    string
	Owner     string
	TagID     *int
	TagName   string
	DateAdded time.Time
}

// NoLanguage is shown when a document has no language
const NoLanguage = "N/A"

// StatusLabel returns the display label for a backend status
func StatusLabel(status string) string {
	switch status {
	case api.StatusPendingMeta:
		return "En validation"
	case api.StatusUploaded:
		return "Téléchargé"
	case api.StatusProcessed:
		return "Traitement en cours"
	case api.StatusIndexed:
		return "Indexé"
	default:
		return status
	}
}

// StatusLabel returns the display label of the document status
func (d Document) StatusLabel() string {
	return StatusLabel(d.Status)
}

// Tag returns the tag name, "Tag <id>" for an unknown tag, or "" without one
func (d Document) Tag() string {
	if d.TagName != "" {
		return d.TagName
	}
	if d.TagID != nil {
		return fmt.Sprintf("Tag %d", *d.TagID)
	}
	return ""
}

// MatchesAny reports whether query is a substring of title, filename, language or tag,
// case-insensitively. An empty query matches everything.
func (d Document) MatchesAny(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{d.Title, d.Filename, d.Language, d.Tag()} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// haystack joins the searchable fields the way the search screen matches them
func (d Document) haystack() string {
	return strings.ToLower(strings.Join([]string{d.Title, d.Filename, d.Language, d.Tag()}, " "))
}

// VisibleTo reports whether viewer may see the document: general documents,
// or personal documents the viewer owns.
func (d Document) VisibleTo(viewer session.Identity) bool {
	return d.Source == api.SourceGeneral || d.OwnedBy(viewer)
}

// OwnedBy reports a personal document owned by viewer
func (d Document) OwnedBy(viewer session.Identity) bool {
	return d.Source == api.SourcePersonal && d.Owner != "" && d.Owner == viewer.ID
}

// MapDocuments joins documents with tag names
func MapDocuments(docs []api.Document, tags []api.Tag) []Document {
	names := make(map[int]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		doc := Document{
			ID:        d.ID,
			Title:     d.Title,
			Filename:  d.Filename,
			File:      firstNonEmpty(d.File, d.Path),
			Language:  d.Language,
			Source:    d.Source,
			Status:    d.Status,
			Owner:     d.Owner,
			TagID:     d.Tag,
			DateAdded: d.DateAdded,
		}
		if doc.Language == "" {
			doc.Language = NoLanguage
		}
		if d.Tag != nil {
			doc.TagName = names[*d.Tag]
		}
		out = append(out, doc)
	}
	return out
}

// TitleFromFilename strips the extension: "rapport.final.pdf" -> "rapport.final"
func TitleFromFilename(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// SortNewest orders documents by date added, newest first
func SortNewest(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].DateAdded.After(docs[j].DateAdded) })
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
