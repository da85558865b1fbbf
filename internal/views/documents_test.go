package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/session"
)

func intPtr(n int) *int { return &n }

func TestMapDocuments(t *testing.T) {
	tags := []api.Tag{{ID: 1, Name: "Droit"}}
	docs := []api.Document{
		{ID: "a", Title: "A", Tag: intPtr(1), Language: "en"},
		{ID: "b", Title: "B", Tag: intPtr(7)},
		{ID: "c", Title: "C", Path: "/srv/c.pdf"},
	}

	got := MapDocuments(docs, tags)

	assert.Equal(t, "Droit", got[0].Tag())
	assert.Equal(t, "en", got[0].Language)
	assert.Equal(t, "Tag 7", got[1].Tag(), "unknown tags show their id")
	assert.Equal(t, NoLanguage, got[1].Language)
	assert.Equal(t, "", got[2].Tag())
	assert.Equal(t, "/srv/c.pdf", got[2].File)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "En validation", StatusLabel(api.StatusPendingMeta))
	assert.Equal(t, "Téléchargé", StatusLabel(api.StatusUploaded))
	assert.Equal(t, "Traitement en cours", StatusLabel(api.StatusProcessed))
	assert.Equal(t, "Indexé", StatusLabel(api.StatusIndexed))
	assert.Equal(t, "archived", StatusLabel("archived"))
}

func TestDocument_MatchesAny(t *testing.T) {
	doc := Document{Title: "Rapport annuel", Filename: "rapport-2024.pdf", Language: "fr", TagName: "Finances"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"RAPPORT", true},
		{"2024", true},
		{"FR", true},
		{"finan", true},
		{"  annuel ", true},
		{"budget", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.MatchesAny(tt.query))
		})
	}
}

func TestDocument_Visibility(t *testing.T) {
	me := session.Identity{ID: "me"}

	general := Document{Source: api.SourceGeneral, Owner: "x"}
	mine := Document{Source: api.SourcePersonal, Owner: "me"}
	theirs := Document{Source: api.SourcePersonal, Owner: "x"}
	orphan := Document{Source: api.SourcePersonal}

	assert.True(t, general.VisibleTo(me))
	assert.True(t, mine.VisibleTo(me))
	assert.False(t, theirs.VisibleTo(me))
	assert.False(t, orphan.VisibleTo(session.Identity{}))
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "rapport", TitleFromFilename("rapport.pdf"))
	assert.Equal(t, "rapport.final", TitleFromFilename("/tmp/rapport.final.pdf"))
	assert.Equal(t, "README", TitleFromFilename("README"))
	assert.Equal(t, ".env", TitleFromFilename(".env"))
}

func TestSortNewest(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []Document{
		{ID: "old", DateAdded: base},
		{ID: "new", DateAdded: base.Add(2 * time.Hour)},
		{ID: "mid", DateAdded: base.Add(time.Hour)},
	}
	SortNewest(docs)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "mid", docs[1].ID)
	assert.Equal(t, "old", docs[2].ID)
}

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name      string
		page      int
		wantNum   int
		wantLen   int
		wantFirst int
	}{
		{"first", 1, 1, 10, 0},
		{"last partial", 3, 3, 3, 20},
		{"below range", 0, 1, 10, 0},
		{"above range", 9, 3, 3, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page)
			assert.Equal(t, tt.wantNum, p.Number)
			assert.Equal(t, 3, p.TotalPages)
			assert.Equal(t, 23, p.Total)
			assert.Len(t, p.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirst, p.Items[0])
		})
	}

	empty := Paginate([]int{}, 4)
	assert.Equal(t, 1, empty.Number)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
	assert.False(t, empty.HasNext())
	assert.False(t, empty.HasPrev())

	assert.True(t, Paginate(items, 2).HasNext())
	assert.True(t, Paginate(items, 2).HasPrev())
}
