package ux

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/authz"
	"github.com/felixgeelhaar/biblio/internal/views"
)

func TestTable_Text(t *testing.T) {
	tbl := NewTable("ID", "Title")
	tbl.Add("1", "Cours de droit")
	tbl.Add("22")

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteText(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[0], "Title")
	assert.True(t, strings.HasPrefix(lines[1], "--"))
	assert.Contains(t, lines[2], "Cours de droit")
	assert.Equal(t, "22", strings.TrimSpace(lines[3]))
}

func TestTable_Empty(t *testing.T) {
	tbl := NewTable("ID")
	tbl.Empty = "Aucun document."
	assert.Equal(t, "Aucun document.\n", tbl.String())
}

func TestTable_Structured(t *testing.T) {
	tbl := NewTable("ID", "Last Activity")
	tbl.Add("c1", "2025-01-15 09:01")

	out, err := json.Marshal(tbl)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": "c1", "last_activity": "2025-01-15 09:01"}]`, string(out))

	var buf bytes.Buffer
	f, err := NewFormatter(FormatYAML, &FormatterOptions{Writer: &buf})
	require.NoError(t, err)
	require.NoError(t, f.Format(tbl))
	assert.Contains(t, buf.String(), "last_activity:")
	assert.Contains(t, buf.String(), "09:01")

	buf.Reset()
	f, err = NewFormatter(FormatJSON, &FormatterOptions{Writer: &buf, Compact: true})
	require.NoError(t, err)
	require.NoError(t, f.Format(NewTable("ID")))
	assert.Equal(t, "[]\n", buf.String())
}

func TestDocumentTable(t *testing.T) {
	tag := 3
	docs := []views.Document{
		{ID: "d1", Title: "Atlas", Language: "fr", Status: api.StatusIndexed, TagID: &tag, TagName: "Géographie",
			DateAdded: time.Date(2025, 1, 15, 9, 0, 0, 0, time.Local)},
		{ID: "d2", Title: "Brouillon", Language: views.NoLanguage, Status: api.StatusPendingMeta},
	}

	out := DocumentTable(docs).String()
	assert.Contains(t, out, "Géographie")
	assert.Contains(t, out, "Indexé")
	assert.Contains(t, out, "En validation")
	assert.Contains(t, out, "2025-01-15 09:00")

	assert.Equal(t, "Aucun document.\n", DocumentTable(nil).String())
}

func TestAccountTable(t *testing.T) {
	out := AccountTable([]views.Account{
		{ID: "u1", Name: "Alice", Email: "alice@biblio.test", Role: authz.RoleSuperAdmin},
		{ID: "u2", Name: "Bob", Email: "bob@biblio.test", Role: authz.RoleUser},
	}).String()
	assert.Contains(t, out, "Super Administrateur")
	assert.Contains(t, out, "Utilisateur")
}

func TestConversationTable(t *testing.T) {
	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	tbl := ConversationTable([]api.Conversation{
		{ID: "c1", StartedAt: start},
		{ID: "c2", Title: "Révisions", StartedAt: start},
	}, "c2")

	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, api.DefaultConversationTitle, tbl.Rows[0][1])
	assert.Equal(t, "", tbl.Rows[0][4])
	assert.Equal(t, "*", tbl.Rows[1][4])
}

func TestMessageTable(t *testing.T) {
	tbl := MessageTable([]api.Message{{Sender: api.SenderAssistant, Content: "ligne 1\nligne 2"}})
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "ligne 1 ligne 2", tbl.Rows[0][2])
}

func TestStatsTable(t *testing.T) {
	stats := views.Stats{
		GeneralDocuments: 2,
		PendingApprovals: -1,
		ByStatus:         map[string]int{api.StatusIndexed: 2},
	}
	out := StatsTable(stats).String()
	assert.NotContains(t, out, "pending_approvals")
	assert.Contains(t, out, "status.indexed")

	stats.PendingApprovals = 0
	assert.Contains(t, StatsTable(stats).String(), "pending_approvals")
}
