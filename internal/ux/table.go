package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/views"
)

// Column is a table column. Key names the field in JSON and YAML output.
type Column struct {
	Header string
	Key    string
}

// Table is tabular output. Text renders aligned columns, JSON and YAML render
// one object per row.
type Table struct {
	Columns []Column
	Rows    [][]string
	// Empty is printed instead of the header when there are no rows
	Empty string
}

// NewTable creates a table; each header doubles as its lowercased key
func NewTable(headers ...string) *Table {
	t := &Table{}
	for _, h := range headers {
		t.Columns = append(t.Columns, Column{Header: h, Key: strings.ToLower(strings.ReplaceAll(h, " ", "_"))})
	}
	return t
}

// Add appends a row; missing cells are left blank
func (t *Table) Add(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// WriteText renders the table with a tabwriter
func (t *Table) WriteText(w io.Writer) error {
	if len(t.Rows) == 0 && t.Empty != "" {
		_, err := fmt.Fprintln(w, t.Empty)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	headers := make([]string, len(t.Columns))
	rules := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
		rules[i] = strings.Repeat("-", len([]rune(c.Header)))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t")) //nolint:errcheck
	fmt.Fprintln(tw, strings.Join(rules, "\t"))   //nolint:errcheck
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")) //nolint:errcheck
	}
	return tw.Flush()
}

// String renders the table as text
func (t *Table) String() string {
	var b strings.Builder
	_ = t.WriteText(&b)
	return b.String()
}

func (t *Table) records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for i, c := range t.Columns {
			rec[c.Key] = row[i]
		}
		out = append(out, rec)
	}
	return out
}

// MarshalJSON renders the rows as objects
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.records())
}

// MarshalYAML renders the rows as mappings
func (t *Table) MarshalYAML() (interface{}, error) {
	return t.records(), nil
}

const dateLayout = "2006-01-02 15:04"

// DocumentTable lists documents
func DocumentTable(docs []views.Document) *Table {
	t := NewTable("ID", "Title", "Tag", "Language", "Status", "Added")
	t.Empty = "Aucun document."
	for _, d := range docs {
		added := ""
		if !d.DateAdded.IsZero() {
			added = d.DateAdded.Local().Format(dateLayout)
		}
		t.Add(d.ID, d.Title, d.Tag(), d.Language, d.StatusLabel(), added)
	}
	return t
}

// AccountTable lists accounts
func AccountTable(accounts []views.Account) *Table {
	t := NewTable("ID", "Name", "Email", "Role")
	t.Empty = "Aucun utilisateur."
	for _, a := range accounts {
		t.Add(a.ID, a.Name, a.Email, a.Role.Label())
	}
	return t
}

// ConversationTable lists conversations and marks the selected one
func ConversationTable(convs []api.Conversation, selected string) *Table {
	t := NewTable("ID", "Title", "Mode", "Last Activity", "Selected")
	t.Empty = "Aucune conversation."
	for _, c := range convs {
		mark := ""
		if c.ID == selected {
			mark = "*"
		}
		title := c.Title
		if title == "" {
			title = api.DefaultConversationTitle
		}
		t.Add(c.ID, title, c.Mode, c.Activity().Local().Format(dateLayout), mark)
	}
	return t
}

// MessageTable lists a thread, oldest first
func MessageTable(msgs []api.Message) *Table {
	t := NewTable("Time", "Sender", "Content")
	t.Empty = "Aucun message."
	for _, m := range msgs {
		content := strings.ReplaceAll(m.Content, "\n", " ")
		t.Add(m.CreatedAt.Local().Format(dateLayout), m.Sender, content)
	}
	return t
}

// StatsTable summarizes the dashboard counters
func StatsTable(s views.Stats) *Table {
	t := NewTable("Metric", "Value")
	t.Add("general_documents", strconv.Itoa(s.GeneralDocuments))
	t.Add("my_documents", strconv.Itoa(s.MyDocuments))
	t.Add("conversations", strconv.Itoa(s.Conversations))
	if s.PendingApprovals >= 0 {
		t.Add("pending_approvals", strconv.Itoa(s.PendingApprovals))
	}
	for _, status := range []string{api.StatusPendingMeta, api.StatusUploaded, api.StatusProcessed, api.StatusIndexed} {
		if n := s.ByStatus[status]; n > 0 {
			t.Add("status."+status, strconv.Itoa(n))
		}
	}
	return t
}

var _ TextWriter = (*Table)(nil)
