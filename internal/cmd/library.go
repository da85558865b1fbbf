package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/ux"
	"github.com/felixgeelhaar/biblio/internal/views"
)

func newLibraryCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Browse the general library or your own documents",
	}

	general := &cobra.Command{
		Use:         "general",
		Short:       "List the general library (admins and super admins)",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: router.PathGeneralLibrary},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runLibrary(cmd, views.NewGeneralLibrary(env.app.client, env.viewer(), env.notifier()))
		},
	}

	mine := &cobra.Command{
		Use:         "mine",
		Short:       "List the documents you uploaded",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: router.PathMyLibrary},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runLibrary(cmd, views.NewPersonalLibrary(env.app.client, env.viewer(), env.notifier()))
		},
	}

	for _, c := range []*cobra.Command{general, mine} {
		addPageFlags(c)
		cmd.AddCommand(c)
	}

	return cmd
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "", "keep documents whose title, file name, language or tag contains the query")
	cmd.Flags().IntP("page", "p", 1, "page number")
}

func (e *environment) runLibrary(cmd *cobra.Command, lib *views.Library) error {
	if err := lib.Load(cmd.Context()); err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	page, _ := cmd.Flags().GetInt("page")
	lib.SetQuery(query)
	lib.SetPage(page)

	return e.render(cmd, newDocumentPage(lib.Page()))
}

// documentPage is one page of a document list
type documentPage struct {
	Documents *ux.Table `json:"documents" yaml:"documents"`
	Page      int       `json:"page" yaml:"page"`
	Pages     int       `json:"pages" yaml:"pages"`
	Total     int       `json:"total" yaml:"total"`
}

func newDocumentPage(p views.Page[views.Document]) *documentPage {
	return &documentPage{
		Documents: ux.DocumentTable(p.Items),
		Page:      p.Number,
		Pages:     p.TotalPages,
		Total:     p.Total,
	}
}

// WriteText implements ux.TextWriter
func (p *documentPage) WriteText(w io.Writer) error {
	if err := p.Documents.WriteText(w); err != nil {
		return err
	}
	if p.Total == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nPage %d/%d · %d documents\n", p.Page, p.Pages, p.Total)
	return err
}
