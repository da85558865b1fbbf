package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/ux"
	"github.com/felixgeelhaar/biblio/internal/views"
)

func newSearchCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search the documents you can see",
		Long: `Search titles, tags, languages, statuses and file names of the documents
visible to you. --scope narrows the search to the general library or to your own
documents.`,
		Example: `  biblio search contrat
  biblio search --scope personal rapport 2024`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{annotationRoute: router.PathSearch},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return berrors.NewInputRequiredError("query")
			}
			scope, _ := cmd.Flags().GetString("scope")

			s := views.NewSearch(env.app.client, env.viewer(), env.notifier())
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			return env.render(cmd, ux.DocumentTable(s.Run(query, views.ParseScope(scope))))
		},
	}

	cmd.Flags().String("scope", string(views.ScopeAll), "all, general or personal")

	return cmd
}
