package cmd

import (
	"github.com/spf13/cobra"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/tui"
)

func newShellCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open the interactive interface",
		Long: `Open the full-screen interface: a login form, a sidebar with the views your
role may open, the libraries, search, the assistant and the administration views.

Keys: 1-9 open a view, r refreshes, / filters, ? shows more keys, o logs out, q quits.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationApp: appSession},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.IsInteractive() {
				return berrors.New(berrors.ErrCodeInputInvalid, "the shell needs a terminal").
					WithSuggestion("Use the individual commands, e.g. 'biblio library mine', in scripts")
			}
			a := env.app
			return tui.Run(cmd.Context(), a.store, a.router, a.client)
		},
	}
}
