package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/views"
)

func newApprovalsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "Validate documents waiting for approval (super admins)",
	}

	annotations := map[string]string{annotationRoute: router.PathApprovals}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List documents waiting for approval",
		Args:        cobra.NoArgs,
		Annotations: annotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.loadApproval(cmd)
			if err != nil {
				return err
			}
			query, _ := cmd.Flags().GetString("query")
			page, _ := cmd.Flags().GetInt("page")
			a.SetQuery(query)
			a.SetPage(page)
			return env.render(cmd, newDocumentPage(a.Page()))
		},
	}
	addPageFlags(list)

	approve := &cobra.Command{
		Use:         "approve <id>",
		Short:       "Approve a pending document into the general library",
		Args:        cobra.ExactArgs(1),
		Annotations: annotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.loadApproval(cmd)
			if err != nil {
				return err
			}
			return a.Approve(cmd.Context(), args[0])
		},
	}

	reject := &cobra.Command{
		Use:         "reject <id>",
		Short:       "Reject and delete a pending document",
		Args:        cobra.ExactArgs(1),
		Annotations: annotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.loadApproval(cmd)
			if err != nil {
				return err
			}
			if doc, ok := findDocument(a.Documents(), args[0]); ok {
				confirmed, err := env.confirm(cmd, "Rejeter « "+doc.Title+" » ?")
				if err != nil || !confirmed {
					return err
				}
			}
			return a.Reject(cmd.Context(), args[0])
		},
	}
	addYesFlag(reject)

	cmd.AddCommand(list, approve, reject)
	return cmd
}

func (e *environment) loadApproval(cmd *cobra.Command) (*views.Approval, error) {
	a := views.NewApproval(e.app.client, e.notifier())
	if err := a.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return a, nil
}

func findDocument(docs []views.Document, id string) (views.Document, bool) {
	for _, d := range docs {
		if d.ID == id {
			return d, true
		}
	}
	return views.Document{}, false
}
