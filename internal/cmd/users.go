package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/biblio/internal/authz"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/tui"
	"github.com/felixgeelhaar/biblio/internal/ux"
	"github.com/felixgeelhaar/biblio/internal/views"
)

func newUsersCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (super admins)",
	}

	annotations := map[string]string{annotationRoute: router.PathUsers}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List accounts",
		Args:        cobra.NoArgs,
		Annotations: annotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := env.loadUsers(cmd)
			if err != nil {
				return err
			}
			return env.render(cmd, ux.AccountTable(u.Accounts()))
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long: `Create an account. Without --password a temporary password is generated and
printed once.`,
		Example:     `  biblio users create --name "Marie Curie" --email marie@example.org --role admin`,
		Args:        cobra.NoArgs,
		Annotations: annotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runCreateUser(cmd)
		},
	}

	update := &cobra.Command{
		Use:         "update <id>",
		Short:       "Change an account's name, email, role or password",
		Args:        cobra.ExactArgs(1),
		Annotations: annotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runUpdateUser(cmd, args[0])
		},
	}

	for _, c := range []*cobra.Command{create, update} {
		c.Flags().String("name", "", "display name")
		c.Flags().String("email", "", "email address")
		c.Flags().String("role", "", "user, admin or superadmin")
		c.Flags().String("password", "", "password")
	}

	del := &cobra.Command{
		Use:         "delete <id>",
		Short:       "Delete an account",
		Args:        cobra.ExactArgs(1),
		Annotations: annotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed, err := env.confirm(cmd, "Supprimer l'utilisateur "+args[0]+" ?")
			if err != nil || !confirmed {
				return err
			}
			u := views.NewUsers(env.app.client, env.notifier())
			return u.Delete(cmd.Context(), args[0])
		},
	}
	addYesFlag(del)

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func (e *environment) loadUsers(cmd *cobra.Command) (*views.Users, error) {
	u := views.NewUsers(e.app.client, e.notifier())
	if err := u.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return u, nil
}

var roleOptions = []tui.Option{
	{Label: authz.RoleUser.Label(), Value: string(authz.RoleUser)},
	{Label: authz.RoleAdmin.Label(), Value: string(authz.RoleAdmin)},
	{Label: authz.RoleSuperAdmin.Label(), Value: string(authz.RoleSuperAdmin)},
}

func (e *environment) runCreateUser(cmd *cobra.Command) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetString("role")
	password, _ := cmd.Flags().GetString("password")

	if e.interactive() {
		var err error
		if name == "" {
			if name, err = tui.PromptForString(tui.Prompt{Message: "Nom", Required: true}); err != nil {
				return err
			}
		}
		if email == "" {
			if email, err = tui.PromptForString(tui.Prompt{Message: "Email", Required: true, Validate: views.ValidateEmail}); err != nil {
				return err
			}
		}
		if role == "" {
			if role, err = tui.Select("Rôle", roleOptions); err != nil {
				return err
			}
		}
	}

	u := views.NewUsers(e.app.client, e.notifier())
	created, err := u.Create(cmd.Context(), views.CreateInput{
		Name:     name,
		Email:    email,
		Role:     authz.Normalize(role),
		Password: password,
	})
	if err != nil {
		return err
	}

	return e.render(cmd, &createdAccount{
		Account:           ux.AccountTable([]views.Account{created.Account}),
		GeneratedPassword: created.GeneratedPassword,
	})
}

func (e *environment) runUpdateUser(cmd *cobra.Command, id string) error {
	var in views.UpdateInput
	in.Name, _ = cmd.Flags().GetString("name")
	in.Email, _ = cmd.Flags().GetString("email")
	in.Password, _ = cmd.Flags().GetString("password")
	if cmd.Flags().Changed("role") {
		raw, _ := cmd.Flags().GetString("role")
		role := authz.Normalize(raw)
		in.Role = &role
	}

	u := views.NewUsers(e.app.client, e.notifier())
	if err := u.Update(cmd.Context(), id, in); err != nil {
		return err
	}

	for _, a := range u.Accounts() {
		if a.ID == id {
			return e.render(cmd, ux.AccountTable([]views.Account{a}))
		}
	}
	return berrors.New(berrors.ErrCodeAPIResponse, "updated account "+id+" is missing from the list")
}

type createdAccount struct {
	Account           *ux.Table `json:"account" yaml:"account"`
	GeneratedPassword string    `json:"generated_password,omitempty" yaml:"generated_password,omitempty"`
}

// WriteText implements ux.TextWriter
func (c *createdAccount) WriteText(w io.Writer) error {
	if err := c.Account.WriteText(w); err != nil {
		return err
	}
	if c.GeneratedPassword == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nMot de passe temporaire: %s\nIl ne sera plus affiché.\n", c.GeneratedPassword)
	return err
}
