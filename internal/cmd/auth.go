package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/biblio/internal/authz"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/session"
	"github.com/felixgeelhaar/biblio/internal/tui"
	"github.com/felixgeelhaar/biblio/internal/views"
)

func newLoginCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the library",
		Long: `Authenticate with your email and password.

The session is stored according to storage.backend and reused by every later
command until 'biblio logout'. Missing values are prompted for in a terminal.`,
		Example: `  biblio login --email marie@example.org
  biblio login --email marie@example.org --password "$BIBLIO_PASSWORD"`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationApp: appSession},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runLogin(cmd)
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")

	return cmd
}

func (e *environment) runLogin(cmd *cobra.Command) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	email = strings.TrimSpace(email)
	if email == "" {
		if !e.interactive() {
			return berrors.NewInputRequiredError("email")
		}
		v, err := tui.PromptForString(tui.Prompt{Message: "Email", Placeholder: "prenom.nom@example.org", Required: true, Validate: views.ValidateEmail})
		if err != nil {
			return err
		}
		email = v
	}
	if password == "" {
		if !e.interactive() {
			return berrors.NewInputRequiredError("password")
		}
		v, err := tui.PromptForPassword("Mot de passe")
		if err != nil {
			return err
		}
		password = v
	}

	role, err := e.app.store.Login(cmd.Context(), email, password)
	if err != nil {
		if berrors.CodeOf(err) == berrors.ErrCodeAPIUnreachable || berrors.HasCategory(err, "SESSION") {
			return err
		}
		return berrors.NewLoginFailedError(email, err)
	}

	return e.render(cmd, identityReport(e.app.store.Snapshot(), role))
}

func newLogoutCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Log out and forget the stored session",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationApp: appSession},
		RunE: func(cmd *cobra.Command, args []string) error {
			env.app.store.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Déconnecté.") //nolint:errcheck
			return nil
		},
	}
}

func newWhoamiCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the logged-in account and the views it may open",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: router.PathChat},
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := env.app.store.Snapshot()
			report := identityReport(snap, snap.Role())
			for _, route := range env.app.router.Menu(snap.Role()) {
				report.Menu = append(report.Menu, route.Path)
			}
			return env.render(cmd, report)
		},
	}
}

// identity is the account summary printed by login and whoami
type identity struct {
	ID          string   `json:"id" yaml:"id"`
	Email       string   `json:"email" yaml:"email"`
	Name        string   `json:"name" yaml:"name"`
	Role        string   `json:"role" yaml:"role"`
	Destination string   `json:"destination" yaml:"destination"`
	Menu        []string `json:"menu,omitempty" yaml:"menu,omitempty"`

	display string
	label   string
}

func identityReport(snap session.Session, role authz.Role) *identity {
	id := &identity{
		Role:        role.APIValue(),
		Destination: router.Destination(role),
		label:       role.Label(),
	}
	if snap.User != nil {
		id.ID = snap.User.ID
		id.Email = snap.User.Email
		id.Name = snap.User.Name
		id.display = snap.User.DisplayName()
	}
	return id
}

// WriteText implements ux.TextWriter
func (i *identity) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Connecté en tant que %s (%s) · %s\n", i.display, i.Email, i.label); err != nil {
		return err
	}
	if len(i.Menu) > 0 {
		if _, err := fmt.Fprintf(w, "Vues: %s\n", strings.Join(i.Menu, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Accueil: %s\n", i.Destination)
	return err
}
