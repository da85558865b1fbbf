package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/guard"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/telemetry"
	"github.com/felixgeelhaar/biblio/internal/views"
)

const forbiddenText = "Vous n'avez pas les droits nécessaires pour accéder à cette page."

// enforce runs the router for path before the command body.
//
// A redirect to login fails as not authenticated. A redirect elsewhere shows a
// notice, renders the landing view and fails without running the command. A
// fallback renders the fallback view and fails as forbidden.
func (e *environment) enforce(cmd *cobra.Command, path string) error {
	nav, err := e.app.router.Navigate(path)
	if err != nil {
		return err
	}

	e.app.logger.Debug("route resolved",
		"requested", nav.Requested,
		"final", nav.Final.Path,
		"decision", nav.Final.Decision.Kind.String(),
		"hops", len(nav.Visited))
	if e.span != nil {
		telemetry.RecordRoute(e.span, nav.Requested, nav.Final.Path, e.app.store.Snapshot().Role().String())
	}

	if nav.Redirected() {
		if nav.Final.Path == router.PathLogin {
			return berrors.NewNotAuthenticatedError()
		}

		e.notifier().Notify(views.Notice{
			Level:   views.LevelInfo,
			Title:   "Accès refusé",
			Message: fmt.Sprintf("%s n'est pas accessible avec votre rôle.", path),
		})
		if nav.Final.Decision.Kind == guard.Render && nav.Final.Path == router.PathDashboard {
			if err := e.showDashboard(cmd); err != nil {
				return err
			}
		}
		return berrors.NewRedirectedError(path, nav.Final.Path)
	}

	switch nav.Final.Decision.Kind {
	case guard.Render:
		return nil
	case guard.Fallback:
		if nav.Final.Decision.Fallback == router.ViewForbidden {
			fmt.Fprintf(cmd.OutOrStdout(), "Accès refusé\n%s\n", forbiddenText) //nolint:errcheck
		}
		return berrors.NewForbiddenError(path)
	default:
		return berrors.NewNotAuthenticatedError()
	}
}
