package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/ux"
	"github.com/felixgeelhaar/biblio/internal/views"
)

func newDashboardCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show library counters and recent documents",
		Long: `Show how many documents the general and personal libraries hold, how many
conversations you have and, for super administrators, how many documents wait for
validation.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: router.PathDashboard},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.showDashboard(cmd)
		},
	}
}

func (e *environment) showDashboard(cmd *cobra.Command) error {
	d := views.NewDashboard(e.app.client, e.viewer(), e.notifier())
	if err := d.Load(cmd.Context()); err != nil {
		return err
	}
	stats := d.Stats()
	return e.render(cmd, &dashboardReport{
		Stats:  ux.StatsTable(stats),
		Recent: ux.DocumentTable(stats.Recent),
	})
}

type dashboardReport struct {
	Stats  *ux.Table `json:"stats" yaml:"stats"`
	Recent *ux.Table `json:"recent" yaml:"recent"`
}

// WriteText implements ux.TextWriter
func (r *dashboardReport) WriteText(w io.Writer) error {
	if err := r.Stats.WriteText(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\nRécents"); err != nil {
		return err
	}
	return r.Recent.WriteText(w)
}
