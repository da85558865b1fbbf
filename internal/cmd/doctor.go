package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/biblio/internal/health"
	"github.com/felixgeelhaar/biblio/internal/ux"
)

func newDoctorCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the API, the session storage and the stored session",
		Long: `Run diagnostics and report what would make other commands fail.

Checks include:
  • API reachability at api.url
  • Session storage backend (file, redis or memory)
  • Stored session and whether the API still accepts its token`,
		Example: `  biblio doctor
  biblio doctor --format json`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationApp: appSession},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runDoctor(cmd)
		},
	}
}

func (e *environment) runDoctor(cmd *cobra.Command) error {
	a := e.app
	probe := func(ctx context.Context) error {
		_, err := a.client.ListTags(ctx)
		return err
	}

	manager := health.NewManager(
		health.NewAPIChecker(a.client),
		health.NewStorageChecker(a.cfg.Storage.Backend, a.storage),
		health.NewSessionChecker(a.store, probe),
	)
	reports := manager.Check(cmd.Context())

	report := &doctorReport{Status: health.Overall(reports).String()}
	for _, r := range reports {
		report.Checks = append(report.Checks, doctorCheck{
			Name:    r.Name,
			Status:  r.Result.Status.String(),
			Message: r.Result.Message,
			Latency: r.Result.Latency.Round(time.Millisecond).String(),
			Details: r.Result.Details,
		})
	}

	if err := e.render(cmd, report); err != nil {
		return err
	}
	if report.Status == health.StatusUnhealthy.String() {
		return errors.New("doctor found unhealthy checks")
	}
	return nil
}

type doctorReport struct {
	Status string        `json:"status" yaml:"status"`
	Checks []doctorCheck `json:"checks" yaml:"checks"`
}

type doctorCheck struct {
	Name    string                 `json:"name" yaml:"name"`
	Status  string                 `json:"status" yaml:"status"`
	Message string                 `json:"message" yaml:"message"`
	Latency string                 `json:"latency" yaml:"latency"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// WriteText implements ux.TextWriter
func (r *doctorReport) WriteText(w io.Writer) error {
	t := ux.NewTable("Check", "Status", "Message", "Latency")
	for _, c := range r.Checks {
		t.Add(c.Name, c.Status, c.Message, c.Latency)
	}
	if err := t.WriteText(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nOverall: %s\n", r.Status)
	return err
}
