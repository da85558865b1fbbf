// Package cmd implements the biblio command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/config"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/log"
	"github.com/felixgeelhaar/biblio/internal/router"
	"github.com/felixgeelhaar/biblio/internal/session"
	"github.com/felixgeelhaar/biblio/internal/telemetry"
	"github.com/felixgeelhaar/biblio/internal/tui"
	"github.com/felixgeelhaar/biblio/internal/ux"
	"github.com/felixgeelhaar/biblio/internal/version"
	"github.com/felixgeelhaar/biblio/internal/views"
)

// Command annotations read by the root pre-run
const (
	// annotationRoute names the path a command renders; the router must accept it
	annotationRoute = "route"
	// annotationApp is "config" for commands that only need configuration and
	// "session" for commands that need the client and session but no route
	annotationApp = "app"
)

const (
	appConfig  = "config"
	appSession = "session"
)

// app is everything a command needs once configuration is loaded
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	storage session.Storage
	client  *api.Client
	store   *session.Store
	router  *router.Router

	closers []func() error
}

// environment carries the process streams and the lazily built app
type environment struct {
	stdout io.Writer
	stderr io.Writer

	// interactive reports whether missing values may be prompted for
	interactive func() bool

	flags *CommandContext
	app   *app

	// span covers the running command once the app is built
	span trace.Span
}

func newEnvironment(stdout, stderr io.Writer) *environment {
	return &environment{
		stdout:      stdout,
		stderr:      stderr,
		interactive: tui.ShouldPrompt,
	}
}

// ExecuteContext runs the command line with the process arguments
func ExecuteContext(ctx context.Context) error {
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	env := newEnvironment(stdout, stderr)
	return env.execute(ctx, args)
}

func (e *environment) execute(ctx context.Context, args []string) error {
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	err := root.ExecuteContext(ctx)
	err = e.classify(ctx, err)
	if e.span != nil {
		telemetry.End(e.span, err)
	}
	e.close()
	return err
}

func newRootCmd(env *environment) *cobra.Command {
	root := &cobra.Command{
		Use:   "biblio",
		Short: "Client for the digital library",
		Long: `biblio talks to the library REST API.

It logs you in, browses the general and personal libraries, searches documents,
chats with the assistant and, for administrators, validates documents and manages
accounts. Every command is checked against your role before it runs.

Run 'biblio shell' for the interactive interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.prepare(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default $BIBLIO_HOME/config.yaml)")
	root.PersistentFlags().StringP("format", "f", ux.FormatText, "output format: text, json, yaml")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: text, json")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")
	root.PersistentFlags().String("api-url", "", "API base URL (overrides api.url)")

	root.AddCommand(
		newLoginCmd(env),
		newLogoutCmd(env),
		newWhoamiCmd(env),
		newDashboardCmd(env),
		newLibraryCmd(env),
		newDocsCmd(env),
		newSearchCmd(env),
		newChatCmd(env),
		newApprovalsCmd(env),
		newUsersCmd(env),
		newShellCmd(env),
		newConfigCmd(env),
		newDoctorCmd(env),
		newVersionCmd(env),
	)

	return root
}

// prepare loads what cmd declares it needs and enforces its route
func (e *environment) prepare(cmd *cobra.Command) error {
	e.flags = NewCommandContext(cmd)

	level := cmd.Annotations[annotationApp]
	route := cmd.Annotations[annotationRoute]
	if level == "" && route == "" {
		return nil
	}

	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	if level == appConfig {
		e.app = &app{cfg: cfg}
		return nil
	}

	a, err := e.build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	e.app = a

	spanCtx, span := telemetry.StartCommandSpan(cmd.Context(), cmd.CommandPath())
	cmd.SetContext(spanCtx)
	e.span = span

	if route == "" {
		return nil
	}
	return e.enforce(cmd, route)
}

func (e *environment) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(e.flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	if e.flags.Changed["api-url"] {
		cfg.API.URL = e.flags.APIURL
	}
	if e.flags.Changed["format"] {
		cfg.Output.Format = e.flags.Format
	}
	if e.flags.Changed["no-color"] {
		cfg.Output.NoColor = e.flags.NoColor
	}
	if e.flags.Changed["log-level"] {
		cfg.Log.Level = e.flags.LogLevel
	}
	if e.flags.Changed["log-format"] {
		cfg.Log.Format = e.flags.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build wires logger, storage, client, store and router
func (e *environment) build(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := log.New(log.Config{
		Level:       log.ParseLevel(cfg.Log.Level),
		Format:      log.ParseFormat(cfg.Log.Format),
		Output:      e.stderr,
		ServiceName: "biblio",
	})
	log.SetDefaultLogger(logger)

	a := &app{cfg: cfg, logger: logger}

	shutdown, err := telemetry.InitProvider(ctx, telemetry.Config{
		ServiceName:    "biblio",
		ServiceVersion: version.GetInfo().Version,
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.WithError(err).Warn("tracing disabled")
	} else {
		a.closers = append(a.closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return shutdown(ctx)
		})
	}

	storage, err := a.openStorage()
	if err != nil {
		return nil, err
	}
	a.storage = storage

	var store *session.Store
	a.client = api.NewClient(cfg.API.URL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithAuthScheme(cfg.API.AuthScheme),
		api.WithUserAgent(version.GetInfo().UserAgent()),
		api.WithLogger(logger),
		api.WithTokenFunc(func() string { return store.Token() }),
	)
	store = session.NewStore(storage, a.client, session.WithLogger(logger))
	a.store = store

	if err := store.Initialize(ctx); err != nil {
		logger.WithError(err).Warn("session could not be restored")
	}

	a.router = router.NewDefault(store)
	return a, nil
}

func (a *app) openStorage() (session.Storage, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendRedis:
		rs, err := session.NewRedisStorage(a.cfg.Storage.RedisURL, a.cfg.Storage.RedisPrefix)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	case config.BackendMemory:
		return session.NewMemoryStorage(), nil
	default:
		return session.NewFileStorage(a.cfg.Storage.Path), nil
	}
}

func (e *environment) close() {
	if e.app == nil {
		return
	}
	for _, c := range e.app.closers {
		if err := c(); err != nil && e.app.logger != nil {
			e.app.logger.WithError(err).Debug("close failed")
		}
	}
	e.app.closers = nil
}

// classify turns raw backend failures into coded errors
func (e *environment) classify(ctx context.Context, err error) error {
	if err == nil || berrors.CodeOf(err) != "" {
		return err
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		if e.app != nil && e.app.store != nil {
			e.app.store.Logout(ctx)
		}
		return berrors.Wrap(berrors.ErrCodeNotAuthenticated, "the session is no longer valid", err).
			WithSuggestion("Run 'biblio login' to authenticate again")
	case http.StatusForbidden:
		return berrors.Wrap(berrors.ErrCodeForbidden, apiErr.Detail(), err).
			WithSuggestion("Run 'biblio whoami' to check your role")
	default:
		return berrors.Wrap(berrors.ErrCodeAPIResponse,
			fmt.Sprintf("request failed (%d): %s", apiErr.StatusCode, apiErr.Detail()), err)
	}
}

// notifier prints success and info notices to stderr. Error notices are skipped
// because the command returns the same error.
func (e *environment) notifier() views.Notifier {
	toaster := ux.NewToaster(e.stderr, e.noColor())
	return views.NotifierFunc(func(n views.Notice) {
		if n.Level == views.LevelError {
			return
		}
		toaster.Notify(n)
	})
}

func (e *environment) noColor() bool {
	if e.app != nil && e.app.cfg != nil {
		return e.app.cfg.Output.NoColor
	}
	return e.flags != nil && e.flags.NoColor
}

func (e *environment) format() string {
	if e.app != nil && e.app.cfg != nil {
		return e.app.cfg.Output.Format
	}
	if e.flags != nil {
		return e.flags.Format
	}
	return ux.FormatText
}

// render writes data to the command output in the selected format
func (e *environment) render(cmd *cobra.Command, data interface{}) error {
	f, err := ux.NewFormatter(e.format(), &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
	if err != nil {
		return berrors.Wrap(berrors.ErrCodeInputInvalid, "invalid --format", err)
	}
	return f.Format(data)
}

// viewer returns the logged-in identity. Commands with a route only run once
// the router accepted the session, so the identity is present.
func (e *environment) viewer() session.Identity {
	snap := e.app.store.Snapshot()
	if snap.User == nil {
		return session.Identity{}
	}
	return *snap.User
}
