// Package cli wires the uicatalog command line: validating, rendering,
// exporting and interactively running catalog definitions.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uicatalog/pkg/loader"
	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/showcase"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/html"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/prompt"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/text"
)

// EnvLogLevel names the environment variable read when --log-level is unset.
const EnvLogLevel = "UICATALOG_LOG_LEVEL"

// App holds the process collaborators commands run against.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// IsInteractive reports whether In is a terminal.
	IsInteractive func() bool
	// Surfaces resolves --format values.
	Surfaces *render.Registry
	Now      func() time.Time
	Getenv   func(string) string

	logger *slog.Logger
}

// NewApp returns an App on the process streams.
func NewApp() *App {
	return &App{
		In:            os.Stdin,
		Out:           os.Stdout,
		Err:           os.Stderr,
		IsInteractive: func() bool { return false },
		Surfaces:      DefaultSurfaces(),
		Now:           time.Now,
		Getenv:        os.Getenv,
	}
}

// DefaultSurfaces registers the text, html and prompt surfaces.
func DefaultSurfaces() *render.Registry {
	registry := render.NewRegistry()
	registry.MustRegister("text", text.Factory)
	registry.MustRegister("html", html.Factory)
	registry.MustRegister("prompt", prompt.Factory)
	return registry
}

type globalFlags struct {
	logLevel string
	seed     int64
}

// NewRootCmd creates the top-level "uicatalog" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "uicatalog",
		Short:         "Render declarative widget catalogs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			raw := flags.logLevel
			if !cmd.Flags().Changed("log-level") {
				if env := strings.TrimSpace(app.getenv(EnvLogLevel)); env != "" {
					raw = env
				}
			}
			level, err := parseLevel(raw)
			if err != nil {
				return err
			}
			app.logger = slog.New(slog.NewTextHandler(app.errOut(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.errOut())

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error); falls back to $"+EnvLogLevel)
	root.PersistentFlags().Int64Var(&flags.seed, "seed", showcase.DefaultSeed, "Seed for the showcase chart data")

	root.AddCommand(
		newValidateCmd(app, flags),
		newRenderCmd(app, flags),
		newExportCmd(app, flags),
		newRunCmd(app, flags),
		newServeCmd(app, flags),
	)
	return root
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}

// loadCatalog reads path, or builds the showcase catalog when path is empty.
func (a *App) loadCatalog(path string, flags *globalFlags) (*model.Catalog, error) {
	if path == "" {
		return showcase.Catalog(showcase.WithClock(a.now), showcase.WithSeed(flags.seed))
	}
	return loader.LoadFile(path, loader.WithClock(a.now))
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) getenv(key string) string {
	if a.Getenv != nil {
		return a.Getenv(key)
	}
	return ""
}

func (a *App) errOut() io.Writer {
	if a.Err != nil {
		return a.Err
	}
	return io.Discard
}

func (a *App) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.New(slog.DiscardHandler)
}

func (a *App) surfaces() *render.Registry {
	if a.Surfaces != nil {
		return a.Surfaces
	}
	return DefaultSurfaces()
}

// openOutput returns the writer for --output; "" or "-" means app.Out.
func (a *App) openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return a.Out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
