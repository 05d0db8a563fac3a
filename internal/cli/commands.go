package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uicatalog/pkg/loader"
	"github.com/goliatone/go-uicatalog/pkg/preview"
	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/session"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/prompt"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/record"
)

// ErrNotInteractive is returned by run when stdin is not a terminal.
var ErrNotInteractive = errors.New("run requires an interactive terminal")

func newValidateCmd(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog definition and draw one headless pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := app.loadCatalog(args[0], flags)
			if err != nil {
				return err
			}
			s, err := session.New(catalog, session.WithLogger(app.log()))
			if err != nil {
				return err
			}
			result, err := s.Pass(cmd.Context(), record.New())
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "ok: %s: %d nodes (%d visible), %d forms\n",
				args[0], result.Nodes, result.Visible, len(catalog.Forms()))
			return nil
		},
	}
}

func newRenderCmd(app *App, flags *globalFlags) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the first pass of a catalog as text or HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "prompt" {
				return fmt.Errorf("format %q is interactive; use the run command", format)
			}
			catalog, err := app.loadCatalog(optionalArg(args), flags)
			if err != nil {
				return err
			}
			out, closeOut, err := app.openOutput(output)
			if err != nil {
				return err
			}
			surface, err := app.surfaces().New(format, render.SurfaceConfig{
				Catalog: catalog,
				Output:  out,
				Logger:  app.log(),
			})
			if err != nil {
				closeOut()
				return err
			}
			s, err := session.New(catalog, session.WithLogger(app.log()))
			if err != nil {
				closeOut()
				return err
			}
			if _, err := s.Pass(cmd.Context(), surface); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output surface (text or html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newExportCmd(app *App, flags *globalFlags) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a catalog definition as JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := loader.ParseFormat(format)
			if err != nil {
				return err
			}
			catalog, err := app.loadCatalog(optionalArg(args), flags)
			if err != nil {
				return err
			}
			data, err := loader.Encode(catalog, target)
			if err != nil {
				return err
			}
			out, closeOut, err := app.openOutput(output)
			if err != nil {
				return err
			}
			if _, err := out.Write(data); err != nil {
				closeOut()
				return fmt.Errorf("write export: %w", err)
			}
			return closeOut()
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Document format (json or yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newRunCmd(app *App, flags *globalFlags) *cobra.Command {
	var policy string
	var maxPasses int

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a catalog interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive == nil || !app.IsInteractive() {
				return ErrNotInteractive
			}
			parsed, err := session.ParsePolicy(policy)
			if err != nil {
				return err
			}
			catalog, err := app.loadCatalog(optionalArg(args), flags)
			if err != nil {
				return err
			}
			surface, err := app.surfaces().New("prompt", render.SurfaceConfig{
				Catalog: catalog,
				Input:   app.In,
				Output:  app.Out,
				Logger:  app.log(),
			})
			if err != nil {
				return err
			}
			s, err := session.New(catalog,
				session.WithLogger(app.log()),
				session.WithPolicy(parsed),
				session.WithRendererOptions(render.WithMaxPasses(maxPasses)),
			)
			if err != nil {
				return err
			}
			return runSession(cmd.Context(), s, surface)
		},
	}
	cmd.Flags().StringVar(&policy, "policy", "abort", "Invalid event policy (abort or skip)")
	cmd.Flags().IntVar(&maxPasses, "max-passes", 1000, "Stop after this many passes")
	return cmd
}

func runSession(ctx context.Context, s *session.Session, surface render.Surface) error {
	summary, err := s.Run(ctx, surface)
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	s.Logger().Debug("run_summary", "passes", summary.Passes, "events", summary.Events)
	return nil
}

func newServeCmd(app *App, flags *globalFlags) *cobra.Command {
	var addr, policy string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Preview a catalog in the browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := session.ParsePolicy(policy)
			if err != nil {
				return err
			}
			catalog, err := app.loadCatalog(optionalArg(args), flags)
			if err != nil {
				return err
			}
			s, err := session.New(catalog, session.WithLogger(app.log()), session.WithPolicy(parsed))
			if err != nil {
				return err
			}
			srv, err := preview.New(s)
			if err != nil {
				return err
			}
			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			fmt.Fprintf(app.Out, "serving on http://%s\n", listener.Addr())
			return serveUntilDone(cmd.Context(), listener, srv.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().StringVar(&policy, "policy", "skip", "Invalid event policy (abort or skip)")
	return cmd
}

func serveUntilDone(ctx context.Context, listener net.Listener, handler http.Handler) error {
	server := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(listener) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
