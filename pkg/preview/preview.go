// Package preview serves one catalog session over HTTP for local previewing.
//
// GET / draws a fresh pass as an HTML page. POST / feeds the posted page back
// into the session and redirects to GET /, so every interaction is followed
// by exactly one pass. Requests are serialised; the server hosts a single
// session and is not meant for more than one visitor.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-uicatalog/pkg/session"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/html"
)

// DefaultMaxBodyBytes caps posted pages.
const DefaultMaxBodyBytes int64 = 1 << 20

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger. The session logger is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPageOptions forwards options to the HTML surface.
func WithPageOptions(opts ...html.Option) Option {
	return func(s *Server) {
		s.pageOptions = append(s.pageOptions, opts...)
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// Server hosts a session behind an http.Handler.
type Server struct {
	mu          sync.Mutex
	session     *session.Session
	surface     *html.Surface
	page        bytes.Buffer
	logger      *slog.Logger
	pageOptions []html.Option
	maxBody     int64
	router      chi.Router
}

// New builds a server for s.
func New(s *session.Session, opts ...Option) (*Server, error) {
	if s == nil {
		return nil, errors.New("preview: session is required")
	}
	srv := &Server{session: s, logger: s.Logger(), maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(srv)
		}
	}

	pageOptions := append([]html.Option{html.WithLogger(srv.logger), html.WithAction("/")}, srv.pageOptions...)
	surface, err := html.New(&srv.page, pageOptions...)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	srv.surface = surface

	router := chi.NewRouter()
	router.Use(securityHeaders)
	router.Get("/", srv.handlePage)
	router.Post("/", srv.handleSubmit)
	router.Get("/healthz", handleHealthz)
	router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(html.AssetsFS())))
	srv.router = router
	return srv, nil
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.page.Reset()
	result, err := s.session.Pass(r.Context(), s.surface)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "preview_pass_failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", html.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(s.page.Bytes()); err != nil {
		s.logger.WarnContext(r.Context(), "preview_write_failed", "error", err)
		return
	}
	s.logger.DebugContext(r.Context(), "preview_page", "pass", result.Pass, "visible", result.Visible)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.surface.Submit(r.PostForm); err != nil {
		if errors.Is(err, html.ErrStaleSubmission) {
			s.logger.InfoContext(r.Context(), "preview_stale_submission", "error", err)
			http.Error(w, "the page is out of date; reload and try again", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	events, err := s.surface.PollEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	submitted, err := s.session.Apply(events)
	if err != nil {
		s.logger.InfoContext(r.Context(), "preview_event_rejected", "reason", session.Reason(err), "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.logger.DebugContext(r.Context(), "preview_submit", "events", len(events), "submitted", submitted)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "same-origin")
		headers.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}
