// Package server exposes placement sessions over HTTP.
//
// A session is one uploaded design held in memory. Clients drive its
// placement state machine (move, rotate, confirm, reset) and read back
// wirelength, feature vectors and the next component to place. Each
// session carries its own lock; the graph itself is not safe for
// concurrent use.
//
// # Routes
//
//	GET    /healthz
//	GET    /version
//	GET    /sessions
//	POST   /sessions
//	GET    /sessions/{id}
//	DELETE /sessions/{id}
//	GET    /sessions/{id}/hpwl
//	GET    /sessions/{id}/next?ordering=
//	POST   /sessions/{id}/reset
//	GET    /sessions/{id}/nodes/{node}/features?k=&simplified=
//	POST   /sessions/{id}/nodes/{node}/place
//
// Errors are JSON objects {"error": {"code", "message"}} with the status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/pcbgraph/pkg/board"
	"github.com/matzehuels/pcbgraph/pkg/cache"
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/feature"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
	"github.com/matzehuels/pcbgraph/pkg/observability"
)

// DefaultAddr is the listen address used when Config leaves it empty.
const DefaultAddr = ":8080"

// Config configures a Server.
type Config struct {
	Addr string
	// Features holds the encoder defaults; requests may override the
	// neighbor count and layout.
	Features feature.Options
	// Ordering is the default placement ordering for /next.
	Ordering string
	// Cache stores encoded vectors. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration
	// MaxUploadBytes bounds POST /sessions bodies. Zero means 32 MiB.
	MaxUploadBytes int64
	Logger         *log.Logger
}

// Server holds the sessions and serves the HTTP API.
type Server struct {
	cfg    Config
	logger *log.Logger
	cache  cache.Cache

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu      sync.Mutex
	id      string
	g       *netlist.Graph
	b       board.Board
	created time.Time
}

// New returns a server with no sessions.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Ordering == "" {
		cfg.Ordering = netlist.OrderConnectionDensity
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		cache:    c,
		sessions: make(map[string]*session),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleStats)
			r.Delete("/", s.handleDelete)
			r.Get("/hpwl", s.handleHPWL)
			r.Get("/next", s.handleNext)
			r.Post("/reset", s.handleReset)
			r.Get("/nodes/{node}/features", s.handleFeatures)
			r.Post("/nodes/{node}/place", s.handlePlace)
		})
	})
	return r
}

// instrument reports every request to the HTTP hooks and the logger.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), d)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", d)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Add registers a loaded design as a new session and returns its id.
func (s *Server) Add(g *netlist.Graph, b board.Board) string {
	sess := &session{id: uuid.New().String(), g: g, b: b, created: time.Now()}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("session created", "id", sess.id, "design", g.Name, "nodes", g.NodeCount())
	return sess.id
}

func (s *Server) get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q", id)
	}
	return sess, nil
}

func (s *Server) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *Server) ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
