package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	pderrors "github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
)

// Version is reported by the feed root.
const Version = "1.0.0"

const shutdownTimeout = 5 * time.Second

// Server serves a Generator over HTTP.
type Server struct {
	gen       *Generator
	log       logger.Logger
	accessLog io.Writer
	now       func() time.Time
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger for lifecycle messages.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAccessLog writes Apache combined-format access lines to w.
func WithAccessLog(w io.Writer) ServerOption {
	return func(s *Server) {
		s.accessLog = w
	}
}

// WithClock sets the clock used to stamp generated data.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer creates a server for gen.
func NewServer(gen *Generator, opts ...ServerOption) *Server {
	s := &Server{
		gen: gen,
		log: logger.Noop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the routes without middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.getIndex).Methods(http.MethodGet)
	r.HandleFunc(feed.StripsPath, s.getStrips).Methods(http.MethodGet)
	r.HandleFunc("/api/strip/{plant}/details", s.getDetails).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
	})

	r.Use(requestID)
	return r
}

// Handler returns the full handler: routes, CORS for any origin, and access
// logging when configured.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", feed.RequestIDHeader}),
		handlers.ExposedHeaders([]string{feed.RequestIDHeader}),
	)(h)
	if s.accessLog != nil {
		h = handlers.CombinedLoggingHandler(s.accessLog, h)
	}
	return h
}

// ListenAndServe listens on addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return pderrors.WrapWithCode(err, pderrors.ErrConfig,
			"Can't listen on "+addr,
			"Pick a free address with --addr or simulator.addr")
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("feed simulator listening on http://%s (%d plants)", ln.Addr(), len(s.gen.plants))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return pderrors.WrapWithCode(err, pderrors.ErrExec, "Feed simulator stopped", "")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return pderrors.WrapWithCode(err, pderrors.ErrExec, "Feed simulator did not shut down cleanly", "")
	}
	s.log.Info("feed simulator stopped")
	return nil
}

func (s *Server) getIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, feed.IndexResponse{
		Message: "Power Plant Dashboard API",
		Endpoints: []string{
			feed.StripsPath + " - Get time series data for all power plants",
			"/api/strip/{plant_name}/details - Get dispatch details for a specific plant",
		},
		AvailablePlants: s.gen.Plants(),
		Version:         Version,
	})
}

func (s *Server) getStrips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.Strips(s.now()))
}

func (s *Server) getDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["plant"]
	resp, ok := s.gen.Dispatch(id, s.now())
	if !ok {
		s.log.Debug("details requested for unknown plant %q", id)
	}
	// Unknown plants still answer 200 with an error body.
	writeJSON(w, http.StatusOK, resp)
}

// requestID echoes the caller's X-Request-ID, or assigns one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(feed.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(feed.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
