// Package server provides the HTTP server for the dashboard data plane.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ahmedsalem001/BOD-Dashboard/auth"
	"github.com/Ahmedsalem001/BOD-Dashboard/cache"
	"github.com/Ahmedsalem001/BOD-Dashboard/enrich"
	"github.com/Ahmedsalem001/BOD-Dashboard/localstore"
	"github.com/Ahmedsalem001/BOD-Dashboard/resource/posts"
	"github.com/Ahmedsalem001/BOD-Dashboard/resource/users"
	"github.com/Ahmedsalem001/BOD-Dashboard/store"
	"github.com/Ahmedsalem001/BOD-Dashboard/telemetry"
	"github.com/Ahmedsalem001/BOD-Dashboard/upstream"
)

// Config holds server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	Address string

	// UpstreamURL is the mock API base URL
	UpstreamURL string

	// CacheTTL is the validity window for cached upstream responses.
	// Default: 5 minutes.
	CacheTTL time.Duration

	// CacheCheckInterval is how often the janitor sweeps expired entries.
	// Default: 1 minute.
	CacheCheckInterval time.Duration

	// StatePath is the path of the client-state database file
	StatePath string

	// Logger for the server
	Logger *slog.Logger
}

// Server is the HTTP server for the dashboard data plane.
type Server struct {
	config     Config
	httpServer *http.Server
	logger     *slog.Logger

	// Components
	local   *localstore.Store
	auth    *auth.Manager
	cache   *cache.Cache
	janitor *cache.Janitor
	source  *enrich.Source
	posts   *posts.Service
	users   *users.Service
	state   *store.Store
}

// New creates a new server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Address == "" {
		cfg.Address = ":8080"
	}
	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = posts.DefaultBaseURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}
	if cfg.StatePath == "" {
		cfg.StatePath = "./dashboard.db"
	}

	local, err := localstore.Open(cfg.StatePath, localstore.WithLogger(cfg.Logger.With("component", "localstore")))
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	authMgr := auth.NewManager(local, auth.WithLogger(cfg.Logger))
	if session := authMgr.Restore(); session != nil {
		telemetry.RecordSessionEvent(context.Background(), "restore")
	}

	responseCache := cache.New(cache.WithTTL(cfg.CacheTTL))
	janitor := cache.NewJanitor(responseCache, cache.JanitorConfig{
		CheckInterval: cfg.CacheCheckInterval,
		Logger:        cfg.Logger.With("component", "cache-janitor"),
	})

	source := enrich.NewSource()

	// Outgoing requests carry the session bearer token when one exists.
	tokens := upstream.WithTokenSource(authMgr.BearerToken)

	postsUpstream := posts.NewUpstream(
		posts.WithBaseURL(cfg.UpstreamURL),
		posts.WithHTTPClient(upstream.NewHTTPClient("posts", nil, tokens)),
	)
	postsService := posts.NewService(postsUpstream, responseCache, source,
		posts.WithLogger(cfg.Logger))

	usersUpstream := users.NewUpstream(
		users.WithBaseURL(cfg.UpstreamURL),
		users.WithHTTPClient(upstream.NewHTTPClient("users", nil, tokens)),
	)
	usersService := users.NewService(usersUpstream, responseCache, source,
		users.WithLogger(cfg.Logger))

	state := store.New(
		store.WithLocalStore(local),
		store.WithLogger(cfg.Logger),
	)
	state.SetSession(authMgr.Session())

	s := &Server{
		config:  cfg,
		logger:  cfg.Logger,
		local:   local,
		auth:    authMgr,
		cache:   responseCache,
		janitor: janitor,
		source:  source,
		posts:   postsService,
		users:   usersService,
		state:   state,
	}

	// Build HTTP server
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.loggingMiddleware(s.sessionMiddleware(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// registerRoutes sets up the HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Cache stats
	mux.HandleFunc("GET /stats", s.handleStats)

	// Prometheus metrics endpoint (returns 404 if not enabled)
	mux.Handle("GET /metrics", telemetry.PrometheusHandler())

	// Session endpoints
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/session", s.handleSession)

	// Theme preference
	mux.HandleFunc("GET /api/theme", s.handleGetTheme)
	mux.HandleFunc("PUT /api/theme", s.handleSetTheme)

	// Notifications
	mux.HandleFunc("GET /api/notifications", s.handleNotifications)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.handleDismissNotification)

	// Resource endpoints
	posts.NewHandler(s.posts,
		posts.WithHandlerLogger(s.logger),
		posts.WithHandlerState(s.state),
	).Register(mux)
	users.NewHandler(s.users,
		users.WithHandlerLogger(s.logger),
		users.WithHandlerState(s.state),
	).Register(mux)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleStats handles cache statistics requests.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.cache.Stats()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

// loggingMiddleware logs HTTP requests with structured fields for analysis.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		// Inject request tags so handlers can set cache_result, endpoint, etc.
		r = telemetry.InjectTags(r)
		tags := telemetry.GetTags(r)
		telemetry.SetResource(r, deriveResource(r.URL.Path))

		// Wrap response writer to capture status and bytes
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		// Build log attributes
		attrs := []any{
			// Request identification
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,

			// Resource classification (for filtering/grouping)
			"resource", tags.Resource,

			// Response details
			"status", wrapped.status,
			"status_class", telemetry.StatusClass(wrapped.status),
			"bytes_sent", wrapped.bytesWritten,

			// Timing
			"duration_ms", duration.Milliseconds(),
			"duration", duration.String(),

			// Client info
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		}

		// Add handler-set tags
		if tags.Endpoint != "" {
			attrs = append(attrs, "endpoint", tags.Endpoint)
		}
		if tags.CacheResult != "" {
			attrs = append(attrs, "cache_result", string(tags.CacheResult))
		}

		s.logger.Info("http request", attrs...)

		// Record OTel metrics
		telemetry.RecordHTTP(r.Context(), r, wrapped.status, wrapped.bytesWritten, duration)
	})
}

// Start starts the server and the cache janitor.
func (s *Server) Start() error {
	s.janitor.Start(context.Background())

	s.logger.Info("starting server", "address", s.config.Address)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	s.janitor.Stop()

	err := s.httpServer.Shutdown(ctx)
	if closeErr := s.local.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Address returns the server's listen address.
func (s *Server) Address() string {
	return s.config.Address
}

// Handler returns the root handler with middleware applied. Used by tests
// to serve requests without binding a listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// responseWriter wraps http.ResponseWriter to capture the status code and bytes written.
// It preserves http.Flusher and http.Hijacker interfaces for streaming support.
type responseWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher for streaming responses.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker for connection upgrades.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, fmt.Errorf("hijacking not supported")
}

// Unwrap returns the underlying ResponseWriter.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// deriveResource extracts the resource name from the request path.
func deriveResource(path string) string {
	switch {
	case path == "/health" || path == "/stats" || path == "/metrics":
		return "internal"
	case strings.HasPrefix(path, "/auth/"):
		return "auth"
	case strings.HasPrefix(path, "/api/posts"):
		return "posts"
	case strings.HasPrefix(path, "/api/users"):
		return "users"
	case strings.HasPrefix(path, "/api/"):
		return "api"
	default:
		return "unknown"
	}
}
