package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/cors"

	"teachjournal/internal/auth"
	applog "teachjournal/internal/log"
	"teachjournal/internal/middleware/ratelimit"
	"teachjournal/internal/middleware/security"
	"teachjournal/internal/middleware/trace"
	"teachjournal/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sizer reports the number of live cache entries.
type Sizer interface {
	Size() int
}

// Config holds the server's network and middleware settings.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	Logger             *applog.Logger
}

// Deps are the collaborators the handlers call into. TeacherCache may be nil.
type Deps struct {
	Journal      *services.JournalService
	Stats        *services.StatsService
	Verifier     auth.Verifier
	Store        Pinger
	TeacherCache Sizer
}

type appMetrics struct {
	entriesCreated int64
	entriesUpdated int64
	entriesDeleted int64
	accessDenied   int64
	uptime         time.Time
}

type Server struct {
	http.Server
	journal      *services.JournalService
	stats        *services.StatsService
	store        Pinger
	teacherCache Sizer
	logger       *applog.Logger

	traceMiddleware  *trace.Middleware
	securityDetector *security.Detector
	rateLimiter      *ratelimit.Limiter
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, deps Deps) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}

	detector := security.NewDetector()
	s := &Server{
		journal:          deps.Journal,
		stats:            deps.Stats,
		store:            deps.Store,
		teacherCache:     deps.TeacherCache,
		logger:           logger,
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP, logger),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
		appMetrics: &appMetrics{uptime: time.Now()},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health-check", s.handleHealthCheck)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	authed := auth.Middleware(deps.Verifier)
	mux.Handle("GET /dashboard", authed(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("GET /journal", authed(http.HandlerFunc(s.handleJournalIndex)))
	mux.Handle("POST /journal", authed(http.HandlerFunc(s.handleCreateEntry)))
	mux.Handle("GET /journal/{id}", authed(http.HandlerFunc(s.handleShowEntry)))
	mux.Handle("PUT /journal/{id}", authed(http.HandlerFunc(s.handleUpdateEntry)))
	mux.Handle("PATCH /journal/{id}", authed(http.HandlerFunc(s.handleUpdateEntry)))
	mux.Handle("DELETE /journal/{id}", authed(http.HandlerFunc(s.handleDeleteEntry)))

	var handler http.Handler = applog.ComponentMiddleware(applog.ComponentHTTP)(mux)
	handler = s.rateLimiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, detector.ExtractClientIP(r),
			"method", r.Method,
			"path", r.URL.Path)
		RateLimitedError().Write(w)
	})(handler)
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
			},
			AllowedHeaders: []string{"Authorization", "Content-Type", trace.HeaderRequestID},
			ExposedHeaders: []string{trace.HeaderRequestID},
			MaxAge:         600,
		}).Handler(handler)
	}
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = detector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) countDenied() {
	atomic.AddInt64(&s.appMetrics.accessDenied, 1)
}
