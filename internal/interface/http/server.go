// Package http implements the REST API of the BiteBurst league service:
// the leaderboard view, the opt-out toggle, and operational health
// endpoints.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/biteburst/biteburst-leagues/internal/application/command"
	"github.com/biteburst/biteburst-leagues/internal/application/query"
	"github.com/biteburst/biteburst-leagues/pkg/logger"
)

// Config contains HTTP server configuration.
type Config struct {
	Host string
	Port int

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	EnableCORS     bool
	AllowedOrigins []string

	// RateLimitPerMinute caps requests per client IP; 0 disables limiting.
	RateLimitPerMinute int
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               8080,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxHeaderBytes:     1 << 20,
		EnableCORS:         true,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 120,
	}
}

// Address returns "host:port".
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HealthChecker reports readiness of the backing stores.
type HealthChecker interface {
	// Ready returns nil when the service can serve requests.
	Ready(ctx context.Context) error
}

// Dependencies wires the application layer into the HTTP surface.
type Dependencies struct {
	GetLeaderboardHandler *query.GetLeaderboardHandler
	SetOptOutHandler      *command.SetOptOutHandler
	Logger                *logger.Logger
	HealthChecker         HealthChecker
}

// Server is the HTTP front of the league service.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	logger     *logger.Logger
	limiter    *tokenBucketLimiter

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer builds the router, middleware chain, and http.Server. It
// does not start listening; call Start.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		logger: deps.Logger,
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	if config.RateLimitPerMinute > 0 {
		s.limiter = newTokenBucketLimiter(config.RateLimitPerMinute, time.Minute)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /live", s.handleLive)
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /api/v1/leaderboard/{userID}", s.handleGetLeaderboard)
	mux.HandleFunc("POST /api/v1/users/{userID}/leaderboard/opt-out", s.handleSetOptOut)

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.wrap(mux),
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}
	return s
}

// Start listens until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// StartAsync runs Start in a goroutine and reports its result on the
// returned channel.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// IsRunning reports whether Start has been called and not yet shut down.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns how long the server has been running, zero when stopped.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.config.Address()
}
