package bridge

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/harun/mcpbridge/pkg/tool"
)

// Server is the MCP bridge HTTP server. It exposes the tool-invocation
// protocol (legacy, generic, and MCP-compliant entry points) plus the
// informational endpoints, delegating all tool semantics to the executor.
type Server struct {
	options        ServerOptions
	server         *http.Server
	registry       *tool.Registry
	executor       *tool.Executor
	rateLimiter    *RateLimiter
	metricsTracker *MetricsTracker
	broadcaster    *EventBroadcaster
	cronRunner     *cron.Cron
	logger         zerolog.Logger
	startTime      time.Time
	isShuttingDown bool
	shutdownMu     sync.RWMutex
	inFlightReqs   sync.WaitGroup
}

// NewServer creates a new bridge server.
func NewServer(options ServerOptions, registry *tool.Registry, executor *tool.Executor, logger zerolog.Logger) (*Server, error) {
	if options.Port == 0 {
		options.Port = 5004
	}
	if options.Host == "" {
		options.Host = "0.0.0.0"
	}
	if options.RateLimitPerMinute == 0 {
		options.RateLimitPerMinute = 100
	}
	if options.ShutdownTimeout == 0 {
		options.ShutdownTimeout = 30 * time.Second
	}

	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if executor == nil {
		return nil, fmt.Errorf("tool executor is required")
	}

	return &Server{
		options:        options,
		registry:       registry,
		executor:       executor,
		rateLimiter:    NewRateLimiter(options.RateLimitPerMinute),
		metricsTracker: NewMetricsTracker(),
		broadcaster:    NewEventBroadcaster(logger),
		logger:         logger,
		startTime:      time.Now(),
	}, nil
}

// Handler returns the fully routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/{$}", s.withRequest(s.handleRoot))
	mux.HandleFunc("GET /health", s.withRequest(s.handleHealth))
	mux.HandleFunc("GET /mcp/health", s.withRequest(s.handleHealth))
	mux.HandleFunc("GET /mcp/version", s.withRequest(s.handleVersion))
	mux.HandleFunc("GET /mcp/tools", s.withRequest(s.handleListTools))
	mux.HandleFunc("GET /mcp/resources", s.withRequest(s.handleListResources))
	mux.HandleFunc("GET /mcp/metrics", s.withRequest(s.handleMetrics))
	mux.HandleFunc("GET /mcp/events", s.broadcaster.HandleSubscribe)

	mux.HandleFunc("POST /mcp_query", s.withRequest(s.handleLegacyQuery))
	mux.HandleFunc("POST /mcp/tools/{tool}", s.withRequest(s.withRateLimit(s.handleGenericExecute)))
	mux.HandleFunc("POST /mcp/execute", s.withRequest(s.withRateLimit(s.handleProtocolExecute)))

	return mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.startCron()

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.options.Host, s.options.Port),
		Handler: s.Handler(),
	}

	s.logger.Info().
		Str("host", s.options.Host).
		Int("port", s.options.Port).
		Strs("tools", s.registry.Names()).
		Msg("Starting MCP bridge server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start bridge server: %w", err)
	}

	return nil
}

// Stop gracefully stops the server, draining in-flight requests first.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()

	s.logger.Info().Msg("Shutting down MCP bridge server")

	done := make(chan struct{})
	go func() {
		s.inFlightReqs.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("All in-flight requests completed")
	case <-time.After(s.options.ShutdownTimeout):
		s.logger.Warn().Msg("Shutdown timeout reached, forcing close")
	}

	if s.cronRunner != nil {
		s.cronRunner.Stop()
	}
	s.rateLimiter.Stop()
	s.broadcaster.Close()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown bridge server: %w", err)
		}
	}

	s.logger.Info().Msg("MCP bridge server stopped")
	return nil
}

// startCron schedules the periodic metrics snapshot log.
func (s *Server) startCron() {
	s.cronRunner = cron.New()
	_, err := s.cronRunner.AddFunc("@every 1m", s.logMetricsSnapshot)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to schedule metrics snapshot")
		return
	}
	s.cronRunner.Start()
}

func (s *Server) logMetricsSnapshot() {
	metrics := s.metricsTracker.GetMetrics()
	if len(metrics) == 0 {
		return
	}

	var total, failures int64
	for _, m := range metrics {
		total += m.TotalRequests
		failures += m.FailureCount
	}

	s.logger.Info().
		Int64("totalInvocations", total).
		Int64("failures", failures).
		Int("subscribers", s.broadcaster.ClientCount()).
		Dur("uptime", time.Since(s.startTime)).
		Msg("Invocation metrics snapshot")
}

// withRequest is the common request middleware: it rejects requests during
// shutdown, tracks in-flight requests, tags each request with a short id, and
// logs completion.
func (s *Server) withRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.shutdownMu.RLock()
		if s.isShuttingDown {
			s.shutdownMu.RUnlock()
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}
		s.shutdownMu.RUnlock()

		s.inFlightReqs.Add(1)
		defer s.inFlightReqs.Done()

		requestID, _ := gonanoid.New()
		start := time.Now()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)

		s.logger.Info().
			Str("requestId", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("ip", s.getClientIP(r)).
			Int("status", recorder.status).
			Int64("duration", time.Since(start).Milliseconds()).
			Msg("Request completed")
	}
}

// withRateLimit applies per-IP rate limiting to tool-invocation routes.
func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := s.getClientIP(r)
		if !s.rateLimiter.CheckLimit(ip) {
			retryAfter := s.rateLimiter.GetRetryAfter(ip)
			s.logger.Warn().
				Str("ip", ip).
				Str("path", r.URL.Path).
				Int("retryAfter", retryAfter).
				Msg("Rate limit exceeded")

			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next(w, r)
	}
}

// getClientIP extracts the client IP from the request.
func (s *Server) getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}
