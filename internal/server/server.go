// Package server provides the HTTP API behind the resume builder frontend:
// account signup and signin, the AI generation proxy, language settings,
// client error telemetry and liveness checks.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	db          DBClient
	closers     []func()
	llm         llm.Client
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	validator   *validator.Validate
	corsOrigin  string
}

// Options carries the dependencies New would otherwise build from config.
// DB and LLM may be nil; the endpoints that need them then answer 500.
type Options struct {
	DB        DBClient
	LLM       llm.Client
	Verifier  IDTokenVerifier
	Passwords *config.PasswordConfig
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
}

// New creates a server from cfg. A database or AI provider that cannot be
// reached is logged and left nil; the server still starts.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtEnv, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfigWithSecret(cfg.JWTSecret, jwtEnv.ExpirationHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	opts := Options{
		Verifier:  NewGoogleVerifier(cfg.GoogleClientID),
		Passwords: passwords,
		JWT:       jwtConfig,
		RateLimit: ratelimit.LoadConfig(),
	}

	var closers []func()
	if database := connectDB(ctx, cfg.DatabaseURL); database != nil {
		opts.DB = database
		closers = append(closers, database.Close)
	}

	llmConfig := llm.DefaultGeminiConfig().WithDefaultModel(cfg.DefaultModel)
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Printf("[ai] no API key configured; /api/ai/generate will return 500")
	case err != nil:
		log.Printf("[ai] failed to create client: %v", err)
	default:
		opts.LLM = client
		closers = append(closers, func() { _ = client.Close() })
	}

	s, err := NewWithOptions(cfg, opts)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}
	s.closers = closers
	return s, nil
}

// connectDB connects and migrates, returning nil on any failure.
func connectDB(ctx context.Context, databaseURL string) *db.DB {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	database, err := db.Connect(connectCtx, databaseURL)
	if err != nil {
		log.Printf("[db] connection failed, continuing without database: %v", err)
		return nil
	}
	if err := database.Migrate(connectCtx); err != nil {
		log.Printf("[db] migration failed, continuing without database: %v", err)
		database.Close()
		return nil
	}
	log.Printf("[db] connected")
	return database
}

// NewWithOptions creates a server with explicit dependencies.
func NewWithOptions(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Passwords == nil {
		return nil, fmt.Errorf("password config is required")
	}
	if opts.JWT == nil {
		return nil, fmt.Errorf("JWT config is required")
	}

	s := &Server{
		db:          opts.DB,
		llm:         opts.LLM,
		rateLimiter: ratelimit.NewLimiter(opts.RateLimit),
		jwtService:  NewJWTService(opts.JWT),
		validator:   validator.New(),
		corsOrigin:  cfg.CORSOrigin,
	}
	s.authHandler = NewAuthHandler(NewUserService(opts.DB, opts.Passwords, opts.Verifier), s.jwtService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /test", s.handleTest)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /signup", s.authHandler.Register)
	mux.HandleFunc("POST /signin", s.authHandler.Login)
	mux.HandleFunc("POST /auth/google", s.authHandler.GoogleLogin)
	mux.Handle("GET /api/me", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(http.HandlerFunc(s.authHandler.Me)))

	mux.HandleFunc("POST /api/ai/generate", s.handleGenerate)

	mux.HandleFunc("GET /api/language", s.handleGetLanguage)
	mux.HandleFunc("PUT /api/language", s.handlePutLanguage)

	mux.HandleFunc("POST /api/logs/client", s.handleClientLog)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close releases the rate limiter, AI client and database pool.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

// withCORS adds CORS headers for the configured frontend origin
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleTest is the plain-text liveness probe used by the frontend.
func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Server is running"))
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// writeError writes an error JSON response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is ignored since it is client controlled.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retryAfter := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = retryAfter
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	writeJSON(w, http.StatusTooManyRequests, response)
}
