// internal/api/server.go
package api

import (
	"context"
	"net/http"
	"time"

	indexapplication "internship-portal/internal/application/index-application"
	submitapplication "internship-portal/internal/application/submit-application"
	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	submitLimitMessage = "Too many applications submitted. Please try again later."
	apiLimitMessage    = "Too many requests from this IP, please try again later."
)

type Submitter interface {
	Submit(ctx context.Context, input map[string]interface{}) (*submitapplication.Output, error)
}

type ApplicationReader interface {
	List(ctx context.Context, filter models.ListFilter) (models.Page, error)
	Stats(ctx context.Context) (models.Stats, error)
	GetByApplicationID(ctx context.Context, applicationID string) (models.Application, error)
}

type Searcher interface {
	Search(ctx context.Context, input indexapplication.SearchInput) (*indexapplication.SearchOutput, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators behind the HTTP handlers. Search may be
// nil, in which case the search route answers 503.
type Dependencies struct {
	Submitter Submitter
	Reader    ApplicationReader
	Search    Searcher
	Database  HealthChecker
}

// Server exposes the public submission form endpoint and the admin read endpoints.
type Server struct {
	config  *Config
	deps    Dependencies
	logger  logger.Logger
	errors  *errors.ErrorHandler
	started time.Time
	now     func() time.Time

	clientIPs     *ClientIPResolver
	submitLimiter *RateLimiter
	apiLimiter    *RateLimiter
	handler       http.Handler
}

func NewServer(config *Config, deps Dependencies, log logger.Logger) *Server {
	log = log.WithFields(map[string]interface{}{"component": "api"})

	s := &Server{
		config:  config,
		deps:    deps,
		logger:  log,
		errors:  errors.NewErrorHandler(log, config.Environment == "development"),
		started: time.Now(),
		now:     time.Now,
	}
	clientIPs, err := NewClientIPResolver(config.TrustedProxies)
	if err != nil {
		log.Error("ignoring trusted proxies, keying on socket peer", map[string]interface{}{"error": err.Error()})
		clientIPs, _ = NewClientIPResolver(nil)
	}
	s.clientIPs = clientIPs
	s.submitLimiter = NewRateLimiter(config.SubmitRatePerHour, time.Hour, config.SubmitBurst, submitLimitMessage, log).
		KeyBy(clientIPs.ClientIP)
	s.apiLimiter = NewRateLimiter(config.APIRatePer15Min, 15*time.Minute, config.APIRatePer15Min, apiLimitMessage, log).
		KeyBy(clientIPs.ClientIP)
	s.handler = s.routes()

	return s
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(s.handleNotFound)
	router.Use(MetricsMiddleware())

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.apiLimiter.Handler)

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.Handle("/applications", s.submitLimiter.Handler(http.HandlerFunc(s.handleSubmit))).Methods(http.MethodPost)
	api.HandleFunc("/applications", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/applications/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/applications/search", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/applications/{applicationId}", s.handleGet).Methods(http.MethodGet)

	var h http.Handler = router
	h = NewCORSMiddleware(s.config.AllowedOrigins).Handler(h)
	h = LoggingMiddleware(s.logger, s.clientIPs)(h)
	h = RecoverMiddleware(s.errors, s.logger)(h)
	h = RequestIDMiddleware(h)
	return h
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// StartCleanup evicts idle rate limiter entries until ctx is done.
func (s *Server) StartCleanup(ctx context.Context, interval time.Duration) {
	s.submitLimiter.StartCleanup(ctx, interval)
	s.apiLimiter.StartCleanup(ctx, interval)
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.config.RequestTimeout)
}
