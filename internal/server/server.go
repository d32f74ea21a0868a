// package server contains middleware & handlers for the score tracking web service
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/simplescore/simplescore-backend/internal/catalog"
	"github.com/simplescore/simplescore-backend/internal/models"
)

// APIPrefix is the path prefix of every API route.
const APIPrefix = "/score/api/v0"

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the score tracking service.
// Implementations handle specific endpoints (health, charts, scores).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the "METHOD /path" patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                                       // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler, mw ...Middleware) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                                            // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request)                   // ServeHTTP implements http.Handler for the entire router
}

// Catalog is the domain surface served over HTTP. [catalog.Catalog] implements it.
type Catalog interface {
	Ingest(ctx context.Context, filename, text string) (*catalog.ReconcileResult, error)
	Reconcile(ctx context.Context, fingerprint string, song models.SongMetadata, chart models.ChartMetadata) (*catalog.ReconcileResult, error)
	Chart(ctx context.Context, fingerprint string) (*models.Chart, error)
	DeleteChart(ctx context.Context, fingerprint string) (*catalog.DeleteResult, error)
	Song(ctx context.Context, id string) (*catalog.SongDetail, error)
	SubmitScore(ctx context.Context, username string, sub models.ScoreSubmission) (*catalog.ScoreResult, error)
	PartialScores(ctx context.Context, fingerprint string) ([]*models.PartialScore, error)
}

// Options configures a [Server].
type Options struct {
	Logger    *log.Logger
	Auth      *Authenticator
	RateLimit float64 // write requests per second per client, zero disables limiting
	RateBurst int
}

// Server serves the score API.
type Server struct {
	router  *BasicRouter
	catalog Catalog
	auth    *Authenticator
	logger  *log.Logger
}

// New builds a [Server] with every API route registered.
func New(cat Catalog, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		router:  NewBasicRouter(),
		catalog: cat,
		auth:    opts.Auth,
		logger:  logger,
	}
	s.routes(opts)
	return s
}

func (s *Server) routes(opts Options) {
	s.router.Use(Recover(s.logger), RequestLogger(s.logger))
	s.router.Handler(HealthHandler{})

	limit := RateLimit(NewClientLimiter(opts.RateLimit, opts.RateBurst))
	authed := RequireAuth(s.auth)
	admin := RequireAdmin(s.auth)

	s.router.Handle(http.MethodPost, APIPrefix+"/chart/{$}", http.HandlerFunc(s.createChart),
		limit, BodyLimit(maxChartBody), authed)
	s.router.Handle(http.MethodPost, APIPrefix+"/chart/submit-meta", http.HandlerFunc(s.submitMeta),
		limit, BodyLimit(maxJSONBody), admin)
	s.router.Handle(http.MethodGet, APIPrefix+"/chart/sha3/{fingerprint}", http.HandlerFunc(s.getChart))
	s.router.Handle(http.MethodDelete, APIPrefix+"/chart/sha3/{fingerprint}", http.HandlerFunc(s.deleteChart),
		limit, admin)
	s.router.Handle(http.MethodGet, APIPrefix+"/song/{id}", http.HandlerFunc(s.getSong))
	s.router.Handle(http.MethodPost, APIPrefix+"/score/{$}", http.HandlerFunc(s.submitScore),
		limit, BodyLimit(maxJSONBody), authed)
	s.router.Handle(http.MethodGet, APIPrefix+"/score/partial/{fingerprint}", http.HandlerFunc(s.partialScores),
		authed)
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %v", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
