package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/dmaraschin/medidor/internal/service"
)

type Server struct {
	service *service.MeasureService
	mux     *http.ServeMux
	logger  *slog.Logger
}

func NewServer(svc *service.MeasureService, logger *slog.Logger) *Server {
	s := &Server{
		service: svc,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("PATCH /confirm", s.handleConfirm)
	s.mux.HandleFunc("GET /{customer_code}/list", s.handleList)
}

// corsHandler permits every origin: the API is consumed by arbitrary
// customer frontends and carries no credentials.
func corsHandler(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})(next)
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, corsHandler(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe runs the server until it fails or ctx is cancelled, in
// which case in-flight requests get a grace period to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
