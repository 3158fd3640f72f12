package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-shop-bot/internal/config"
	"telegram-shop-bot/internal/usecase"
)

// Server is the read-only ops surface: health, metrics and a small JSON API
// over the records the bot collects. It never mutates the store; all writes go
// through the bot's flows.
type Server struct {
	catalog *usecase.CatalogUseCase
	auth    *AuthManager
	apiKey  string
	log     *zerolog.Logger

	srv *http.Server
}

func NewServer(cfg *config.WebConfig, catalog *usecase.CatalogUseCase, secureCookies bool, logger *zerolog.Logger) *Server {
	s := &Server{
		catalog: catalog,
		auth:    NewAuthManager(cfg.JWTSecret, secureCookies, cfg.SessionTTL),
		apiKey:  cfg.APIKey,
		log:     logger,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireStaff)
			r.Get("/orders", s.handleOrders)
			r.Get("/feedback", s.handleFeedback)
			r.Get("/rates", s.handleRates)
		})
	})
	return r
}

// requireStaff rejects requests without a valid staff session token.
func (s *Server) requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("ops server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
