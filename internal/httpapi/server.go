package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/repo"
)

// Server is the read-only status surface: current target states and a live
// feed of transitions.
type Server struct {
	Logger  *zap.Logger
	Targets repo.StatusReader
	Events  *Hub

	httpServer *http.Server
}

func NewServer(l *zap.Logger, ts repo.StatusReader, hub *Hub) *Server {
	return &Server{Logger: l, Targets: ts, Events: hub}
}

func (s *Server) Router(keys []string, rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-API-Key"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(rpm, burst))
		r.Use(apimw.RequireKey(keys))
		r.Get("/api/targets", s.handleListTargets)
		r.Get("/api/events", s.handleEvents)
	})

	return r
}

// Start serves in the background until Shutdown.
func (s *Server) Start(addr string, h http.Handler) {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		s.Logger.Info("status_api_listen", zap.String("addr", addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("status_api_failed", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.Events != nil {
		s.Events.Close()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Targets.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
