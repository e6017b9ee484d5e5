// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the Math Dominoes backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/categories".
//   - Game endpoints: create, inspect, act (seat token required), restart, end.
//   - Live updates over WebSocket: GET /game/{id}/ws.
//
// Notes:
//   - CORS is origin-aware for a single configured client origin.
//   - Seat tokens are HS256 JWTs bound to one game and one seat. The acting
//     player of every action is taken from the token, never from the body.
//   - The WebSocket route sits outside the handler timeout.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/broadcast"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/match"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/messages"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/store"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/tiles"
)

// Options configure a Server.
type Options struct {
	Store        store.Store
	Bus          *broadcast.Bus
	Tables       match.Deps // Publisher is replaced by Bus
	Catalog      *messages.Catalog
	JWTSecret    string
	SeatTTL      time.Duration
	ClientOrigin string
	Logger       zerolog.Logger
}

// Server bundles router, table store, event bus and token signer.
type Server struct {
	r       *chi.Mux
	store   store.Store
	bus     *broadcast.Bus
	deps    match.Deps
	catalog *messages.Catalog
	seats   seatSigner
	origin  string
	log     zerolog.Logger
	http    *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.SeatTTL <= 0 {
		o.SeatTTL = 12 * time.Hour
	}
	deps := o.Tables
	deps.Publisher = o.Bus
	deps.Logger = o.Logger

	s := &Server{
		r:       chi.NewRouter(),
		store:   o.Store,
		bus:     o.Bus,
		deps:    deps,
		catalog: o.Catalog,
		seats:   seatSigner{secret: []byte(o.JWTSecret), ttl: o.SeatTTL},
		origin:  o.ClientOrigin,
		log:     o.Logger,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.requestLogger) // structured access log
	s.r.Use(cors(s.origin))  // single-origin CORS

	// live updates (long-lived, no handler timeout)
	s.r.Get("/game/{id}/ws", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second)) // covers a slow tile generator
		r.Use(jsonContentType)

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"mathdominoes-go","endpoints":["/health","/categories","POST /game/new","/game/{id}","/game/{id}/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "games": s.store.Len()})
		})
		r.Get("/categories", s.handleCategories)

		s.mountGame(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	tiers := []map[string]any{}
	for _, t := range []game.Tier{game.TierEasy, game.TierNormal, game.TierHard} {
		tiers = append(tiers, map[string]any{"id": t, "maxDraws": t.DrawCap()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": tiles.Categories,
		"modes":      []game.Mode{game.ModePvC, game.ModePvP},
		"tiers":      tiers,
		"languages":  s.catalog.Languages(),
	})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one debug line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
