// viagens-apistub is an in-memory stand-in for the remote viagens API, for
// local development against AUTH_MODE=mock. It verifies the HS256 dev tokens
// the UI mints, serves the Portuguese-field trip contract, and rejects
// deletes from tokens without the admin role, so the UI's error surfacing can
// be exercised end to end without the real backend.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rotalabs/viagens-ui/internal/bootstrap"
	"github.com/rotalabs/viagens-ui/internal/claims"
	"github.com/rotalabs/viagens-ui/internal/domain/model"
)

func main() {
	logger := bootstrap.InitLogger()
	if err := run(logger); err != nil {
		logger.Error("fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	addr := os.Getenv("APISTUB_ADDR")
	if addr == "" {
		addr = ":8081"
	}

	store := newTripStore()
	srv := &stubServer{
		store:      store,
		signingKey: []byte(cfg.Auth.DevAuth.SigningKey),
		roleKeys:   cfg.Auth.RoleClaimKeys(),
		adminRole:  cfg.Auth.AdminRole,
		logger:     logger,
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      srv.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting viagens api stub", "addr", addr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("api stub failed", "error", serveErr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type stubServer struct {
	store      *tripStore
	signingKey []byte
	roleKeys   []string
	adminRole  string
	logger     *slog.Logger
}

func (s *stubServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/viagens", func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/", s.listTrips)
		r.Post("/", s.createTrip)
		r.With(s.requireAdmin).Delete("/{id}", s.deleteTrip)
	})

	return r
}

type roleSetKey struct{}

// requireToken verifies the bearer token's HS256 signature with the shared
// dev signing key and stashes the derived role set in the request context.
func (s *stubServer) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.signingKey, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		payload, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		roleSet := claims.Roles(s.roleKeys, map[string]any(payload))
		ctx := context.WithValue(r.Context(), roleSetKey{}, roleSet)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates deletes; the Portuguese error body is what the UI
// surfaces verbatim, mirroring the real backend's behavior.
func (s *stubServer) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roleSet, _ := r.Context().Value(roleSetKey{}).([]string)
		if !claims.HasRole(roleSet, s.adminRole) {
			writeError(w, http.StatusForbidden, "sem permissao para apagar viagens")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *stubServer) listTrips(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *stubServer) createTrip(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo do pedido invalido")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trip := s.store.Create(req)
	s.logger.Info("trip created", "id", trip.ID, "origin", trip.Origin, "destination", trip.Destination)
	writeJSON(w, http.StatusCreated, trip)
}

func (s *stubServer) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id := model.TripID(chi.URLParam(r, "id"))
	if !s.store.Delete(id) {
		writeError(w, http.StatusNotFound, "viagem nao encontrada")
		return
	}
	s.logger.Info("trip deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// tripStore is the in-memory trip collection. Seeded with a couple of records
// so a fresh UI session has something to render.
type tripStore struct {
	mu    sync.Mutex
	next  int
	trips []model.Trip
}

func newTripStore() *tripStore {
	store := &tripStore{next: 1}
	desc := "Fim de semana no Porto"
	store.Create(model.CreateTripRequest{
		Origin:        "Lisboa",
		Destination:   "Porto",
		Description:   &desc,
		TransportMode: "comboio",
	})
	store.Create(model.CreateTripRequest{
		Origin:        "Faro",
		Destination:   "Lagos",
		TransportMode: "carro",
	})
	return store
}

func (s *tripStore) List() []model.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Trip, len(s.trips))
	copy(out, s.trips)
	return out
}

func (s *tripStore) Create(req model.CreateTripRequest) model.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip := model.Trip{
		ID:            model.TripID(strconv.Itoa(s.next)),
		Origin:        req.Origin,
		Destination:   req.Destination,
		Description:   req.Description,
		TransportMode: req.TransportMode,
	}
	s.next++
	s.trips = append(s.trips, trip)
	return trip
}

func (s *tripStore) Delete(id model.TripID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, trip := range s.trips {
		if trip.ID == id {
			s.trips = append(s.trips[:i], s.trips[i+1:]...)
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
