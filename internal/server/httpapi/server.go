// Package httpapi exposes the public JSON API over HTTP: routing,
// authentication middleware and request handlers.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ruangpuisi/api/internal/logging"
	"github.com/ruangpuisi/api/internal/server/config"
	"github.com/ruangpuisi/api/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	addr      string
	jwtSecret []byte
	logger    logging.Logger
	users     *services.UserService
	puisi     *services.PuisiService
	media     *services.MediaService
}

func NewServer(cfg *config.Config, logger logging.Logger,
	users *services.UserService, puisi *services.PuisiService, media *services.MediaService) *Server {
	return &Server{
		addr:      cfg.EndpointAddr,
		jwtSecret: []byte(cfg.SecretKey),
		logger:    logger,
		users:     users,
		puisi:     puisi,
		media:     media,
	}
}

// Router builds the route table. More specific puisi paths are registered
// before the catch-all {id} route; gorilla/mux matches in order.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	authRouter.Handle("/me", s.requireAuth(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet)
	authRouter.Handle("/profile", s.requireAuth(http.HandlerFunc(s.handleUpdateProfile))).Methods(http.MethodPut)
	authRouter.Handle("/change-password", s.requireAuth(http.HandlerFunc(s.handleChangePassword))).Methods(http.MethodPut)
	authRouter.Handle("/account", s.requireAuth(http.HandlerFunc(s.handleDeleteAccount))).Methods(http.MethodDelete)

	puisiRouter := api.PathPrefix("/puisi").Subrouter()
	puisiRouter.Handle("", s.optionalAuth(http.HandlerFunc(s.handleListPuisi))).Methods(http.MethodGet)
	puisiRouter.Handle("/popular", s.optionalAuth(http.HandlerFunc(s.handlePopularPuisi))).Methods(http.MethodGet)
	puisiRouter.Handle("/user/mine", s.requireAuth(http.HandlerFunc(s.handleMinePuisi))).Methods(http.MethodGet)
	puisiRouter.Handle("", s.requireAuth(http.HandlerFunc(s.handleCreatePuisi))).Methods(http.MethodPost)
	puisiRouter.Handle("/{id}", s.optionalAuth(http.HandlerFunc(s.handleGetPuisi))).Methods(http.MethodGet)
	puisiRouter.Handle("/{id}", s.requireAuth(http.HandlerFunc(s.handleUpdatePuisi))).Methods(http.MethodPut)
	puisiRouter.Handle("/{id}", s.requireAuth(http.HandlerFunc(s.handleDeletePuisi))).Methods(http.MethodDelete)
	puisiRouter.Handle("/{id}/like", s.requireAuth(http.HandlerFunc(s.handleLikePuisi))).Methods(http.MethodPost)

	api.Handle("/media/upload-url", s.requireAuth(http.HandlerFunc(s.handleMediaUploadURL))).Methods(http.MethodPost)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
