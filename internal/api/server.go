package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/azlocal/directory/internal/pkg/logger"
	"github.com/azlocal/directory/internal/repository/postgres"
)

// Server is the reference directory store: the HTTP service the import
// pipeline talks to.
type Server struct {
	handlers *Handlers
	server   *http.Server
}

// NewServer wires the store's repositories behind the HTTP surface.
func NewServer(addr string, db *sql.DB) *Server {
	handlers := &Handlers{
		batches:    postgres.NewBatchRepo(db),
		businesses: postgres.NewBusinessRepo(db),
		reviews:    postgres.NewReviewRepo(db),
		categories: postgres.NewCategoryRepo(db),
		db:         db,
	}
	router := SetupRoutes(handlers)

	return &Server{
		handlers: handlers,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Start begins serving and blocks until the listener fails or closes.
func (s *Server) Start() error {
	logger.Info("directory api listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
