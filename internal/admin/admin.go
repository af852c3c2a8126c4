// Package admin serves the operational HTTP surface of the chunk service: health, metrics,
// and a JSON view of the rows each recording assembles into.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/litetable/litetable-readrows/internal/observability"
	"github.com/litetable/litetable-readrows/internal/readrows"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=admin_mock.go -package=admin -source=admin.go

type recordings interface {
	List() ([]string, error)
	Open(name string) (readrows.Source, io.Closer, error)
}

// Server implements the app.Dependency interface for the admin HTTP server
type Server struct {
	address    string
	router     *gin.Engine
	httpServer *http.Server
	recordings recordings
	strict     bool
	started    time.Time
}

type Config struct {
	Address     string
	Port        int
	Recordings  recordings
	Strict      bool
	CORSOrigins []string
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Address == "" {
		errGrp = append(errGrp, fmt.Errorf("address required"))
	}
	if c.Port == 0 {
		errGrp = append(errGrp, fmt.Errorf("port required"))
	}
	if c.Recordings == nil {
		errGrp = append(errGrp, fmt.Errorf("recordings required"))
	}

	return errors.Join(errGrp...)
}

// NewServer builds the router. Nothing listens until Start.
func NewServer(cfg *Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CORSOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	address := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	s := &Server{
		address:    address,
		router:     r,
		recordings: cfg.Recordings,
		strict:     cfg.Strict,
		started:    time.Now(),
		httpServer: &http.Server{
			Addr:              address,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to create listener on %s: %w", s.address, err)
	}
	log.Info().Msgf("admin server listening at %s", s.address)

	go func() {
		if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("admin server failed")
		}
	}()
	return nil
}

func (s *Server) Stop() error {
	log.Info().Msg("Stopping admin server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Name() string {
	return "Admin Server"
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
