package grpc

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	grpc2 "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

//go:generate mockgen -destination=grpc_mock.go -package=grpc -source=grpc.go

type grpcServer interface {
	Serve(lis net.Listener) error
	GracefulStop()
}

// Server implements the app.Dependency interface for the chunk service
type Server struct {
	address  string
	server   grpcServer
	port     int
	listener net.Listener
}

type Config struct {
	Address    string
	Port       int
	Recordings recordings
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

// NewServer creates a gRPC server serving the chunk service and binds its listener.
func NewServer(cfg *Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	srv := grpc2.NewServer()
	RegisterChunkServiceServer(srv, &chunkService{
		recordings: cfg.Recordings,
	})
	reflection.Register(srv)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Address, cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", cfg.Port, err)
	}

	return &Server{
		address:  cfg.Address,
		server:   srv,
		port:     cfg.Port,
		listener: lis,
	}, nil
}

func (s *Server) Start() error {
	log.Info().Msgf("gRPC server listening at %s:%d", s.address, s.port)

	errCh := make(chan error, 1)

	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			errCh <- err
			log.Error().Err(err).Msg("gRPC server failed")
			return
		}
		errCh <- nil
	}()

	// Serve only returns early when the listener is unusable
	select {
	case err := <-errCh:
		return err
	case <-time.After(500 * time.Millisecond):
		return nil
	}
}

func (s *Server) Stop() error {
	log.Info().Msg("Stopping gRPC server")
	s.server.GracefulStop()
	return nil
}

func (s *Server) Name() string {
	return "gRPC Server"
}
