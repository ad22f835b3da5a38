package grpcserver

import (
	"errors"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Server struct {
	addr   string
	mu     sync.Mutex
	lis    net.Listener
	Server *grpc.Server
	Health *health.Server
}

// New builds a gRPC server with the health service and reflection registered.
// Interceptors and credentials are passed through opts.
func New(addr string, opts ...grpc.ServerOption) *Server {
	s := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)
	return &Server{
		addr:   addr,
		Server: s,
		Health: hs,
	}
}

// Listen binds the address; Addr reports the bound address afterwards,
// which matters when addr uses port 0.
func (s *Server) Listen() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lis = lis
	s.mu.Unlock()
	return nil
}

func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis == nil {
		return s.addr
	}
	return s.lis.Addr().String()
}

// Start listens (unless Listen was already called) and serves until Stop.
func (s *Server) Start() error {
	s.mu.Lock()
	lis := s.lis
	s.mu.Unlock()
	if lis == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		lis = s.lis
		s.mu.Unlock()
	}
	err := s.Server.Serve(lis)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

func (s *Server) Stop() {
	s.Health.Shutdown()
	s.Server.GracefulStop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
