// Package grpc serves the standard gRPC health service. Clients use it to
// tell whether the voice diary backend is reachable and its store healthy.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported for the voice diary API.
const ServiceName = common.HealthServiceName

// Probe reports whether a backing dependency is usable.
type Probe func(ctx context.Context) error

type GRPCServer struct {
	address       string
	logger        logging.Logger
	health        *health.Server
	probe         Probe
	probeInterval time.Duration
}

// NewGRPCServer builds a health server. A nil probe means the service is
// always reported as serving.
func NewGRPCServer(a string, l logging.Logger, probe Probe, probeInterval time.Duration) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		health:        health.NewServer(),
		probe:         probe,
		probeInterval: probeInterval,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.checkStore(ctx)
	if s.probe != nil && s.probeInterval > 0 {
		go s.watchStore(ctx)
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) watchStore(ctx context.Context) {
	ticker := time.NewTicker(s.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkStore(ctx)
		}
	}
}

func (s *GRPCServer) checkStore(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		if err := s.probe(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn(ctx, "store probe failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
