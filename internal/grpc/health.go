package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer answers grpc.health.v1 checks by pinging the database.
type HealthServer struct {
	healthpb.UnimplementedHealthServer
	db      Pinger
	timeout time.Duration
	logger  *zap.Logger
}

func NewHealthServer(db Pinger, timeout time.Duration, logger *zap.Logger) *HealthServer {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthServer{db: db, timeout: timeout, logger: logger.Named("grpc.health")}
}

func (s *HealthServer) Check(ctx context.Context, _ *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.Ping(pingCtx); err != nil {
		s.logger.Warn("database ping failed", zap.Error(err))
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

// NewServer builds the gRPC server. An empty serviceToken leaves it
// unauthenticated; otherwise calls need the service token or a pl bearer token.
func NewServer(health *HealthServer, serviceToken string, tokens TokenVerifier, logger *zap.Logger) (*grpc.Server, error) {
	var opts []grpc.ServerOption
	if serviceToken != "" {
		guard, err := NewCallerGuard(serviceToken, tokens, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.UnaryInterceptor(guard.UnaryInterceptor()))
	}
	server := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(server, health)
	return server, nil
}
