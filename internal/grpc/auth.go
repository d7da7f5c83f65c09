package grpc

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"luct/reporting/internal/auth"
	"luct/reporting/internal/metrics"
	"luct/reporting/internal/model"
)

const (
	serviceTokenHeader  = "x-service-token"
	authorizationHeader = "authorization"
)

type TokenVerifier interface {
	Parse(token string) (*auth.Claims, error)
}

// CallerGuard admits gRPC calls from sibling services holding the shared
// service token, or from program leaders presenting a valid bearer token.
type CallerGuard struct {
	serviceToken string
	tokens       TokenVerifier
	logger       *zap.Logger
}

func NewCallerGuard(serviceToken string, tokens TokenVerifier, logger *zap.Logger) (*CallerGuard, error) {
	if serviceToken == "" {
		return nil, errors.New("service auth token required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallerGuard{serviceToken: serviceToken, tokens: tokens, logger: logger.Named("grpc.auth")}, nil
}

func (g *CallerGuard) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if err := g.admit(ctx); err != nil {
			code := status.Code(err)
			reason := status.Convert(err).Message()
			g.logger.Warn("rejected grpc call",
				zap.String("method", info.FullMethod),
				zap.String("reason", reason),
				zap.String("code", code.String()))
			metrics.RecordGRPCRejection(info.FullMethod, reason)
			return nil, err
		}
		return handler(ctx, req)
	}
}

func (g *CallerGuard) admit(ctx context.Context) error {
	md, _ := metadata.FromIncomingContext(ctx)

	if token := firstValue(md, serviceTokenHeader); token != "" {
		if subtle.ConstantTimeCompare([]byte(token), []byte(g.serviceToken)) != 1 {
			return status.Error(codes.PermissionDenied, "invalid_service_token")
		}
		return nil
	}

	bearer := bearerFromMetadata(md)
	if bearer == "" || g.tokens == nil {
		return status.Error(codes.Unauthenticated, "missing_credentials")
	}
	claims, err := g.tokens.Parse(bearer)
	if err != nil {
		return status.Error(codes.Unauthenticated, "invalid_token")
	}
	if claims.Role != model.RolePL {
		return status.Error(codes.PermissionDenied, "forbidden")
	}
	return nil
}

func bearerFromMetadata(md metadata.MD) string {
	header := firstValue(md, authorizationHeader)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func firstValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
