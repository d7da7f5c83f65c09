package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"luct/reporting/internal/auth"
	"luct/reporting/internal/metrics"
	"luct/reporting/internal/model"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

func newTestIssuer() *auth.Issuer {
	return auth.NewIssuer("test-secret", "test-issuer", time.Hour)
}

func bearerContext(t *testing.T, issuer *auth.Issuer, role model.Role) context.Context {
	t.Helper()
	token, err := issuer.Issue(model.User{ID: 9, Username: "leader", Role: role})
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(authorizationHeader, "Bearer "+token))
}

func rejections(t *testing.T, method, reason string) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := metrics.GRPCRejectionsTotal.WithLabelValues(method, reason).Write(m); err != nil {
		t.Fatalf("metric read error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCallerGuard(t *testing.T) {
	if _, err := NewCallerGuard("", nil, nil); err == nil {
		t.Fatalf("expected error for empty token")
	}
	issuer := newTestIssuer()
	guard, err := NewCallerGuard("s3cret", issuer, nil)
	if err != nil {
		t.Fatalf("guard error: %v", err)
	}
	interceptor := guard.UnaryInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	cases := []struct {
		name   string
		ctx    context.Context
		code   codes.Code
		reason string
	}{
		{name: "no credentials", ctx: context.Background(), code: codes.Unauthenticated, reason: "missing_credentials"},
		{name: "wrong service token", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(serviceTokenHeader, "wrong")), code: codes.PermissionDenied, reason: "invalid_service_token"},
		{name: "service token", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(serviceTokenHeader, "s3cret")), code: codes.OK},
		{name: "pl bearer", ctx: bearerContext(t, issuer, model.RolePL), code: codes.OK},
		{name: "lecturer bearer", ctx: bearerContext(t, issuer, model.RoleLecturer), code: codes.PermissionDenied, reason: "forbidden"},
		{name: "foreign bearer", ctx: bearerContext(t, auth.NewIssuer("other-secret", "x", time.Hour), model.RolePL), code: codes.Unauthenticated, reason: "invalid_token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var before float64
			if tc.reason != "" {
				before = rejections(t, info.FullMethod, tc.reason)
			}
			resp, err := interceptor(tc.ctx, nil, info, handler)
			if status.Code(err) != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
			if tc.code == codes.OK {
				if resp != "ok" {
					t.Fatalf("expected handler to run, got %v", resp)
				}
				return
			}
			if after := rejections(t, info.FullMethod, tc.reason); after != before+1 {
				t.Fatalf("expected rejection counted for %s, got %v -> %v", tc.reason, before, after)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	healthy := NewHealthServer(fakePinger{}, time.Second, nil)
	resp, err := healthy.Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v (%v)", resp.GetStatus(), err)
	}

	down := NewHealthServer(fakePinger{err: errors.New("connection refused")}, time.Second, nil)
	resp, err = down.Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v (%v)", resp.GetStatus(), err)
	}
}

func TestServerRequiresServiceToken(t *testing.T) {
	server, err := NewServer(NewHealthServer(fakePinger{}, time.Second, nil), "s3cret", newTestIssuer(), nil)
	if err != nil {
		t.Fatalf("server error: %v", err)
	}
	listener := bufconn.Listen(1024 * 1024)
	go func() {
		_ = server.Serve(listener)
	}()
	defer server.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(ctx, "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	if _, err := client.Check(ctx, &healthpb.HealthCheckRequest{}); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated without token, got %v", err)
	}

	authed := metadata.AppendToOutgoingContext(ctx, serviceTokenHeader, "s3cret")
	resp, err := client.Check(authed, &healthpb.HealthCheckRequest{})
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v (%v)", resp.GetStatus(), err)
	}

	token, err := newTestIssuer().Issue(model.User{ID: 4, Username: "leader", Role: model.RolePL})
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	leader := metadata.AppendToOutgoingContext(ctx, authorizationHeader, "Bearer "+token)
	if _, err := client.Check(leader, &healthpb.HealthCheckRequest{}); err != nil {
		t.Fatalf("expected pl bearer to pass, got %v", err)
	}
}
