package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// startBufconn serves srv on an in-memory listener and returns a health client.
func startBufconn(t *testing.T, srv *GRPCServer) healthpb.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return healthpb.NewHealthClient(conn)
}

func TestHealth_ServingWithoutProbe(t *testing.T) {
	client := startBufconn(t, NewGRPCServer("", nopLogger{}, nil, 0))

	for _, name := range []string{"", ServiceName} {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: name})
		require.NoError(t, err)
		require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	}
}

func TestHealth_UnknownService(t *testing.T) {
	client := startBufconn(t, NewGRPCServer("", nopLogger{}, nil, 0))

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	require.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealth_FollowsProbe(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	probe := func(context.Context) error {
		if failing.Load() {
			return errors.New("db down")
		}
		return nil
	}

	client := startBufconn(t, NewGRPCServer("", nopLogger{}, probe, 10*time.Millisecond))

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		require.NoError(t, err)
		return resp.GetStatus()
	}

	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check())

	failing.Store(false)
	require.Eventually(t, func() bool {
		return check() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := NewGRPCServer("", nopLogger{}, nil, 0)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", resp)

	wantErr := status.Error(codes.Unavailable, "x")
	_, err = s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, wantErr
	})
	require.Equal(t, wantErr, err)
}
