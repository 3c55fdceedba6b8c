package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// HealthClient asks the backend's gRPC health service whether it is serving.
type HealthClient struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

func NewHealthClient(endpointAddr string, opts ...grpc.DialOption) (*HealthClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(endpointAddr, opts...)
	if err != nil {
		return nil, err
	}
	return &HealthClient{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Ping returns nil only when the voice diary service reports SERVING.
func (c *HealthClient) Ping(ctx context.Context) error {
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: common.HealthServiceName})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: status %s", common.ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (c *HealthClient) Close() error {
	return c.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
