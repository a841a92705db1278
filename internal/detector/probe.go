package detector

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func (c *Client) grpcConn() (*grpc.ClientConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	conn, err := grpc.NewClient(c.grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("create gRPC client: %w", err)
	}
	c.conn = conn
	return conn, nil
}

func (c *Client) probeGRPC(ctx context.Context) error {
	conn, err := c.grpcConn()
	if err != nil {
		return err
	}

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("detector health check: %w", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("detector reported status %s", resp.GetStatus())
	}
	return nil
}

// Connected reports whether the gRPC channel to the sidecar is usable. It is
// always false before the first probe dials, and always true for HTTP-only
// configurations, which have no persistent channel to observe.
func (c *Client) Connected() bool {
	if c.grpcAddr == "" {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return false
	}
	state := c.conn.GetState()
	return state == connectivity.Ready || state == connectivity.Idle
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
