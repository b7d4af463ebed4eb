// Package grpc holds client helpers for talking to rollkeeper gRPC servers.
package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = time.Second
	checkTimeout   = time.Second
)

// ProbeStage describes where a probe failed.
type ProbeStage string

const (
	ProbeStageConnect ProbeStage = "connect"
	ProbeStageHealth  ProbeStage = "health"
)

// ProbeError wraps a probe failure with the stage it happened in.
type ProbeError struct {
	Stage ProbeStage
	Err   error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("gRPC %s probe: %v", e.Stage, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// ClientOptions returns the dial options used for local plaintext clients.
func ClientOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// Probe connects to addr and waits until service reports SERVING or timeout
// elapses. A zero timeout waits until ctx ends.
func Probe(ctx context.Context, addr, service string, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := gogrpc.NewClient(addr, ClientOptions()...)
	if err != nil {
		return &ProbeError{Stage: ProbeStageConnect, Err: err}
	}
	defer conn.Close()

	if err := WaitServing(ctx, grpc_health_v1.NewHealthClient(conn), service); err != nil {
		return &ProbeError{Stage: ProbeStageHealth, Err: err}
	}
	return nil
}

// WaitServing polls client with exponential backoff until service reports
// SERVING or ctx ends.
func WaitServing(ctx context.Context, client grpc_health_v1.HealthClient, service string) error {
	backoff := initialBackoff
	var last error
	for {
		callCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		resp, err := client.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		switch {
		case err != nil:
			last = err
		case resp.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING:
			return nil
		default:
			last = fmt.Errorf("status %s", resp.GetStatus())
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last: %v)", ctx.Err(), last)
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}
