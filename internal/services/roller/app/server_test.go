package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	platformgrpc "github.com/louisbranch/rollkeeper/internal/platform/grpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestServerServesToolsAndHealth(t *testing.T) {
	srv, err := New(Config{
		GRPCAddr: "127.0.0.1:0",
		DBPath:   filepath.Join(t.TempDir(), "data", "sheets.db"),
		Locale:   "pt-BR",
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.ServeTransport(runCtx, serverTransport)
	}()

	if err := platformgrpc.Probe(context.Background(), srv.Addr(), HealthService, 3*time.Second); err != nil {
		t.Fatalf("probe: %v", err)
	}

	conn, err := grpc.NewClient(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial roller server: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: HealthService})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("health status = %v", resp.GetStatus())
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "dice_roll",
		Arguments: map[string]any{"expression": "2d6+1", "seed": 3},
	})
	if err != nil {
		t.Fatalf("call dice_roll: %v", err)
	}
	if result.IsError {
		t.Fatalf("dice_roll returned error content: %+v", result.Content)
	}

	runCancel()
	select {
	case err := <-serveDone:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for server shutdown")
	}
}

func TestNewRejectsUnknownTransport(t *testing.T) {
	_, err := New(Config{
		GRPCAddr:  "127.0.0.1:0",
		Transport: "carrier-pigeon",
		DBPath:    filepath.Join(t.TempDir(), "sheets.db"),
	})
	if err == nil {
		t.Fatal("expected error for unsupported transport")
	}
}

func TestServeNilServer(t *testing.T) {
	var srv *Server
	if err := srv.Serve(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	srv.Close()
}
