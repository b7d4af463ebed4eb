// Package server wires the roller engine, its MCP tools and the gRPC health
// lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	platformerrors "github.com/louisbranch/rollkeeper/internal/platform/errors"
	"github.com/louisbranch/rollkeeper/internal/platform/timeouts"
	"github.com/louisbranch/rollkeeper/internal/services/roller"
	"github.com/louisbranch/rollkeeper/internal/services/roller/tools"
	"github.com/louisbranch/rollkeeper/internal/sheet"
	sheetsqlite "github.com/louisbranch/rollkeeper/internal/sheet/storage/sqlite"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// HealthService is the gRPC health service name reported while serving.
const HealthService = "rollkeeper.roller"

// Config describes one roller service instance.
type Config struct {
	// GRPCAddr is the health server listen address.
	GRPCAddr  string
	Transport string
	// HTTPAddr is used by the HTTP transport only.
	HTTPAddr string
	DBPath   string
	Locale   string
	Engine   roller.Options
}

// Server hosts the MCP tools next to a gRPC health server.
type Server struct {
	cfg        Config
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *sheetsqlite.Store
	mcpServer  *mcp.Server
}

// New creates a configured roller server.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "sheets.db")
	}
	if strings.TrimSpace(cfg.Locale) == "" {
		cfg.Locale = platformerrors.DefaultLocale
	}
	switch cfg.Transport {
	case "":
		cfg.Transport = TransportStdio
	case TransportStdio, TransportHTTP:
	default:
		return nil, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}
	store, err := openSheetStore(cfg.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	engine, err := roller.NewEngine(cfg.Engine, sheet.NewService(store, nil))
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(platformerrors.UnaryServerInterceptor(cfg.Locale)),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(HealthService, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		cfg:        cfg,
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		mcpServer:  tools.NewServer(tools.NewHandlers(engine, cfg.Locale)),
	}, nil
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a roller server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve runs the configured MCP transport until it ends or the context is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if s.cfg.Transport == TransportHTTP {
		return s.serve(ctx, s.serveHTTP)
	}
	return s.ServeTransport(ctx, &mcp.StdioTransport{})
}

// ServeTransport runs the MCP tools over transport.
func (s *Server) ServeTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil {
		return errors.New("server is nil")
	}
	return s.serve(ctx, func(ctx context.Context) error {
		err := s.mcpServer.Run(ctx, transport)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	})
}

func (s *Server) serveHTTP(ctx context.Context) error {
	addr := s.cfg.HTTPAddr
	if addr == "" {
		addr = "localhost:8081"
	}
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcpServer }, nil)
	httpServer := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: timeouts.ReadHeader}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("mcp http listening at %s", addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) serve(ctx context.Context, runMCP func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Printf("roller health server listening at %v", s.listener.Addr())
	grpcErr := make(chan error, 1)
	go func() {
		grpcErr <- s.grpcServer.Serve(s.listener)
	}()
	mcpErr := make(chan error, 1)
	go func() {
		mcpErr <- runMCP(ctx)
	}()

	select {
	case err := <-mcpErr:
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		if serveErr := <-grpcErr; serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) && err == nil {
			return fmt.Errorf("serve gRPC: %w", serveErr)
		}
		if err != nil {
			return fmt.Errorf("serve MCP: %w", err)
		}
		return nil
	case err := <-grpcErr:
		cancel()
		<-mcpErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close releases roller server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close sheet store: %v", err)
		}
		s.store = nil
	}
}

func openSheetStore(path string) (*sheetsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sheetsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet sqlite store: %w", err)
	}
	return store, nil
}
