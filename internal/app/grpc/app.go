package grpcapp

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported to gRPC health checks.
const ServiceName = "livepoll"

// App serves the standard gRPC health protocol for orchestrators.
type App struct {
	log        *slog.Logger
	gRPCServer *grpc.Server
	health     *health.Server
	port       int
}

func NewApp(log *slog.Logger, port int) *App {
	gRPCServer := grpc.NewServer()

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gRPCServer, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &App{
		log:        log,
		gRPCServer: gRPCServer,
		health:     hs,
		port:       port,
	}
}

func (a *App) Run() error {
	const op = "grpcapp.Run"

	l, err := net.Listen("tcp", fmt.Sprintf(":%d", a.port))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("gRPC health server is running", slog.String("op", op), slog.String("addr", l.Addr().String()))

	if err := a.gRPCServer.Serve(l); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SetServing flips the reported status of the service and the overall server.
func (a *App) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	a.health.SetServingStatus("", status)
	a.health.SetServingStatus(ServiceName, status)
}

// Stop reports NOT_SERVING to watchers and drains in-flight checks.
func (a *App) Stop() {
	const op = "grpcapp.Stop"

	a.log.Info("stopping gRPC health server", slog.String("op", op), slog.Int("port", a.port))

	a.health.Shutdown()
	a.gRPCServer.GracefulStop()
}
