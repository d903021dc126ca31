package services

import (
	"errors"
	"fmt"
	"net"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported to grpc.health.v1 callers.
const ServiceName = "bridgeai.Api"

type HealthRpc struct {
	port   string
	server *grpc.Server
	health *health.Server
}

func NewHealthRpc(port string) *HealthRpc {
	server := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthRpc{port: port, server: server, health: hs}
}

func (h *HealthRpc) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprint(":", h.port))
	if err != nil {
		return fmt.Errorf("error creating health listener: %w", err)
	}
	return h.Serve(ln)
}

func (h *HealthRpc) Serve(ln net.Listener) error {
	log.Info("grpc health listening", "addr", ln.Addr().String())
	if err := h.server.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (h *HealthRpc) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

func (h *HealthRpc) Shutdown() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
