package grpcserver

import (
	"context"

	"github.com/rzbill/cmdring/internal/runtime"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type healthSvc struct {
	healthpb.UnimplementedHealthServer
	rt *runtime.Runtime
}

func (h *healthSvc) Check(ctx context.Context, _ *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if err := h.rt.CheckHealth(ctx); err != nil {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
