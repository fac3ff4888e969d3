package internal

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported by fraud-check.
const ServiceName = "infinsafe.fraudcheck.v1"

// NewGRPCServer returns a server exposing grpc.health.v1 and the health handle
// used to flip serving status.
func NewGRPCServer(opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return srv, hs
}

// BreakerHealth maps circuit breaker state to a health status.
func BreakerHealth(state string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if state == "open" {
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}
