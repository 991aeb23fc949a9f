// Package grpcserver runs the gRPC health endpoint used by orchestrators and load balancers.
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported next to the overall "" entry.
const ServiceName = "evote.Election"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is a gRPC server exposing grpc.health.v1.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	log    *zap.Logger
}

// New builds the server. Reflection is registered when dev is true.
func New(log *zap.Logger, dev bool) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(RecoverUnary(log), LoggingUnary(log)),
		grpc.ChainStreamInterceptor(RecoverStream(log), LoggingStream(log)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	if dev {
		reflection.Register(gs)
	}

	s := &Server{gs: gs, health: hs, log: log}
	s.setServing(false)
	return s
}

// Serve accepts connections on lis until Stop or GracefulStop.
func (s *Server) Serve(lis net.Listener) error { return s.gs.Serve(lis) }

// GracefulStop marks every service NOT_SERVING and drains connections.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.gs.GracefulStop()
}

// Stop closes all connections immediately.
func (s *Server) Stop() { s.gs.Stop() }

func (s *Server) setServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// WatchHealth pings p every interval and publishes the result until ctx is done.
// The first check runs immediately.
func (s *Server) WatchHealth(ctx context.Context, p Pinger, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	last := -1 // unknown
	for {
		pctx, cancel := context.WithTimeout(ctx, interval)
		err := p.Ping(pctx)
		cancel()

		cur := 0
		if err == nil {
			cur = 1
		}
		if cur != last {
			if err != nil {
				s.log.Warn("store unreachable", zap.Error(err))
			} else {
				s.log.Info("store reachable")
			}
			s.setServing(err == nil)
			last = cur
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
