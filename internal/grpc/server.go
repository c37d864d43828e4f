package grpcserver

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"travelJournal/internal/auth"
	"travelJournal/internal/config"
	"travelJournal/models"
)

// Health methods callable without a session.
var healthMethods = []string{
	healthpb.Health_Check_FullMethodName,
	healthpb.Health_Watch_FullMethodName,
	healthpb.Health_List_FullMethodName,
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server is the ops gRPC surface: health for probes, reflection for admins.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	db     Pinger
	log    *slog.Logger
}

// New builds the server. Every method except health requires an admin
// session token in the authorization metadata.
func New(codec *auth.SessionCodec, db Pinger, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	admins := []auth.Role{models.RoleAdmin}
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(auth.NewUnaryAuthInterceptor(codec, admins, healthMethods...)),
		grpc.StreamInterceptor(auth.NewStreamAuthInterceptor(codec, admins, healthMethods...)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return &Server{srv: srv, health: hs, db: db, log: log}
}

// CheckDB sets the overall serving status from a database ping.
func (s *Server) CheckDB(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	st := healthpb.HealthCheckResponse_SERVING
	if err := s.db.PingContext(ctx); err != nil {
		s.log.Warn("database ping failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
}

// Serve accepts connections on lis until Shutdown.
func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Shutdown stops gracefully, forcing a stop when ctx ends first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() { s.srv.GracefulStop(); close(done) }()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.srv.Stop()
		return ctx.Err()
	}
}

// StartGRPC starts the ops server on cfg.GRPC.Address and returns a shutdown
// function. An empty address disables it and returns a no-op.
func StartGRPC(cfg *config.Config, codec *auth.SessionCodec, db Pinger, log *slog.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}
	if cfg.GRPC.Address == "" {
		return func(context.Context) error { return nil }, nil
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return nil, err
	}

	s := New(codec, db, log)
	s.CheckDB(context.Background())
	go func() {
		if err := s.Serve(lis); err != nil {
			s.log.Error("grpc serve", "error", err)
		}
	}()
	s.log.Info("grpc listening", "address", lis.Addr().String())
	return s.Shutdown, nil
}
