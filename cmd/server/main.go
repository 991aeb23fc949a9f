// Command evote-server starts the election HTTP API and the gRPC health endpoint.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/and161185/evote/internal/config"
	"github.com/and161185/evote/internal/limiter"
	"github.com/and161185/evote/internal/metrics"
	"github.com/and161185/evote/internal/migrate"
	"github.com/and161185/evote/internal/repository/postgres"
	grpcserver "github.com/and161185/evote/internal/server/grpc"
	httpserver "github.com/and161185/evote/internal/server/http"
	"github.com/and161185/evote/internal/service"
	"github.com/and161185/evote/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, migrates the schema, bootstraps the admin and serves until signalled.
func main() {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	if cfg.Dev {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	if _, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Infof)); err != nil {
		logger.Warn("set GOMAXPROCS", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("http", cfg.HTTPAddr),
		zap.String("grpc", cfg.GRPCAddr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := migrate.Up(ctx, cfg.DatabaseURL, logger); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Repositories
	voters := postgres.NewVoterRepo(db)
	candidates := postgres.NewCandidateRepo(db)
	admins := postgres.NewAdminRepo(db)
	election := postgres.NewElectionRepo(db)
	ballots := postgres.NewBallotRepo(db)

	lim := limiter.NewPG(db.Pool, cfg.Login.Policy())
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.AccessTTL)

	// Services
	authSvc := service.NewAuthService(voters, candidates, admins, issuer, lim, logger.Named("auth"), m)
	if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("ensure admin", zap.Error(err))
	}
	svcs := httpserver.Services{
		Auth:      authSvc,
		Candidacy: service.NewCandidacyService(candidates, logger.Named("candidacy")),
		Election:  service.NewElectionService(election, logger.Named("election")),
		Ballot:    service.NewBallotService(voters, candidates, election, ballots, logger.Named("ballot"), m),
		Results:   service.NewResultsService(candidates, election),
	}

	api := httpserver.New(svcs, issuer,
		httpserver.WithLogger(logger.Named("http")),
		httpserver.WithMetrics(m, reg),
		httpserver.WithHealth(db),
		httpserver.WithTrustedProxy(cfg.TrustProxy),
	)
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// gRPC health & reflection (dev)
	hs := grpcserver.New(logger.Named("grpc"), cfg.Dev)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
	go hs.WatchHealth(ctx, db, cfg.HealthInterval)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening (grpc health)", zap.String("addr", cfg.GRPCAddr))
		errCh <- hs.Serve(lis)
	}()
	go func() {
		logger.Info("listening (http)", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		stop()
	}

	// graceful shutdown
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	done := make(chan struct{})
	go func() {
		hs.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-shutCtx.Done():
		hs.Stop()
	}

	logger.Info("shutdown complete")
}
