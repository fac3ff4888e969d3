package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	nats "github.com/nats-io/nats.go"
	"google.golang.org/grpc/health"

	sloglog "github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/logging"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/otelinit"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/resilience"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/rewards"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/risk"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/scanner"
	"github.com/ShrutiGaur-tech/InFinsafe/services/fraud-check/internal"
)

func main() {
	service := "fraud-check"
	sloglog.Init(service)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfgPath := os.Getenv("INFINSAFE_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/fraud-check.yaml"
	}
	cfg, err := internal.LoadConfig(cfgPath)
	if err != nil {
		slog.Error("config load failed", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	shutdownTrace := otelinit.InitTracer(ctx, service)
	shutdownMetrics, promHandler := otelinit.InitMetrics(ctx, service)
	metrics := internal.NewMetrics()

	tables := risk.NewHolder(risk.DefaultTable())
	var seeds *internal.SeedWatcher
	if cfg.SeedFile != "" {
		seeds = internal.NewSeedWatcher(cfg.SeedFile, tables, metrics)
		if err := seeds.Reload(ctx); err != nil {
			slog.Error("seed load failed", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		go func() {
			if err := seeds.Run(ctx); err != nil {
				slog.Warn("seed watcher stopped", "error", err)
			}
		}()
	} else {
		slog.Info("serving embedded seed table")
	}

	phrases, err := scanner.Build(append(scanner.DefaultPhrases(), cfg.ExtraPhrases...))
	if err != nil {
		slog.Error("scanner build failed", "error", err)
		os.Exit(1)
	}

	b := cfg.Breaker
	breaker := resilience.NewCircuitBreakerAdaptive(b.Window, b.Buckets, b.MinSamples, b.FailureRate, b.HalfOpenAfter, b.Trials)
	source := &risk.DelayedSource{Tables: tables, Delay: cfg.LookupDelay}
	checker := internal.NewChecker(source, breaker, cfg.Retry, metrics)

	var notifier internal.Notifier = internal.LogNotifier{}
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name(service), nats.MaxReconnects(-1))
		if err != nil {
			slog.Warn("nats unavailable, notifications go to the log", "url", cfg.NATSURL, "error", err)
		} else {
			defer nc.Drain()
			notifier = &internal.NATSNotifier{Conn: nc, Fallback: internal.LogNotifier{}, Metrics: metrics}
		}
	}

	sessions := internal.NewSessionStore(cfg.SessionShards, cfg.StartingPoints, rewards.DefaultCatalog())
	rewarder := internal.NewRewarder(sessions, notifier, metrics)
	limiter := resilience.NewKeyedLimiter(cfg.Limit.Capacity, cfg.Limit.FillRate, cfg.Limit.Window, cfg.Limit.MaxPerWindow)

	sweeper, err := internal.NewSweeper(cfg.SweepSchedule, cfg.SessionIdleTTL, sessions, limiter, metrics)
	if err != nil {
		slog.Error("invalid sweep schedule", "schedule", cfg.SweepSchedule, "error", err)
		os.Exit(1)
	}
	sweeper.Start()

	handler := internal.NewHandler(internal.Deps{
		Checker:  checker,
		Rewarder: rewarder,
		Sessions: sessions,
		Scanner:  phrases,
		Limiter:  limiter,
		Seeds:    seeds,
		Metrics:  metrics,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: internal.NewRouter(handler, promHandler), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	grpcSrv, hs := internal.NewGRPCServer()
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		slog.Error("grpc listen failed", "addr", cfg.GRPCAddr, "error", err)
		cancel()
	} else {
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				slog.Error("grpc server error", "error", err)
			}
		}()
		go reportBreaker(ctx, hs, checker)
	}

	slog.Info("service started", "http", cfg.HTTPAddr, "grpc", cfg.GRPCAddr, "lookup_delay", cfg.LookupDelay)
	<-ctx.Done()
	slog.Info("shutdown initiated")
	hs.Shutdown()
	ctxSd, c2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer c2()
	_ = srv.Shutdown(ctxSd)
	grpcSrv.GracefulStop()
	sweeper.Stop()
	otelinit.Flush(ctxSd, shutdownTrace)
	_ = shutdownMetrics(ctxSd)
	slog.Info("shutdown complete")
}

func reportBreaker(ctx context.Context, hs *health.Server, checker *internal.Checker) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hs.SetServingStatus(internal.ServiceName, internal.BreakerHealth(checker.BreakerState()))
		}
	}
}
