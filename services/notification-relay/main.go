package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	nats "github.com/nats-io/nats.go"

	sloglog "github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/logging"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/natsctx"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/otelinit"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/events"
	"github.com/ShrutiGaur-tech/InFinsafe/services/notification-relay/internal"
)

func main() {
	service := "notification-relay"
	sloglog.Init(service)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	shutdownTrace := otelinit.InitTracer(ctx, service)
	shutdownMetrics, promHandler := otelinit.InitMetrics(ctx, service)

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name(service), nats.MaxReconnects(-1), nats.RetryOnFailedConnect(true))
	if err != nil {
		slog.Error("nats connect failed", "url", url, "error", err)
		os.Exit(1)
	}
	defer nc.Close()

	relay := internal.NewRelay(nil)
	sub, err := natsctx.Subscribe(nc, events.SubjectAll, relay.Handle)
	if err != nil {
		slog.Error("subscribe failed", "subject", events.SubjectAll, "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if !nc.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("nats disconnected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if promHandler != nil {
		mux.Handle("/metrics", promHandler)
	}
	addr := os.Getenv("INFINSAFE_RELAY_HTTP_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()
	slog.Info("service started", "nats", url, "subject", events.SubjectAll)
	<-ctx.Done()
	slog.Info("shutdown initiated")
	_ = sub.Drain()
	ctxSd, c2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer c2()
	_ = srv.Shutdown(ctxSd)
	otelinit.Flush(ctxSd, shutdownTrace)
	_ = shutdownMetrics(ctxSd)
	slog.Info("shutdown complete")
}
