package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/config"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/httpapi"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/notify"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/relay"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/telemetry"
)

func main() {
	cfg := config.LoadRelay()
	shutdownTelemetry := telemetry.Setup("push-relay")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	handler := relay.NewHandler(
		notify.NewRenderer(cfg.Renderer),
		relay.NewWindows(cfg.Windows),
		cfg.AdminURL,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", expvar.Handler())
	mux.Handle("/", handler.Routes())

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(mux), "push-relay")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("push-relay listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
