package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-review/internal/server"
	"resume-review/internal/services/health"
	"resume-review/internal/shared/config"
	sharedserver "resume-review/internal/shared/server"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              sharedserver.Addr(cfg.ExtractorPort),
		Handler:           server.NewEngine(cfg, health.NewService("extractor", "", nil)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting extraction service on %s", srv.Addr)
	if err := sharedserver.Serve(ctx, srv, 10*time.Second); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
