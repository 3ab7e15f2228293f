package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/auth"
	"sevabook/infrastructure/config"
	httpserver "sevabook/infrastructure/http"
	"sevabook/infrastructure/mailer"
	"sevabook/infrastructure/realtime"
	"sevabook/infrastructure/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sqlite.OpenDB(cfg.SQLite.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, cfg.SQLite.MigrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := realtime.NewHub()
	go hub.Run(hubCtx)

	enq := mailer.NewEnqueuer(cfg.Mail, slog.Default())
	defer enq.Close()

	authSvc := auth.New(cfg.Auth)
	auditSvc := audit.NewService()

	server := httpserver.NewServer(cfg, db, authSvc, auditSvc, hub, enq)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("sevabook listening on %s", cfg.Server.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
