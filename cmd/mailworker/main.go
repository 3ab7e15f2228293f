package main

import (
	"log"
	"log/slog"

	"github.com/hibiken/asynq"

	"sevabook/infrastructure/config"
	"sevabook/infrastructure/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Mail.RedisAddr == "" {
		log.Fatal("REDIS_ADDR is required for the mail worker")
	}
	if !cfg.SMTP.Configured() {
		log.Fatal("SMTP_HOST, SMTP_USER and SMTP_PASS are required for the mail worker")
	}

	queue := cfg.Mail.Queue
	if queue == "" {
		queue = "mail"
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Mail.RedisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{queue: 1},
		},
	)

	sender := mailer.NewSender(cfg.SMTP)
	mux := mailer.NewServeMux(sender, cfg.SMTP.FromName, slog.Default())

	log.Printf("mail worker consuming queue %q from %s", queue, cfg.Mail.RedisAddr)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("mail worker: %v", err)
	}
}
