package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sevabook/infrastructure/config"
	"sevabook/infrastructure/sqlite"
	"sevabook/login"
)

func main() {
	email := flag.String("email", getenv("ADMIN_EMAIL", ""), "admin account email")
	name := flag.String("name", getenv("ADMIN_NAME", "Administrator"), "admin display name")
	password := flag.String("password", getenv("ADMIN_PASSWORD", ""), "admin account password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if err := login.ValidatePasswordPolicy(*password); err != nil {
		log.Fatalf("password policy: %v", err)
	}

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

	user, err := login.CreateAccount(context.Background(), db, *email, *name, *password, time.Now())
	if err != nil {
		if errors.Is(err, login.ErrEmailTaken) {
			log.Fatalf("account %s already exists", *email)
		}
		log.Fatalf("create account: %v", err)
	}

	fmt.Printf("seeded account id=%d email=%s\n", user.ID, user.Email)
	if !cfg.Auth.IsAdminEmail(user.Email) {
		fmt.Println("note: add this email to ADMIN_EMAILS to grant admin access")
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
