// Package config loads service configuration from defaults and environment
// variables. A .env file is honored when present so local development matches
// the deployed environment shape.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is the full service configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	SQLite SQLiteConfig `koanf:"sqlite"`
	Auth   AuthConfig   `koanf:"auth"`
	SMTP   SMTPConfig   `koanf:"smtp"`
	Mail   MailConfig   `koanf:"mail"`
}

type ServerConfig struct {
	Addr        string `koanf:"addr"`
	SiteURL     string `koanf:"site_url"`
	Environment string `koanf:"environment"`
	LogoPath    string `koanf:"logo_path"`
}

// Production reports whether the server runs in production mode. The
// simulated-time override on reservations is refused in production.
func (s ServerConfig) Production() bool {
	return strings.EqualFold(s.Environment, "production")
}

type SQLiteConfig struct {
	Path          string `koanf:"path"`
	MigrationsDir string `koanf:"migrations_dir"`
}

type AuthConfig struct {
	JWTSecret   string        `koanf:"jwt_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
	AdminEmails string        `koanf:"admin_emails"`
}

// AdminList returns the lowercased admin allow-list. Entries may be
// separated by commas, semicolons, or whitespace.
func (a AuthConfig) AdminList() []string {
	out := make([]string, 0, 4)
	for _, part := range strings.FieldsFunc(strings.ToLower(a.AdminEmails), func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	}) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsAdminEmail reports whether email is on the allow-list. An empty
// allow-list grants nobody admin access.
func (a AuthConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, admin := range a.AdminList() {
		if admin == email {
			return true
		}
	}
	return false
}

type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	FromName string `koanf:"from_name"`
	From     string `koanf:"from"`
	BCC      string `koanf:"bcc"`
}

// Configured reports whether outbound mail can be attempted at all.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

type MailConfig struct {
	RedisAddr string `koanf:"redis_addr"`
	Queue     string `koanf:"queue"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			SiteURL:     "http://localhost:8080",
			Environment: "development",
			LogoPath:    "",
		},
		SQLite: SQLiteConfig{
			Path:          "sevabook.db",
			MigrationsDir: "",
		},
		Auth: AuthConfig{
			JWTSecret:   "",
			TokenTTL:    24 * time.Hour,
			AdminEmails: "",
		},
		SMTP: SMTPConfig{
			Host:     "",
			Port:     465,
			User:     "",
			Password: "",
			FromName: "Sree Sabari Sastha Seva Samithi",
			From:     "",
			BCC:      "",
		},
		Mail: MailConfig{
			RedisAddr: "",
			Queue:     "mail",
		},
	}
}

// envMappings routes known environment variables into config paths; unknown
// variables are dropped so the ambient environment cannot pollute config.
var envMappings = map[string]string{
	"app_addr":        "server.addr",
	"site_url":        "server.site_url",
	"environment":     "server.environment",
	"logo_path":       "server.logo_path",
	"sqlite_path":     "sqlite.path",
	"migrations_dir":  "sqlite.migrations_dir",
	"jwt_secret":      "auth.jwt_secret",
	"token_ttl":       "auth.token_ttl",
	"admin_emails":    "auth.admin_emails",
	"admin_email":     "auth.admin_emails",
	"smtp_host":       "smtp.host",
	"smtp_port":       "smtp.port",
	"smtp_user":       "smtp.user",
	"smtp_pass":       "smtp.password",
	"from_name":       "smtp.from_name",
	"from_email":      "smtp.from",
	"smtp_bcc":        "smtp.bcc",
	"redis_addr":      "mail.redis_addr",
	"mail_queue_name": "mail.queue",
}

// Load builds the configuration from defaults overlaid with environment
// variables. A .env file in the working directory is loaded first when
// present; its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", func(key string) string {
		if mapped, ok := envMappings[strings.ToLower(key)]; ok {
			return mapped
		}
		return ""
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" && cfg.Server.Production() {
		return nil, fmt.Errorf("jwt_secret is required in production")
	}
	return cfg, nil
}
