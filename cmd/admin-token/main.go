package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"smartlink/internal/config"
	"smartlink/internal/handlers"
)

func main() {
	subject := flag.String("subject", "admin", "token subject, logged with each admin request")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to ADMIN_TOKEN_TTL)")
	flag.Parse()

	// Load .env file for local development
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.AdminAuthEnabled() {
		slog.Error("ADMIN_JWT_SECRET must be set to mint admin tokens")
		os.Exit(1)
	}

	lifetime := cfg.AdminTokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := handlers.NewAdminToken(cfg.AdminJWTSecret, *subject, lifetime)
	if err != nil {
		slog.Error("Failed to sign token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
