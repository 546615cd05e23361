package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hopehaven/hopehaven/internal/auth"
	"github.com/hopehaven/hopehaven/internal/config"
	"github.com/hopehaven/hopehaven/internal/identity"
	"github.com/hopehaven/hopehaven/internal/infra"
	"github.com/hopehaven/hopehaven/internal/logging"
)

// Seeds a staff or admin account directly into Postgres, bypassing the
// signup challenge flow. Intended for bootstrapping fresh deployments.
func main() {
	email := flag.String("email", "staff@hopehaven.com", "account email")
	password := flag.String("password", "", "account password (required)")
	role := flag.String("role", "staff", "account role: staff or admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	if *password == "" {
		logger.Error("a -password is required")
		os.Exit(1)
	}
	parsedRole, err := identity.ParseRole(*role)
	if err != nil {
		logger.Error("invalid role", "role", *role, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		logger.Error("hash password", "error", err)
		os.Exit(1)
	}

	repo := identity.NewPostgresRepository(db)
	err = repo.Create(ctx, identity.Identity{
		ID:           uuid.NewString(),
		Email:        *email,
		PasswordHash: hash,
		Role:         parsedRole,
		CreatedAt:    time.Now().UTC(),
	})
	switch {
	case errors.Is(err, identity.ErrDuplicateIdentity):
		logger.Info("account already exists, nothing to do", "email", *email)
	case err != nil:
		logger.Error("create account", "error", err)
		os.Exit(1)
	default:
		logger.Info("account created", "email", *email, "role", parsedRole)
	}
}
