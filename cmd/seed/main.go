package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-todo/config"
	"github.com/oksasatya/go-ddd-todo/internal/container"
	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	pginfra "github.com/oksasatya/go-ddd-todo/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

const (
	demoUser     = "demo"
	demoPassword = "demopassword"
)

var demoTodos = []string{"Try the API", "Change the demo password"}

// Seeds a demo account with a couple of todos. Running it again is a no-op.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	c, err := container.New(cfg, logger, container.Deps{
		Identities: pginfra.NewIdentityRepository(pool),
		Tasks:      pginfra.NewTaskRepository(pool),
	})
	if err != nil {
		log.Fatalf("container init failed: %v", err)
	}

	identity, err := c.Accounts.Signup(ctx, demoUser, demoPassword)
	if errors.Is(err, apperror.ErrHandleTaken) {
		log.Printf("user %q already exists; nothing to seed", demoUser)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	for _, text := range demoTodos {
		if _, err := c.Tasks.Create(ctx, identity, text); err != nil {
			log.Fatalf("failed to seed todo: %v", err)
		}
	}
	log.Printf("seeded user: id=%s user=%s password=%s todos=%d", identity.ID, demoUser, demoPassword, len(demoTodos))
}
