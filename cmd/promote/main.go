// Command promote changes a registered user's role.
//
//	promote -email alice@example.com [-role admin]
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"shopgraph/internal/domain/entity"
	authadapters "shopgraph/internal/feature/auth/adapters"
	authusecase "shopgraph/internal/feature/auth/usecase"
	"shopgraph/internal/platform/config"
	infradb "shopgraph/internal/platform/db"
	jwtmw "shopgraph/internal/platform/jwt"
	"shopgraph/internal/platform/password"
)

func main() {
	email := flag.String("email", "", "email of the user to update")
	role := flag.String("role", entity.RoleAdmin, "role to assign (admin|customer)")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	db, err := infradb.Open(infradb.Config{
		Driver:        cfg.DatabaseDriver,
		DSN:           cfg.DatabaseURL,
		RunMigrations: cfg.RunMigrations,
	})
	if err != nil {
		log.Fatal("failed to open database:", err)
	}

	uc := authusecase.NewAuthUsecase(
		authadapters.NewUserGorm(db),
		jwtmw.NewGenerator(cfg.JWTSecret, cfg.TokenTTL()),
		password.NewHasher(cfg.BcryptCost),
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := uc.SetRole(ctx, *email, *role); err != nil {
		log.Fatal(err)
	}
	log.Printf("%s is now %s", *email, *role)
}
