package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/buybuddy-backend/internal/seed"
	"github.com/angelmondragon/buybuddy-backend/pkg/config"
	"github.com/angelmondragon/buybuddy-backend/pkg/db"
	"github.com/angelmondragon/buybuddy-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	adminEmail := flag.String("admin-email", os.Getenv("BUYBUDDY_SEED_ADMIN_EMAIL"), "email of the admin account to create")
	adminPassword := flag.String("admin-password", os.Getenv("BUYBUDDY_SEED_ADMIN_PASSWORD"), "password of the admin account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(cfg.App.LoggerOptions("seed"))
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	res, err := seed.Run(ctx, dbClient.DB(), cfg.Password, seed.Admin{
		Email:     *adminEmail,
		Password:  *adminPassword,
		FirstName: "Store",
		LastName:  "Admin",
	})
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"categories": res.Categories,
		"brands":     res.Brands,
		"products":   res.Products,
		"admin":      res.Admin,
	}), "seed complete")
}
