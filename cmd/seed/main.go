package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/seed"
	"go.uber.org/zap"
)

func main() {
	var cfg seed.Config
	flag.IntVar(&cfg.Categories, "categories", 5, "Number of categories to generate")
	flag.IntVar(&cfg.ProductsPerCategory, "products", 8, "Products per category")
	flag.Float64Var(&cfg.SaleRatio, "sale-ratio", 0.25, "Share of products put on sale (0-1)")
	flag.Uint64Var(&cfg.Seed, "seed", 0, "Random seed; 0 picks one")
	flag.StringVar(&cfg.StaffUsername, "staff", "", "Create a staff account with this username")
	flag.StringVar(&cfg.StaffPassword, "staff-password", "", "Password for the staff account")
	flag.Parse()

	if cfg.StaffUsername != "" && cfg.StaffPassword == "" {
		fmt.Fprintln(os.Stderr, "-staff-password is required with -staff")
		os.Exit(2)
	}

	appCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.ConfigForEnvironment(appCfg.App.Env, appCfg.Log.Level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&appCfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	users := persistence.NewGormUserRepository(db.DB)
	seeder := seed.NewSeeder(
		persistence.NewGormCategoryRepository(db.DB),
		persistence.NewGormProductRepository(db.DB),
		users,
		users,
		log,
	)
	if _, err := seeder.Run(context.Background(), cfg); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}
