package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"partscan/internal/analyzer/handlers"
	"partscan/internal/analyzer/repository"
	"partscan/internal/analyzer/service"
	"partscan/internal/common/config"
	"partscan/internal/common/middleware"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Analyzer Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := repository.OpenSQLite(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	if cfg.CatalogSeedPath != "" {
		if err := importSeed(repo, cfg.CatalogSeedPath); err != nil {
			log.Fatalf("import catalog: %v", err)
		}
	}

	handler := handlers.New(service.NewAnalyzer(repo), repo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit(),
		AppName:      "Part Analyzer",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.Environment, cfg.AllowedOrigins...))

	// ============================================================
	// Routes
	// ============================================================

	handler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Part Analyzer on %s (env: %s, catalog: %s)", addr, cfg.Environment, cfg.CatalogDBPath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func importSeed(repo *repository.Repository, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := repo.ImportYAML(context.Background(), f)
	if err != nil {
		return err
	}
	log.Printf("[CATALOG] Imported %d materials from %s", n, path)
	return nil
}
