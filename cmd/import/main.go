// Package main provides the bulk recipe import command.
//
// Usage:
//
//	import -username alice [-update] [-config config.yaml] recipes.json
//
// The input file holds either a JSON array of recipe items or an object
// with the array under "recipes" (Hungarian spelling accepted). Items
// may use Hungarian or English field names.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/receptar/receptar/internal/application/importer"
	"github.com/receptar/receptar/internal/infrastructure/config"
	gormstore "github.com/receptar/receptar/internal/infrastructure/persistence/gorm"
	"github.com/receptar/receptar/internal/infrastructure/persistence/postgres"
	"github.com/receptar/receptar/pkg/logger"
)

func main() {
	var (
		username   = flag.String("username", "", "account that will own the imported recipes")
		update     = flag.Bool("update", false, "update recipes that already exist instead of skipping them")
		configPath = flag.String("config", "", "path to the configuration file")
	)
	flag.Parse()

	if *username == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import -username <name> [-update] [-config <path>] <file.json>")
		os.Exit(2)
	}

	if err := run(*configPath, flag.Arg(0), *username, *update); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, filePath, username string, update bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", filePath, err)
	}

	cm, err := postgres.NewConnectionManager(cfg, log)
	if err != nil {
		return err
	}
	defer cm.Close()

	if cfg.Database.AutoMigrate {
		if err := cm.Migrate(); err != nil {
			return err
		}
	}

	db := cm.GetDB()
	service := importer.NewService(
		importer.DefaultTranslator(),
		gormstore.NewRecipeRepository(db),
		gormstore.NewUserRepository(db),
		gormstore.NewLookupRepository(db),
		gormstore.NewTxManager(db),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := service.ImportBatch(ctx, document, username, update)
	if err != nil {
		return err
	}

	fmt.Printf("created %d, updated %d, skipped %d\n", result.Created, result.Updated, len(result.Skipped))
	for _, diagnostic := range result.Skipped {
		fmt.Printf("  skipped: %s\n", diagnostic)
	}

	log.Info("Import finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", len(result.Skipped)),
	)
	return nil
}
