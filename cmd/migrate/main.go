package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Rrens/business-assistant/internal/config"
	"github.com/Rrens/business-assistant/internal/logger"
	"github.com/Rrens/business-assistant/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const usage = `usage: migrate [-steps N] <up|down|version>

  up       apply all pending migrations
  down     revert the last N migrations (all when -steps is 0)
  version  print the applied schema version`

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	steps := flag.Int("steps", 1, "number of migrations to revert with down")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if _, err := logger.Setup(cfg.Logging, os.Getenv("ENV")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	source := cfg.Database.MigrationsURL()
	log.Info().Str("host", cfg.Database.Host).Int("port", cfg.Database.Port).Str("source", source).Msg("Connecting to database")

	switch flag.Arg(0) {
	case "up":
		err = postgres.RunMigrations(dsn, source)
	case "down":
		err = postgres.RollbackMigrations(dsn, source, *steps)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = postgres.MigrationVersion(dsn, source)
		if err == nil {
			fmt.Printf("version: %d, dirty: %t\n", version, dirty)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("Migration failed")
	}
}
