package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/logger"
	"go-inventory-api/migrations"
	"go-inventory-api/pkg/database"

	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("env", "", "optional .env file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	zl, err := logger.New(logger.Config{Level: *logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	cfg, err := config.Load(*envFile)
	if err != nil {
		zl.Fatal("Failed to load configuration", zap.Error(err))
	}

	m, err := database.NewMigrator(cfg.Database.MigrationURL(), migrations.FS, zl)
	if err != nil {
		zl.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			zl.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		var n int
		if n, err = intArg(args); err == nil {
			err = m.Steps(n)
		}
	case "force":
		var v int
		if v, err = intArg(args); err == nil {
			err = m.Force(v)
		}
	case "version":
		version, dirty, verr := m.Version()
		if verr == nil {
			zl.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		err = verr
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		zl.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a numeric argument", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid argument %q: %w", args[1], err)
	}
	return n, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [flags] <command> [args]

Commands:
  up           Apply all pending migrations
  down         Roll back all migrations
  steps <n>    Apply n migrations (negative rolls back)
  force <v>    Set the version without running migrations
  version      Print the current version`)
	flag.PrintDefaults()
}
