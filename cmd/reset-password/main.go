package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/logger"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"
	"go-inventory-api/pkg/database"

	"go.uber.org/zap"
)

// Resets a user's password and revokes their sessions.
//
//	go run ./cmd/reset-password -email admin@example.com -password admin123
func main() {
	email := flag.String("email", "", "email of the user to reset")
	password := flag.String("password", "", "new password (min 6 characters)")
	envFile := flag.String("env", "", "optional .env file")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	// 1. Load Config
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	zl := logger.Must(logger.New(logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"}))
	defer zl.Sync() //nolint:errcheck

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, "silent", zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	// 3. Reset
	users := service.NewUserService(repository.NewUserRepo(db), zl)
	user, err := users.ResetPassword(context.Background(), *email, *password)
	if err != nil {
		zl.Fatal("failed to reset password", zap.String("email", *email), zap.Error(err))
	}

	zl.Info("password reset, existing sessions revoked", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
}
