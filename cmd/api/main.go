package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/handler"
	"go-inventory-api/internal/idempotency"
	"go-inventory-api/internal/logger"
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/router"
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/database"
	"go-inventory-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Setup Logger
	zl, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	db, err := database.Connect(cfg.Database, cfg.Log.Level, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zl.Warn("failed to close database", zap.Error(err))
		}
	}()

	// Schema is owned by cmd/migrate in production
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			zl.Fatal("failed to auto-migrate schema", zap.Error(err))
		}
	}

	// 4. Setup WebSocket Hub
	hub := ws.NewHub(zl)
	go hub.Run(ctx)

	// 5. Idempotency store for POST /api/sales/sell
	store := idempotency.NewStore(ctx, idempotency.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, zl)
	defer store.Close()

	// 6. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	profitRepo := repository.NewProfitRecordRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	userRepo := repository.NewUserRepo(db)

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer)

	productService := service.NewProductService(productRepo, supplierRepo, hub, zl)
	supplierService := service.NewSupplierService(db, supplierRepo, productRepo, zl)
	orderService := service.NewOrderService(db, orderRepo, productRepo, userRepo, hub, zl)
	saleService := service.NewSaleService(db, productRepo, saleRepo, profitRepo, hub, zl)
	userService := service.NewUserService(userRepo, zl)
	authService := service.NewAuthService(userRepo, tokens, zl)
	dashService := service.NewDashboardService(productRepo, saleRepo)

	handlers := router.Handlers{
		Product:   handler.NewProductHandler(productService),
		Supplier:  handler.NewSupplierHandler(supplierService),
		Order:     handler.NewOrderHandler(orderService),
		Sale:      handler.NewSaleHandler(saleService, store, cfg.Idempotency.TTL, zl),
		User:      handler.NewUserHandler(userService),
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(dashService),
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ErrorHandler: handler.ErrorHandler(zl),
	})

	// Middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(zl))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSAllowOrigins}))

	// 8. Routes
	var auth fiber.Handler
	if cfg.JWT.AuthEnabled {
		auth = middleware.RequireAuth(authService)
	} else {
		zl.Warn("authentication disabled, every /api route is public")
	}
	router.Setup(app, handlers, auth, hub)

	// 9. Graceful Shutdown
	go func() {
		zl.Info("server starting", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			zl.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	zl.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	zl.Info("server exited")
}
