package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redmonkez12/storefront-api/internal/auth"
	"github.com/redmonkez12/storefront-api/internal/config"
	"github.com/redmonkez12/storefront-api/internal/database"
	httpServer "github.com/redmonkez12/storefront-api/internal/http"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/shop"
	"github.com/redmonkez12/storefront-api/internal/token"
	"github.com/redmonkez12/storefront-api/internal/user"
)

// @title           Storefront API
// @version         2.0
// @description     Customer and seller accounts with cookie or bearer token authentication.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	defer logger.Sync()

	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_format", cfg.Auth.TokenFormat,
		"database", database.DetectDialect(cfg.Database.URL),
	)

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	userRepo := user.NewRepository(db)
	shopRepo := shop.NewRepository(db)
	if err := userRepo.CreateTables(ctx); err != nil {
		return err
	}
	if err := shopRepo.CreateTables(ctx); err != nil {
		return err
	}

	codec, err := token.New(cfg.Auth.TokenFormat, cfg.Auth.Secret(), cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	cookies := auth.CookieConfig{Secure: cfg.Auth.CookieSecure, TTL: codec.TTL()}
	userService := user.NewService(userRepo, codec, logger)
	shopService := shop.NewService(shopRepo, codec, logger)

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Users:         auth.NewHandler(userService, cookies, logger),
		Sellers:       auth.NewSellerHandler(shopService, cookies, logger),
		Authenticator: auth.NewAuthenticator(codec, userRepo, shopRepo, logger),
	}, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
