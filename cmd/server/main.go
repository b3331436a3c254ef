package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/catalog"
	"github.com/Lixing-Zhang/foodgram/backend/internal/config"
	"github.com/Lixing-Zhang/foodgram/backend/internal/handlers"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/server"
	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
	"github.com/Lixing-Zhang/foodgram/backend/pkg/logger"
)

const version = "1.0.0"

func main() {
	// Load configuration from defaults, config file and environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting foodgram api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"token_store", cfg.Auth.TokenStore,
	)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	// Initialize repositories
	store := repository.NewInMemoryStore()

	if err := seedCatalog(ctx, cfg, store, log); err != nil {
		return err
	}

	// Initialize token store
	tokens, err := openTokenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := tokens.Close(); err != nil {
			log.Error("failed to close token store", "error", err)
		}
	}()

	// Initialize services
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	authService := service.NewAuthService(store, tokens, hasher)
	userService := service.NewUserService(store, hasher)
	recipeService := service.NewRecipeService(store, log)
	catalogService := service.NewCatalogService(store, store)

	// Initialize handlers
	paginator := handlers.Paginator{DefaultSize: cfg.API.PageSize, MaxSize: cfg.API.MaxPageSize}
	router := server.NewRouter(server.Handlers{
		Health:  handlers.NewHealthHandler(version, log),
		Auth:    handlers.NewAuthHandler(authService, log),
		Users:   handlers.NewUserHandler(userService, paginator, log),
		Recipes: handlers.NewRecipeHandler(recipeService, paginator, cfg.API.ShoppingListFilename, log),
		Catalog: handlers.NewCatalogHandler(catalogService, log),
	}, authService, server.Options{
		CORSOrigins:     cfg.Server.CORSOrigins,
		LoginRateLimit:  cfg.Auth.LoginRateLimit,
		LoginRateWindow: cfg.Auth.LoginRateWindow,
	}, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func seedCatalog(ctx context.Context, cfg *config.Config, store repository.Store, log *slog.Logger) error {
	if cfg.Catalog.SeedTags {
		n, err := catalog.SeedTags(ctx, store, catalog.DefaultTags)
		if err != nil {
			return fmt.Errorf("failed to seed tags: %w", err)
		}
		log.Info("tags seeded", "created", n)
	}

	if len(cfg.Catalog.IngredientSources) == 0 {
		log.Warn("no ingredient sources configured, ingredient catalog is empty")
		return nil
	}

	log.Info("loading ingredient data...", "sources", len(cfg.Catalog.IngredientSources))
	n, err := catalog.SeedIngredients(ctx, catalog.NewLoader(), store, cfg.Catalog.IngredientSources)
	if err != nil {
		return fmt.Errorf("failed to load ingredient data: %w", err)
	}
	log.Info("ingredient data loaded successfully", "created", n)
	return nil
}

func openTokenStore(cfg *config.Config) (auth.TokenStore, error) {
	if cfg.Auth.TokenStore == "badger" {
		store, err := auth.OpenBadgerTokenStore(cfg.Auth.TokenStorePath, cfg.Auth.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to open token store: %w", err)
		}
		return store, nil
	}
	return auth.NewMemoryTokenStore(cfg.Auth.TokenTTL), nil
}
