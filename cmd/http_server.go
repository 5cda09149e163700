package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/billed-app/bill-service/internal"
	"github.com/billed-app/bill-service/internal/auth"
	"github.com/billed-app/bill-service/internal/bill"
	"github.com/billed-app/bill-service/internal/category"
	"github.com/billed-app/bill-service/internal/storeclient"
	"github.com/billed-app/bill-service/internal/transport/rest"
	"github.com/billed-app/bill-service/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config      *internal.Config
	StoreClient *storeclient.Client
	Router      *chi.Mux
	Logger      *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger

	manager := bill.NewManager(deps.StoreClient, lg)
	billService := bill.NewService(deps.StoreClient, lg)
	billHandler := bill.NewHandler(manager, billService)

	tokens := auth.NewJWTTokenGenerator(deps.Config.Security.JWTSecret, deps.Config.Security.AccessTokenDuration)
	directory := auth.StaticDirectory(deps.Config.Security.EmployeeHashes())
	authService := auth.NewService(directory, tokens, lg)
	authHandler := auth.NewHandler(authService)

	categoryHandler := category.NewHandler(category.NewService(lg))

	rest.RegisterAllRoutes(deps.Router, deps.StoreClient, authHandler, billHandler, categoryHandler, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Logging.Format == "json" {
		logger.Init("production")
	} else {
		logger.Init("development")
	}

	storeClient := storeclient.NewClient(storeclient.Config{
		BaseURL:        config.Store.BaseURL,
		RequestTimeout: config.Store.RequestTimeout,
	}, logger.L())

	return &Dependencies{
		Config:      config,
		Logger:      logger.L(),
		StoreClient: storeClient,
		Router:      chi.NewRouter(),
	}, nil
}
