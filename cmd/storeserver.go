package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/billed-app/bill-service/internal"
	"github.com/billed-app/bill-service/internal/storeserver"
	"github.com/billed-app/bill-service/internal/transport/middleware"
	"github.com/billed-app/bill-service/pkg/logger"
)

var storeServerCmd = &cobra.Command{
	Use:   "storeserver",
	Short: "Start the development bill store",
	Long:  `Start the bundled remote store implementation backed by a local database and filesystem receipt storage.`,
	Run: func(cmd *cobra.Command, args []string) {
		startStoreServer()
	},
}

func startStoreServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Logging.Format == "json" {
		logger.Init("production")
	} else {
		logger.Init("development")
	}
	lg := logger.L()

	db, err := initStoreDB(cfg.StoreServer)
	if err != nil {
		lg.Error("failed to initialize store database", "error", err)
		os.Exit(1)
	}

	storage, err := storeserver.NewLocalStorage(cfg.StoreServer.StorageDir)
	if err != nil {
		lg.Error("failed to initialize receipt storage", "error", err)
		os.Exit(1)
	}

	handler := storeserver.NewHandler(db, storage, cfg.StoreServer.PublicURL)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.LoggingMiddleware(lg))
	router.Use(middleware.RecoveryMiddleware(lg))
	handler.Routes(router)

	addr := fmt.Sprintf(":%d", cfg.StoreServer.Port)
	lg.Info("Starting store server", "address", addr, "driver", cfg.StoreServer.Driver)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Store server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("Store server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("Store server stopped")
}

// initStoreDB opens the store database. Postgres goes through a pgx/sqlx
// connection managed for pooling; sqlite is the zero-setup development path
// and gets its schema auto-migrated.
func initStoreDB(cfg internal.StoreServerConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		conn, err := sqlx.Connect("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open db connection: %w", err)
		}
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxIdleConns)

		if err := conn.Ping(); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: conn.DB}), &gorm.Config{})

	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.AutoMigrate(&storeserver.BillRecord{}); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
