package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gisele-123/reside/canister"
	"github.com/Gisele-123/reside/cliparse"
	"github.com/Gisele-123/reside/db"
	"github.com/Gisele-123/reside/middleware"
	"github.com/Gisele-123/reside/router"
	"github.com/Gisele-123/reside/seed"
)

func main() {
	var err error

	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	ctx := context.Background()

	opts, err := cfg.ElectionOptions()
	if err != nil {
		slog.Error("invalid election settings", "error", err)
		os.Exit(1)
	}

	// Load election state
	c, err := canister.New(ctx, db.NewStore(dbConn), opts)
	if err != nil {
		slog.Error("loading residence failed", "error", err)
		os.Exit(1)
	}

	if cfg.SeedFile != "" {
		f, err := seed.Load(cfg.SeedFile)
		if err != nil {
			slog.Error("reading seed file failed", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		if err := seed.Apply(ctx, c, f); err != nil {
			slog.Error("applying seed failed", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
	}

	// Create router
	mux := router.NewRouter(c, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "phase", c.Phase())
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
