package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendees-extractor/internal/config"
	"attendees-extractor/internal/events"
	"attendees-extractor/internal/http"
	"attendees-extractor/internal/processor"
	"attendees-extractor/internal/storage"
	"attendees-extractor/internal/vault"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API extracts the names listed under a heading of markdown notes and
// stores them as a list property in each note's metadata block.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Attendees Extractor API
//   description: |
//     Extracts attendee names from a section of markdown notes in an Obsidian vault
//     and writes them to the note's frontmatter.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	vaultRepo := storage.NewVaultRepo(db)
	settingsRepo := storage.NewSettingsRepo(db)
	runRepo := storage.NewRunRepo(db)

	ctx := context.Background()

	// Initialize vault manager
	vaultManager, err := vault.NewManager(ctx, vaultRepo, cfg.VaultName, cfg.VaultPath)
	if err != nil {
		log.Fatalf("Failed to initialize vault manager: %v", err)
	}
	slog.Info("Vault manager initialized", "name", cfg.VaultName, "path", vaultManager.Vault().RootPath)

	// Environment values only seed the settings; saved settings win
	current, err := storage.LoadOrSeed(ctx, settingsRepo, cfg.Seed())
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	slog.Info("Settings loaded",
		"heading", current.Heading,
		"property", current.Property,
		"directories", current.Directories,
		"enable_on_save", current.EnableOnSave,
	)

	// Create processing pipeline, save hook and bulk runner
	pipeline := processor.NewPipeline(vaultManager, settingsRepo)
	bus := events.NewBus()
	saveHook := processor.NewSaveHook(bus, pipeline)
	saveHook.Apply(current.EnableOnSave)
	runner := processor.NewRunner(pipeline, runRepo)

	// Create router with dependencies
	deps := &http.Deps{
		DB:           db,
		VaultRoot:    vaultManager.Vault().RootPath,
		Pipeline:     pipeline,
		Runner:       runner,
		SaveHook:     saveHook,
		Bus:          bus,
		SettingsRepo: settingsRepo,
		RunRepo:      runRepo,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting API server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	// A run cut short here is recorded as failed.
	runner.Stop()
	saveHook.Apply(false)
}
