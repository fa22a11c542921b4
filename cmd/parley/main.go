package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/parley-dev/parley/internal/router"
	"github.com/parley-dev/parley/internal/setup"
	"github.com/parley-dev/parley/shared/config"
	"github.com/parley-dev/parley/shared/logger"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 15 * time.Second
)

func main() {
	// A missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	applyEnvOverrides(cfg)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	server := &http.Server{
		Addr:         cfg.Public.Listen,
		Handler:      router.New(deps),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logger.Log.Info("starting parley", "listen", cfg.Public.Listen, "backend", cfg.Public.BackendURL)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("PARLEY_LISTEN"); v != "" {
		cfg.Public.Listen = v
	}
	if v := os.Getenv("PARLEY_BACKEND_URL"); v != "" {
		cfg.Public.BackendURL = v
	}
	if v := os.Getenv("PARLEY_STATE_FILE"); v != "" {
		cfg.Public.StateFile = v
	}
}
