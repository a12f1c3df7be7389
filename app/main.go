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

	"github.com/luaviz/amanhecer/app/api"
	"github.com/luaviz/amanhecer/app/cfg"
	"github.com/luaviz/amanhecer/app/gemini"
	"github.com/luaviz/amanhecer/app/message"
	"github.com/luaviz/amanhecer/app/sheet"
	"github.com/luaviz/amanhecer/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Amanhecer server...", "version", appConfig.Version)

	sourceConfig, err := message.LoadSourceConfig(appConfig.SiteProfile)
	if err != nil {
		slog.Error("Failed to load site profile", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout: time.Duration(appConfig.FetchTimeout) * time.Second,
	}

	// Core components
	sheetClient := sheet.NewClient(httpClient)
	generator := gemini.NewGenerator(context.Background(), sourceConfig)
	service := message.NewService(sheetClient, generator, sourceConfig)

	// Background workers: submission relay and sheet probing
	scheduler := tasks.NewScheduler(service, httpClient)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	handler := api.NewHandler(service, scheduler, httpClient)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		slog.Info("Endpoints available",
			"daily", fmt.Sprintf("http://localhost:%s/daily", appConfig.Port),
			"archive", fmt.Sprintf("http://localhost:%s/archive", appConfig.Port),
			"rss", fmt.Sprintf("http://localhost:%s/feed.xml", appConfig.Port),
			"health", fmt.Sprintf("http://localhost:%s/health", appConfig.Port))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Amanhecer server started successfully")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Amanhecer server shutdown complete")
}
