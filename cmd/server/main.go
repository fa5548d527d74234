package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"frontier.dev/internal/config"
	"frontier.dev/internal/data"
	"frontier.dev/internal/handlers"
	"frontier.dev/internal/persistence"
	"frontier.dev/internal/services"
)

func main() {
	configPath := flag.String("config", os.Getenv("FRONTIER_CONFIG"), "path to the YAML configuration")
	seed := flag.Uint64("seed", 0, "generate a world with this seed at startup")
	slot := flag.String("load", "", "load this save slot at startup")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	catalog := data.Default()
	if cfg.Data.CatalogPath != "" {
		if catalog, err = data.Load(cfg.Data.CatalogPath); err != nil {
			logger.Fatalf("[DATA] Failed to load catalog: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := persistence.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.DSN, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer store.Close()
	logger.Printf("Using %s persistence", cfg.Storage.Driver)

	world := services.NewWorldService(services.Options{
		Generation: cfg.GenerationSettings(),
		Simulation: cfg.SimulationSettings(),
		Catalog:    catalog,
		Store:      store,
		Logger:     logger,
	})
	defer world.Close()

	switch {
	case *slot != "":
		if err := world.LoadSave(ctx, *slot); err != nil {
			logger.Fatalf("[SAVE] Failed to load slot %s: %v", *slot, err)
		}
	case *seed != 0:
		if err := world.StartGeneration(*seed); err != nil {
			logger.Fatalf("[GEN] %v", err)
		}
	}

	go world.Run(ctx, cfg.TickInterval())

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.SetupRoutes(world, logger),
	}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	logger.Printf("[HTTP] Server starting on %s", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("[HTTP] %v", err)
	}
}
