package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"frontier.dev/internal/config"
	"frontier.dev/internal/data"
	"frontier.dev/internal/generation"
	"frontier.dev/internal/persistence"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration")
	seed := flag.Uint64("seed", 0, "world seed, random when 0")
	slot := flag.String("slot", "", "save slot to write the world to")
	verbose := flag.Bool("v", false, "log every stage")
	flag.Parse()

	if *slot == "" {
		fmt.Println("Usage: generate -slot <name> [-seed <n>] [-config <file>] [-v]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	catalog := data.Default()
	if cfg.Data.CatalogPath != "" {
		if catalog, err = data.Load(cfg.Data.CatalogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
			os.Exit(1)
		}
	}

	if *seed == 0 {
		*seed = rand.Uint64()
	}

	opts := []generation.Option{generation.WithCatalog(catalog)}
	if *verbose {
		opts = append(opts, generation.WithLogger(log.New(os.Stdout, "", log.LstdFlags)))
	}

	fmt.Printf("Generating world with seed %d...\n", *seed)
	generator := generation.NewWorldGenerator(cfg.GenerationSettings(), *seed, opts...)
	ctx := context.Background()
	state, err := generator.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ERROR: %v\n", err)
		os.Exit(1)
	}
	for _, timing := range generator.Timings() {
		fmt.Printf("  %-20s %8.3fs\n", timing.Stage, timing.Elapsed.Seconds())
	}

	store, err := persistence.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.DSN, log.New(os.Stdout, "", log.LstdFlags))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize persistence: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Save(ctx, *slot, state); err != nil {
		fmt.Fprintf(os.Stderr, "  ERROR saving: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  Saved to slot %s (%d towns, %d localities, %d actors)\n", *slot, len(state.Towns), len(state.Localities), len(state.Actors))
	fmt.Println("Done!")
}
