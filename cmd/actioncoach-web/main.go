package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/piljoong/actioncoach/internal/coach"
	"github.com/piljoong/actioncoach/internal/config"
	"github.com/piljoong/actioncoach/internal/llm"
	"github.com/piljoong/actioncoach/internal/server"
	"github.com/piljoong/actioncoach/internal/storage"
	"github.com/piljoong/actioncoach/internal/storage/postgres"
	"github.com/piljoong/actioncoach/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadConfigFile(*configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	var store storage.SituationStore
	switch cfg.Storage.Engine {
	case "postgres":
		store, err = postgres.NewSituationStore(cfg.Storage.PostgresDSN, cfg.Storage.EmbeddingDim)
	default:
		if mkErr := os.MkdirAll(cfg.Storage.DataPath, 0o755); mkErr != nil {
			log.Fatalf("Failed to create data directory: %v", mkErr)
		}
		store, err = sqlite.NewSituationStore(cfg.Storage.DataPath+"/actioncoach.db", cfg.Storage.EmbeddingDim)
	}
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	generator, err := llm.NewTextGenerator(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize text generator: %v", err)
	}
	if !cfg.GenerationKeyConfigured() {
		log.Printf("Warning: no API key configured for provider %q", cfg.LLM.Provider)
	}

	embedder, err := llm.NewEmbeddingGenerator(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize embedding generator: %v", err)
	}
	if embedder == nil {
		log.Printf("Embeddings disabled: similarity retrieval and persistence are off")
	}

	service := coach.NewService(generator, embedder, store, storage.SimilarityOptions{
		Limit:    cfg.Search.Limit,
		MinScore: cfg.Search.MinScore,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := server.Start(ctx, cfg, service, store)
	log.Printf("actioncoach API running at http://%s (provider %s, storage %s)",
		addr, cfg.LLM.Provider, cfg.Storage.Engine)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // give in-flight connections time to close
}
