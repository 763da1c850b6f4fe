package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/shelterline/shelter-engine/internal/config"
	"github.com/shelterline/shelter-engine/internal/handlers"
	"github.com/shelterline/shelter-engine/internal/logger"
	"github.com/shelterline/shelter-engine/internal/middleware"
	"github.com/shelterline/shelter-engine/internal/services"
	"github.com/shelterline/shelter-engine/internal/services/events"
	"github.com/shelterline/shelter-engine/internal/storage"
	"github.com/shelterline/shelter-engine/pkg/daycycle"
	"github.com/shelterline/shelter-engine/pkg/event"
	"github.com/shelterline/shelter-engine/pkg/prompts"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

// defaultFamily seeds a fresh run when the store holds no survivors.
var defaultFamily = []string{"Mother", "Father", "Daughter", "Son"}

// defaultStockpiles are the starting shared pool levels for a fresh run.
var defaultStockpiles = map[string]int{
	event.ResourceFood:     10,
	event.ResourceWater:    10,
	event.ResourceSupplies: 5,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Shelter Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var generation services.GenerationService
	switch strings.ToLower(cfg.LLMProvider) {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		generation = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic LLM provider")
	case "venice":
		if cfg.VeniceAPIKey == "" {
			log.Error("Venice API key is required when using venice provider")
			os.Exit(1)
		}
		generation = services.NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName)
		log.Info("Using Venice LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"anthropic", "venice"})
		os.Exit(1)
	}

	store := storage.NewRedisStore(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := generation.InitModel(ctx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	if err := seedRun(ctx, store); err != nil {
		log.Error("Failed to seed run state", "error", err)
		os.Exit(1)
	}

	challenges, err := storage.LoadChallenges(cfg.DataDir)
	if err != nil {
		log.Error("Failed to load challenges", "error", err, "data_dir", cfg.DataDir)
		os.Exit(1)
	}
	if challenges != nil {
		log.Info("Loaded challenge set from data directory", "count", len(challenges))
	}

	tuning, err := config.LoadTuning(cfg.DataDir, cfg.Tuning)
	if err != nil {
		log.Error("Failed to load tuning file", "error", err, "data_dir", cfg.DataDir)
		os.Exit(1)
	}

	runID := uuid.New()
	broadcaster := events.NewBroadcaster(store.GetClient(), runID, log)
	log.Info("Run starting", "run_id", runID)

	interpreter := event.NewInterpreter(store, store, tuning.Magnitudes, log)
	p := tuning.PacingThresholds
	composer := prompts.NewComposer().WithPacingThresholds(p[0], p[1], p[2], p[3])
	orchestrator := daycycle.New(
		daycycle.Config{
			DilemmaChance:        tuning.DilemmaChance,
			FamilyRequestChance:  tuning.FamilyRequestChance,
			NeedySanityThreshold: tuning.NeedySanityThreshold,
			TotalDays:            tuning.TotalDays,
			RequestTimeout:       tuning.RequestTimeout,
		},
		generation,
		composer,
		interpreter,
		store,
		store,
		store,
		broadcaster,
		daycycle.NewChallengePool(challenges),
		log,
		nil,
	)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	dayHandler := handlers.NewDayHandler(orchestrator, log)
	mux.Handle("/v1/day", dayHandler)
	mux.Handle("/v1/day/", dayHandler)

	familyHandler := handlers.NewFamilyHandler(store, store, log)
	mux.Handle("/v1/family", familyHandler)

	historyHandler := handlers.NewHistoryHandler(store, log)
	mux.Handle("/v1/history", historyHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}

// seedRun populates the store with the starting family and stockpiles
// when no run is in progress. An existing run is left untouched.
func seedRun(ctx context.Context, store *storage.RedisStore) error {
	alive, err := store.AllAlive(ctx)
	if err != nil {
		return err
	}
	if len(alive) > 0 {
		return nil
	}

	for _, name := range defaultFamily {
		if err := store.Save(ctx, survivor.New(name)); err != nil {
			return err
		}
	}
	for name, level := range defaultStockpiles {
		if err := store.SetLevel(ctx, name, level); err != nil {
			return err
		}
	}
	return nil
}
