package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/ficworld/internal/config"
	"github.com/jwebster45206/ficworld/internal/logger"
	"github.com/jwebster45206/ficworld/internal/services"
	"github.com/jwebster45206/ficworld/internal/sim"
	"github.com/jwebster45206/ficworld/internal/storage"
	"github.com/jwebster45206/ficworld/pkg/memory"
	"github.com/jwebster45206/ficworld/pkg/relationship"
)

func main() {
	presetName := flag.String("preset", "", "preset name under <data>/presets")
	outputDir := flag.String("output", "./output", "directory for the story and transcript")
	seed := flag.Int64("seed", 0, "random seed (0 uses the clock)")
	flag.Parse()

	if *presetName == "" {
		fmt.Fprintln(os.Stderr, "usage: ficworld -preset <name> [-output <dir>] [-seed <n>]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg)
	log.Info("Starting FicWorld", "preset", *presetName, "environment", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *presetName, *outputDir, *seed); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Run interrupted, partial story written")
			return
		}
		log.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, presetName, outputDir string, seed int64) error {
	preset, err := config.LoadPreset(cfg.DataDir, presetName)
	if err != nil {
		return err
	}
	def, err := config.LoadWorld(cfg.DataDir, preset.World)
	if err != nil {
		return err
	}
	roles, err := config.LoadRoles(cfg.DataDir, preset.Roles)
	if err != nil {
		return err
	}

	if preset.LLM != "" {
		cfg.ModelName = preset.LLM
	}
	llm, err := newLLMService(cfg, log)
	if err != nil {
		return err
	}

	var store storage.Storage
	if cfg.RedisURL != "" {
		redisStore := storage.NewRedisStorage(cfg.RedisURL, log)
		if err := redisStore.WaitForConnection(ctx); err != nil {
			return err
		}
		defer redisStore.Close()
		store = redisStore
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	params := sim.DefaultParams()
	if preset.Params != nil {
		params = *preset.Params
	}

	rels := relationship.NewGraph()
	worldAgent := sim.NewWorldAgent(def, roles, llm, rels, params, log, rng)
	if preset.Mode == "script" {
		worldAgent.EnableScriptMode()
	}

	agents := make([]sim.CharacterAgent, 0, len(roles))
	for _, role := range roles {
		agents = append(agents, sim.NewLLMCharacterAgent(role, llm, log))
	}

	memories := memory.NewStore()
	perspective := sim.NewPerspectiveFilter(llm, log)
	narrator := sim.NewNarrator(llm, log)

	orch := sim.NewOrchestrator(worldAgent, agents, perspective, memories, rels, narrator, preset.MaxScenes, preset.StyleHint, log)

	runLog := logger.WithRun(log, worldAgent.State().RunID.String())
	runLog.Info("Simulation starting", "world", def.Name, "characters", len(roles), "scenes", preset.MaxScenes, "seed", seed)

	results, runErr := orch.Run(ctx)

	if store != nil {
		persist(ctx, store, worldAgent, presetName, results, runLog)
	}
	if err := writeOutput(outputDir, def.Name, worldAgent.State().RunID, results); err != nil {
		return err
	}
	runLog.Info("Story written", "scenes", len(results), "output", outputDir)

	return runErr
}

func newLLMService(cfg *config.Config, log *slog.Logger) (services.LLMService, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "venice":
		return services.NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName), nil
	case "ollama":
		return services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.LLMProvider)
	}
}

// persist saves whatever completed, even on a cancelled run. Storage
// failures are logged, not fatal; the filesystem output still happens.
func persist(ctx context.Context, store storage.Storage, worldAgent *sim.WorldAgent, presetName string, results []sim.SceneResult, log *slog.Logger) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	ws := worldAgent.State()

	if err := store.SaveRun(ctx, &storage.Run{
		ID:        ws.RunID,
		Preset:    presetName,
		CreatedAt: time.Now().UTC(),
		State:     ws,
	}); err != nil {
		log.Error("Failed to persist run", "error", err)
	}

	for _, result := range results {
		if err := store.AppendTranscript(ctx, ws.RunID, result.Log); err != nil {
			log.Error("Failed to persist transcript", "scene", result.Scene, "error", err)
		}
		if err := store.SaveSceneProse(ctx, ws.RunID, result); err != nil {
			log.Error("Failed to persist prose", "scene", result.Scene, "error", err)
		}
	}
}

func writeOutput(outputDir, worldName string, runID uuid.UUID, results []sim.SceneResult) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	var story strings.Builder
	fmt.Fprintf(&story, "# %s\n\n", worldName)
	for _, result := range results {
		fmt.Fprintf(&story, "## Scene %d\n\n%s\n\n", result.Scene, result.Prose)
	}
	storyPath := filepath.Join(outputDir, fmt.Sprintf("story_%s.md", runID))
	if err := os.WriteFile(storyPath, []byte(story.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write story: %w", err)
	}

	transcript, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	transcriptPath := filepath.Join(outputDir, fmt.Sprintf("transcript_%s.json", runID))
	if err := os.WriteFile(transcriptPath, transcript, 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
