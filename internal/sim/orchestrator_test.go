package sim

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/jwebster45206/ficworld/internal/services"
	"github.com/jwebster45206/ficworld/pkg/memory"
	"github.com/jwebster45206/ficworld/pkg/relationship"
)

func newTestOrchestrator(llm services.LLMService, maxScenes int) (*Orchestrator, *memory.Store) {
	params := DefaultParams()
	params.MaxSceneTurns = 4
	params.EventOverrideChance = 0

	roles := testRoles()
	rels := relationship.NewGraph()
	worldAgent := NewWorldAgent(testDefinition(), roles, llm, rels, params, testLogger(), rand.New(rand.NewSource(7)))

	agents := make([]CharacterAgent, 0, len(roles))
	for _, role := range roles {
		agents = append(agents, NewLLMCharacterAgent(role, llm, testLogger()))
	}

	memories := memory.NewStore()
	orch := NewOrchestrator(
		worldAgent,
		agents,
		NewPerspectiveFilter(llm, testLogger()),
		memories,
		rels,
		NewNarrator(llm, testLogger()),
		maxScenes,
		"",
		testLogger(),
	)
	return orch, memories
}

// A run must complete on fallbacks alone when the generation service
// is entirely unavailable.
func TestRunSurvivesServiceOutage(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.SetTextError(errors.New("service down"))
	mock.SetJSONError(errors.New("service down"))

	orch, memories := newTestOrchestrator(mock, 2)
	results, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(results))
	}

	for _, result := range results {
		if len(result.Log) == 0 {
			t.Errorf("scene %d produced no log entries", result.Scene)
		}
		if result.Prose == "" {
			t.Errorf("scene %d produced no prose", result.Scene)
		}
		if result.Summary == "" {
			t.Errorf("scene %d produced no summary", result.Scene)
		}
		if result.POV != "Knight" && result.POV != "Scholar" {
			t.Errorf("scene %d has unexpected POV %q", result.Scene, result.POV)
		}
		for _, entry := range result.Log {
			if entry.Actor == "" {
				t.Error("log entry missing actor")
			}
			if entry.Outcome == "" {
				t.Error("log entry missing outcome")
			}
		}
	}

	// Observers at the actor's location remember each outcome.
	if got := memories.Retrieve("Knight", 50); len(got) == 0 {
		t.Error("expected Knight to have memories after the run")
	}
}

func TestRunScriptedResponses(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.CompleteTextFunc = func(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
		switch systemPrompt {
		case SceneEndSystemPrompt:
			return "yes", nil
		case NextActorSystemPrompt:
			return "Knight", nil
		case POVSystemPrompt:
			return "Scholar", nil
		case InjectEventSystemPrompt:
			return "no", nil
		case narratorSystemPrompt:
			return "The scene unfolded quietly.", nil
		}
		return "Knight raises his visor and speaks.", nil
	}

	orch, _ := newTestOrchestrator(mock, 1)
	results, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(results))
	}

	result := results[0]
	if result.POV != "Scholar" {
		t.Errorf("expected scripted POV choice, got %q", result.POV)
	}
	if result.Prose != "The scene unfolded quietly." {
		t.Errorf("expected narrated prose, got %q", result.Prose)
	}
	// Minimum scene length is three entries before the end judgment
	// can fire, and events were declined.
	if len(result.Log) < 3 {
		t.Errorf("expected at least 3 log entries, got %d", len(result.Log))
	}
	for _, entry := range result.Log {
		if entry.Actor != "Knight" {
			t.Errorf("expected scripted actor choice, got %q", entry.Actor)
		}
	}
}

func TestRunHonorsCancellationBetweenTurns(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.SetTextError(errors.New("service down"))
	mock.SetJSONError(errors.New("service down"))

	orch, _ := newTestOrchestrator(mock, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := orch.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one scene before stopping, got %d", len(results))
	}
	if len(results[0].Log) != 0 {
		t.Errorf("expected no turns after cancellation, got %d entries", len(results[0].Log))
	}
}
