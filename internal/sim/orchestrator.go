package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/ficworld/pkg/memory"
	"github.com/jwebster45206/ficworld/pkg/relationship"
	"github.com/jwebster45206/ficworld/pkg/world"
)

// SceneResult is one finished scene of a run.
type SceneResult struct {
	Scene   int              `json:"scene"`
	Log     []world.LogEntry `json:"log"`
	Summary string           `json:"summary"`
	POV     string           `json:"pov"`
	Prose   string           `json:"prose"`
}

// Orchestrator runs the simulation loop: scenes of turns, each turn a
// perceive-reflect-plan-resolve cycle for one character. All moving
// parts are injected so tests can substitute deterministic pieces.
type Orchestrator struct {
	worldAgent  *WorldAgent
	agents      map[string]CharacterAgent
	perspective *PerspectiveFilter
	memories    *memory.Store
	rels        *relationship.Graph
	narrator    *Narrator
	logger      *slog.Logger

	maxScenes int
	styleHint string
}

func NewOrchestrator(
	worldAgent *WorldAgent,
	agents []CharacterAgent,
	perspective *PerspectiveFilter,
	memories *memory.Store,
	rels *relationship.Graph,
	narrator *Narrator,
	maxScenes int,
	styleHint string,
	logger *slog.Logger,
) *Orchestrator {
	byName := make(map[string]CharacterAgent, len(agents))
	for _, agent := range agents {
		byName[agent.Name()] = agent
	}
	return &Orchestrator{
		worldAgent:  worldAgent,
		agents:      byName,
		perspective: perspective,
		memories:    memories,
		rels:        rels,
		narrator:    narrator,
		maxScenes:   maxScenes,
		styleHint:   styleHint,
		logger:      logger,
	}
}

// Run executes the full simulation and returns one result per
// completed scene. Cancellation is honored between turns only; a turn
// in flight always completes so no partial state changes are left
// behind.
func (o *Orchestrator) Run(ctx context.Context) ([]SceneResult, error) {
	var results []SceneResult
	for scene := 1; scene <= o.maxScenes; scene++ {
		result, err := o.runScene(ctx, scene)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if ctx.Err() != nil {
			o.logger.Info("Run cancelled after scene", "scene", scene)
			return results, ctx.Err()
		}
	}
	return results, nil
}

func (o *Orchestrator) runScene(ctx context.Context, scene int) (SceneResult, error) {
	o.worldAgent.InitScene(scene)
	var sceneLog []world.LogEntry

	for {
		if ctx.Err() != nil {
			break
		}
		if o.worldAgent.JudgeSceneEnd(ctx, sceneLog) {
			break
		}
		entries, err := o.runTurn(ctx)
		if err != nil {
			return SceneResult{}, fmt.Errorf("scene %d turn %d: %w", scene, o.worldAgent.State().TurnNumber, err)
		}
		sceneLog = append(sceneLog, entries...)
	}

	summary, ok := o.memories.SummariseScene(scene, sceneLog)
	if !ok {
		o.logger.Debug("Scene produced no log, skipping summary", "scene", scene)
	}

	povName, povInfo := o.worldAgent.ChoosePOVCharacter(ctx)
	prose := o.narrator.Render(ctx, sceneLog, povName, povInfo, o.styleHint)

	o.logger.Info("Scene complete", "scene", scene, "turns", o.worldAgent.State().TurnNumber, "pov", povName)
	return SceneResult{
		Scene:   scene,
		Log:     sceneLog,
		Summary: summary,
		POV:     povName,
		Prose:   prose,
	}, nil
}

// runTurn executes one full turn and returns the log entries it
// produced: the actor's resolved action, plus a world event when one
// is injected.
func (o *Orchestrator) runTurn(ctx context.Context) ([]world.LogEntry, error) {
	actor, actorState, err := o.worldAgent.ChooseNextActor(ctx)
	if err != nil {
		return nil, err
	}
	agent, ok := o.agents[actor]
	if !ok {
		return nil, fmt.Errorf("%w: no agent for %s", ErrUnknownCharacter, actor)
	}

	ws := o.worldAgent.State()
	view := o.perspective.ViewFor(ctx, actor, ws)
	memories := formatMemories(o.memories.Retrieve(actor, 5))
	relCtx := o.rels.SummaryFor(actor, 5)
	summaries := o.memories.RecentSceneSummaries(3)

	reflection := agent.Reflect(ctx, view, memories, relCtx)
	if err := o.worldAgent.UpdateCharacterMood(actor, reflection.UpdatedMood); err != nil {
		return nil, err
	}

	plan := agent.Plan(ctx, view, reflection, memories, relCtx, summaries)
	outcome, err := o.worldAgent.ApplyPlan(ctx, actor, plan)
	if err != nil {
		return nil, err
	}
	o.worldAgent.UpdateFromOutcome(ctx, outcome)

	entries := []world.LogEntry{{
		Actor:     actor,
		Plan:      plan,
		Outcome:   outcome,
		Mood:      actorState.Mood,
		Timestamp: time.Now().UTC(),
	}}

	o.distribute(ctx, outcome, actor, plan.TargetCharacter())

	if o.worldAgent.ShouldInjectEvent(ctx) {
		event := o.worldAgent.GenerateEvent(ctx)
		ws.AppendEvent(event, o.worldAgent.params.RecentEventsLimit)
		entries = append(entries, world.LogEntry{
			Actor:        "World",
			Outcome:      event,
			Timestamp:    time.Now().UTC(),
			IsWorldEvent: true,
		})
		o.distribute(ctx, event, "", "")
	}

	return entries, nil
}

// distribute delivers an outcome to every character who perceives it,
// encoding each observer's subjective version as a memory.
func (o *Orchestrator) distribute(ctx context.Context, outcome, actorID, targetID string) {
	ws := o.worldAgent.State()
	eventLocation := ""
	if cs, ok := ws.Character(actorID); ok {
		eventLocation = cs.Location
	}

	for _, observer := range o.perspective.ObserversOf(ctx, outcome, ws, eventLocation) {
		subjective := o.perspective.SubjectiveEventFor(ctx, observer, outcome, ws, actorID, targetID)
		mood := world.MoodVector{}
		if cs, ok := ws.Character(observer); ok {
			mood = cs.Mood
		}
		significance := 0.5
		if observer == actorID || observer == targetID {
			significance = 0.8
		}
		o.memories.Remember(observer, subjective.PerceivedDescription, mood, significance)
	}
}
