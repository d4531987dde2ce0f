package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"

	"github.com/jwebster45206/ficworld/internal/services"
	"github.com/jwebster45206/ficworld/pkg/relationship"
	"github.com/jwebster45206/ficworld/pkg/world"
)

var (
	// ErrUnknownCharacter indicates a caller referenced a character
	// that is not part of the run. Programmer error; fatal for the run.
	ErrUnknownCharacter = errors.New("unknown character")

	// ErrNoActiveCharacters indicates an operation that requires at
	// least one active character was called with none.
	ErrNoActiveCharacters = errors.New("no active characters")
)

// NarratorName is the sentinel POV returned when no character can
// hold the viewpoint.
const NarratorName = "Narrator"

// Params are the tunable heuristics of the world agent. The defaults
// match long-standing behavior; they are exposed because none of them
// has a strong tuning rationale.
type Params struct {
	// MaxSceneTurns is the hard cap before a scene is forced to end.
	MaxSceneTurns int `yaml:"max_scene_turns"`

	// StagnationThreshold is the number of consecutive stagnant
	// evaluations before the fallback scene-end judgment fires.
	StagnationThreshold int `yaml:"stagnation_threshold"`

	// EventOverrideChance is the probability of injecting an event
	// even when the LLM answers no.
	EventOverrideChance float64 `yaml:"event_override_chance"`

	// FallbackEventChance is the probability of injecting an event
	// when the LLM call fails.
	FallbackEventChance float64 `yaml:"fallback_event_chance"`

	// RecentEventsLimit bounds the world state's recent-events log.
	RecentEventsLimit int `yaml:"recent_events_limit"`
}

// DefaultParams returns the documented default heuristics.
func DefaultParams() Params {
	return Params{
		MaxSceneTurns:       20,
		StagnationThreshold: 3,
		EventOverrideChance: 0.05,
		FallbackEventChance: 0.15,
		RecentEventsLimit:   10,
	}
}

// POVInfo is the viewpoint character's context handed to the narrator.
type POVInfo struct {
	Persona string
	Goals   []string
	Mood    world.MoodVector
}

// WorldAgent owns the mutable world state and the scene/turn state
// machine. Every method that consults the generation service has a
// deterministic, side-effect-safe fallback; service failure never
// surfaces as an error from these methods.
type WorldAgent struct {
	def    *world.WorldDefinition
	state  *world.WorldState
	rels   *relationship.Graph
	llm    services.LLMService
	params Params
	logger *slog.Logger
	rng    *rand.Rand

	scriptMode     bool
	currentBeat    *world.ScriptBeat
	completedBeats map[string]bool

	stagnantEvals int
}

// NewWorldAgent builds a world agent and its initial world state.
// Character order follows the roles slice.
func NewWorldAgent(
	def *world.WorldDefinition,
	roles []*world.RoleArchetype,
	llm services.LLMService,
	rels *relationship.Graph,
	params Params,
	logger *slog.Logger,
	rng *rand.Rand,
) *WorldAgent {
	return &WorldAgent{
		def:            def,
		state:          world.NewWorldState(def, roles),
		rels:           rels,
		llm:            llm,
		params:         params,
		logger:         logger,
		rng:            rng,
		completedBeats: make(map[string]bool),
	}
}

// State returns the canonical world state. Callers must not replace
// character state objects; mutation happens in place.
func (a *WorldAgent) State() *world.WorldState {
	return a.state
}

// Definition returns the static world definition.
func (a *WorldAgent) Definition() *world.WorldDefinition {
	return a.def
}

// EnableScriptMode turns on scripted-beat consumption for runs with
// authored beats.
func (a *WorldAgent) EnableScriptMode() {
	a.scriptMode = true
}

// SceneNumber parses the numeric part of the current scene id.
func (a *WorldAgent) SceneNumber() int {
	parts := strings.Split(a.state.SceneID, "_")
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 1
	}
	return n
}

// InitScene starts a scene: sets the scene id, resets the turn
// counter, clears the recent-events log and stagnation tracking, and
// loads the first unconsumed beat for the scene in scripted mode.
// A sceneNumber of 0 advances to the next scene.
func (a *WorldAgent) InitScene(sceneNumber int) {
	if sceneNumber <= 0 {
		sceneNumber = a.SceneNumber() + 1
	}
	a.state.SceneID = fmt.Sprintf("scene_%d", sceneNumber)
	a.state.TurnNumber = 0
	a.state.RecentEvents = nil
	a.stagnantEvals = 0

	a.currentBeat = nil
	if a.scriptMode {
		a.currentBeat = a.nextPendingBeat(sceneNumber)
	}
	a.logger.Info("Scene initialized", "scene", a.state.SceneID, "scripted", a.currentBeat != nil)
}

func (a *WorldAgent) nextPendingBeat(sceneNumber int) *world.ScriptBeat {
	for i := range a.def.ScriptBeats {
		beat := &a.def.ScriptBeats[i]
		if beat.SceneNumber == sceneNumber && !a.completedBeats[beat.BeatID] {
			return beat
		}
	}
	return nil
}

// JudgeSceneEnd decides whether the current scene should end.
// Evaluation order: script completion, hard turn cap, minimum scene
// length, LLM judgment, and finally stagnation detection when the
// service is unavailable.
func (a *WorldAgent) JudgeSceneEnd(ctx context.Context, sceneLog []world.LogEntry) bool {
	if a.scriptMode && a.currentBeat == nil && a.nextPendingBeat(a.SceneNumber()) == nil {
		return true
	}

	if a.state.TurnNumber >= a.params.MaxSceneTurns {
		a.logger.Debug("Scene hit hard turn cap", "scene", a.state.SceneID, "turn", a.state.TurnNumber)
		return true
	}

	if len(sceneLog) < 3 {
		return false
	}

	resp, err := a.llm.CompleteText(ctx, SceneEndSystemPrompt, sceneEndUserPrompt(a.state, sceneLog), 0.2)
	if err == nil {
		return answersYes(resp)
	}
	a.logger.Warn("Scene end judgment failed, using stagnation fallback", "error", err)

	return a.stagnationCheck(sceneLog)
}

// stagnationCheck is the deterministic scene-end fallback: very short
// recent outcomes end the scene immediately, and near-constant
// outcome lengths across turns accumulate toward the threshold.
func (a *WorldAgent) stagnationCheck(sceneLog []world.LogEntry) bool {
	recent := sceneLog[len(sceneLog)-3:]
	counts := make([]int, len(recent))
	allShort := true
	for i, entry := range recent {
		counts[i] = len(strings.Fields(entry.Outcome))
		if counts[i] >= 5 {
			allShort = false
		}
	}
	if allShort {
		return true
	}

	stagnant := true
	for i := 1; i < len(counts); i++ {
		diff := counts[i] - counts[i-1]
		if diff < 0 {
			diff = -diff
		}
		if diff >= 3 {
			stagnant = false
			break
		}
	}
	if stagnant {
		a.stagnantEvals++
		if a.stagnantEvals >= a.params.StagnationThreshold {
			return true
		}
	} else {
		a.stagnantEvals = 0
	}
	return false
}

// answersYes reports whether a free-text judgment response is an
// affirmative: "yes" appearing within the first 10 characters.
func answersYes(resp string) bool {
	r := strings.ToLower(strings.TrimSpace(resp))
	if len(r) > 10 {
		r = r[:10]
	}
	return strings.Contains(r, "yes")
}

// matchCharacter resolves an LLM reply to an active character name:
// exact case-insensitive match first, then substring match.
func matchCharacter(resp string, active []string) string {
	r := strings.ToLower(strings.TrimSpace(resp))
	for _, name := range active {
		if strings.ToLower(name) == r {
			return name
		}
	}
	for _, name := range active {
		if strings.Contains(r, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

// ChooseNextActor selects the character to act this turn. A scripted
// beat with a required actor wins outright; otherwise the LLM picks,
// and on no match or service failure the choice falls back to
// weighted random selection over activity coefficients.
func (a *WorldAgent) ChooseNextActor(ctx context.Context) (string, *world.CharacterState, error) {
	active := a.state.ActiveCharacters
	if len(active) == 0 {
		return "", nil, ErrNoActiveCharacters
	}

	if a.scriptMode && a.currentBeat != nil && a.currentBeat.RequiredActor != "" {
		if cs, ok := a.state.Characters[a.currentBeat.RequiredActor]; ok {
			return a.currentBeat.RequiredActor, cs, nil
		}
		a.logger.Warn("Script beat requires unknown actor, ignoring",
			"beat", a.currentBeat.BeatID, "actor", a.currentBeat.RequiredActor)
	}

	selected := ""
	resp, err := a.llm.CompleteText(ctx, NextActorSystemPrompt, nextActorUserPrompt(a.state), 0.3)
	if err == nil {
		selected = matchCharacter(resp, active)
	} else {
		a.logger.Warn("Actor selection failed, using weighted fallback", "error", err)
	}
	if selected == "" {
		selected = world.WeightedPick(a.rng, active, a.activityWeight)
	}

	cs, ok := a.state.Characters[selected]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownCharacter, selected)
	}
	return selected, cs, nil
}

func (a *WorldAgent) activityWeight(name string) float64 {
	if cs, ok := a.state.Characters[name]; ok && cs.Profile != nil {
		return cs.Profile.ActivityCoefficient
	}
	return 1.0
}

// ChoosePOVCharacter selects the viewpoint character for narrating
// the scene. The fallback is uniform random among active characters;
// with no active characters it returns the Narrator sentinel.
func (a *WorldAgent) ChoosePOVCharacter(ctx context.Context) (string, POVInfo) {
	active := a.state.ActiveCharacters
	if len(active) == 0 {
		return NarratorName, POVInfo{Persona: "Objective observer"}
	}

	selected := ""
	resp, err := a.llm.CompleteText(ctx, POVSystemPrompt, povUserPrompt(a.state), 0.3)
	if err == nil {
		selected = matchCharacter(resp, active)
	} else {
		a.logger.Warn("POV selection failed, using uniform fallback", "error", err)
	}
	if selected == "" {
		selected = world.UniformPick(a.rng, active)
	}

	return selected, a.povInfo(selected)
}

func (a *WorldAgent) povInfo(name string) POVInfo {
	info := POVInfo{}
	if cs, ok := a.state.Characters[name]; ok {
		info.Mood = cs.Mood
		if cs.Profile != nil {
			info.Persona = cs.Profile.Persona
			info.Goals = cs.Profile.Goals
		}
	}
	return info
}

// ShouldInjectEvent decides whether a world event fires this turn.
// A scripted beat with a triggered event always injects. The LLM
// judgment can be overridden to yes with a small probability so the
// simulation never starves of environmental detail; on service
// failure, a larger probability applies, or injection is forced when
// stagnation is one step from its threshold.
func (a *WorldAgent) ShouldInjectEvent(ctx context.Context) bool {
	if a.scriptMode && a.currentBeat != nil && a.currentBeat.TriggersEvent != "" {
		return true
	}

	resp, err := a.llm.CompleteText(ctx, InjectEventSystemPrompt, injectEventUserPrompt(a.state), 0.2)
	if err == nil {
		if answersYes(resp) {
			return true
		}
		return a.rng.Float64() < a.params.EventOverrideChance
	}
	a.logger.Warn("Event injection judgment failed, using fallback odds", "error", err)

	if a.rng.Float64() < a.params.FallbackEventChance {
		return true
	}
	return a.stagnantEvals >= a.params.StagnationThreshold-1
}

// fallbackEvents are generic atmospheric lines used when every other
// event source is unavailable.
var fallbackEvents = []string{
	"A cool breeze blows through the area.",
	"Distant sounds can be heard from somewhere nearby.",
	"The lighting changes subtly, casting new shadows.",
	"There's a momentary silence that feels significant.",
	"Something catches the eye at the edge of vision, then vanishes.",
}

// GenerateEvent produces a world event description. Priority order:
// scripted beat's triggered event, random pick from the authored
// pool, LLM-generated contextual detail, built-in atmospheric line.
// Always returns a non-empty string.
func (a *WorldAgent) GenerateEvent(ctx context.Context) string {
	if a.scriptMode && a.currentBeat != nil && a.currentBeat.TriggersEvent != "" {
		beat := a.currentBeat
		if event := a.def.Event(beat.TriggersEvent); event != nil {
			a.completedBeats[beat.BeatID] = true
			a.currentBeat = nil
			if event.Description != "" {
				return event.Description
			}
			return "Something happens."
		}
		// Configuration defect: the beat names an event that is not
		// in the pool. Treated as no scripted event.
		a.logger.Warn("Script beat references unknown event, skipping",
			"beat", beat.BeatID, "event", beat.TriggersEvent)
		a.completedBeats[beat.BeatID] = true
		a.currentBeat = nil
	}

	if len(a.def.EventsPool) > 0 {
		event := a.def.EventsPool[a.rng.Intn(len(a.def.EventsPool))]
		if event.Description != "" {
			return event.Description
		}
		return "Something unexpected happens."
	}

	resp, err := a.llm.CompleteText(ctx, eventSystemPrompt(a.def.Description), generateEventUserPrompt(a.state, a.def), 0.7)
	if err == nil {
		if event := strings.Trim(strings.TrimSpace(resp), `"'`); event != "" {
			return event
		}
	} else {
		a.logger.Warn("Event generation failed, using built-in fallback", "error", err)
	}

	return fallbackEvents[a.rng.Intn(len(fallbackEvents))]
}

// ApplyPlan resolves a character's plan into a factual third-person
// outcome, incrementing the turn counter. On service failure, the
// outcome is the deterministic "{actor} attempts to {action}."
// sentence. When the plan involves a second character, relationship
// deltas are applied per the outcome's keyword polarity, with the
// reverse direction scaled to 80%.
func (a *WorldAgent) ApplyPlan(ctx context.Context, actor string, plan world.Plan) (string, error) {
	if _, ok := a.state.Characters[actor]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCharacter, actor)
	}

	a.state.TurnNumber++

	outcome := ""
	resp, err := a.llm.CompleteText(ctx, outcomeSystemPrompt(a.def.Description), outcomeUserPrompt(a.state, a.def, actor, plan), 0.4)
	if err == nil {
		outcome = strings.Trim(strings.TrimSpace(resp), `"'`)
	}
	if outcome == "" {
		if err != nil {
			a.logger.Warn("Outcome generation failed, using fallback sentence", "actor", actor, "error", err)
		}
		outcome = fmt.Sprintf("%s attempts to %s.", actor, plan.Action)
		return outcome, nil
	}

	a.applyRelationshipImpact(actor, plan, outcome)
	return outcome, nil
}

func (a *WorldAgent) applyRelationshipImpact(actor string, plan world.Plan, outcome string) {
	other := plan.TargetCharacter()
	if _, ok := a.state.Characters[other]; !ok {
		other = ""
	}
	if other == "" {
		// The plan named no valid target; look for another active
		// character mentioned in the outcome itself.
		lower := strings.ToLower(outcome)
		for _, name := range a.state.ActiveCharacters {
			if name != actor && strings.Contains(lower, strings.ToLower(name)) {
				other = name
				break
			}
		}
	}
	if other == "" || other == actor {
		return
	}

	for _, adj := range OutcomeAdjustments(actor, other, outcome) {
		state, err := a.rels.AdjustState(adj.From, adj.To, adj.TrustDelta, adj.AffinityDelta, "")
		if err != nil {
			a.logger.Error("Relationship adjustment failed", "from", adj.From, "to", adj.To, "error", err)
			continue
		}
		a.logger.Debug("Relationship adjusted",
			"from", adj.From, "to", adj.To,
			"trust_delta", adj.TrustDelta, "affinity_delta", adj.AffinityDelta,
			"trust", state.Trust, "affinity", state.Affinity)
	}
}

// outcomeDelta is the structured change set extracted from a factual
// outcome.
type outcomeDelta struct {
	LocationChanges  map[string]string   `json:"location_changes,omitempty"`
	ConditionChanges map[string][]string `json:"condition_changes,omitempty"`
	TimeChanges      map[string]string   `json:"time_changes,omitempty"`
}

// UpdateFromOutcome records an outcome in the recent-events log and
// applies any structured state deltas the LLM can extract from it.
// Extraction failure is swallowed: the event is still recorded.
func (a *WorldAgent) UpdateFromOutcome(ctx context.Context, outcome string) {
	a.state.AppendEvent(outcome, a.params.RecentEventsLimit)

	raw, err := a.llm.CompleteJSON(ctx, OutcomeExtractionSystemPrompt, outcomeExtractionUserPrompt(a.state, outcome), 0.1)
	if err != nil {
		a.logger.Warn("Outcome extraction failed, event recorded without state changes", "error", err)
		return
	}

	var delta outcomeDelta
	if err := json.Unmarshal(raw, &delta); err != nil {
		a.logger.Warn("Outcome extraction returned unexpected shape", "error", err)
		return
	}

	for name, newLocation := range delta.LocationChanges {
		if cs, ok := a.state.Characters[name]; ok && newLocation != "" {
			a.logger.Debug("Character moved", "character", name, "from", cs.Location, "to", newLocation)
			cs.Location = newLocation
		}
	}
	for name, conditions := range delta.ConditionChanges {
		if cs, ok := a.state.Characters[name]; ok {
			cs.AddConditions(conditions)
		}
	}
	if t, ok := delta.TimeChanges["time_of_day"]; ok && t != "" {
		a.state.TimeOfDay = t
	}
}

// CharacterMood returns a character's current mood.
func (a *WorldAgent) CharacterMood(name string) (world.MoodVector, error) {
	cs, ok := a.state.Characters[name]
	if !ok {
		return world.MoodVector{}, fmt.Errorf("%w: %s", ErrUnknownCharacter, name)
	}
	return cs.Mood, nil
}

// UpdateCharacterMood replaces a character's mood in place, clamped.
func (a *WorldAgent) UpdateCharacterMood(name string, mood world.MoodVector) error {
	cs, ok := a.state.Characters[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCharacter, name)
	}
	cs.Mood = mood.Clamped()
	return nil
}
