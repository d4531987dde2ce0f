package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/ficworld/internal/services"
	"github.com/jwebster45206/ficworld/pkg/perception"
	"github.com/jwebster45206/ficworld/pkg/world"
)

// Reflection is a character's emotional response to their current
// perception of the world.
type Reflection struct {
	UpdatedMood     world.MoodVector
	InternalThought string
}

// CharacterAgent is the decision-making surface of one character.
// Implementations never return errors: the simulation loop must be
// able to continue regardless of individual agent failures, so every
// failure mode maps to a well-formed default.
type CharacterAgent interface {
	Name() string
	Reflect(ctx context.Context, view perception.SubjectiveWorldView, memories, relationships string) Reflection
	Plan(ctx context.Context, view perception.SubjectiveWorldView, reflection Reflection, memories, relationships, summaries string) world.Plan
}

// LLMCharacterAgent drives a character through the generation
// service, speaking and acting in line with the role archetype's
// persona and goals.
type LLMCharacterAgent struct {
	name    string
	profile *world.RoleArchetype
	mood    world.MoodVector
	llm     services.LLMService
	logger  *slog.Logger
}

var _ CharacterAgent = (*LLMCharacterAgent)(nil)

func NewLLMCharacterAgent(profile *world.RoleArchetype, llm services.LLMService, logger *slog.Logger) *LLMCharacterAgent {
	return &LLMCharacterAgent{
		name:    profile.Name,
		profile: profile,
		mood:    profile.StartingMood,
		llm:     llm,
		logger:  logger,
	}
}

func (c *LLMCharacterAgent) Name() string {
	return c.name
}

// Mood returns the agent's internal mood tracker. The world state's
// copy is canonical; this one seeds prompts between mood syncs.
func (c *LLMCharacterAgent) Mood() world.MoodVector {
	return c.mood
}

func (c *LLMCharacterAgent) systemPrompt() string {
	return fmt.Sprintf("You are %s in an unfolding story. Persona: %s\nGoals: %s\nStay strictly in character. Respond only in the requested format.",
		c.name, c.profile.Persona, strings.Join(c.profile.Goals, "; "))
}

type reflectionResponse struct {
	UpdatedMood     world.MoodPatch `json:"updated_mood"`
	InternalThought string          `json:"internal_thought"`
}

// Reflect asks the character how the current moment lands on them.
// Failure leaves the mood unchanged and marks the thought.
func (c *LLMCharacterAgent) Reflect(ctx context.Context, view perception.SubjectiveWorldView, memories, relationships string) Reflection {
	userPrompt := fmt.Sprintf("Current situation: %s\n%s\n\nYour memories:\n%s\n\n%s\n\nYour current mood: %s\n\nRespond with a JSON object: {\"updated_mood\": {\"joy\": 0.0-1.0, \"fear\": 0.0-1.0, \"anger\": 0.0-1.0, \"sadness\": 0.0-1.0, \"surprise\": 0.0-1.0, \"trust\": 0.0-1.0}, \"internal_thought\": \"one or two sentences of inner monologue\"}. Only include mood fields that changed.",
		view.PerceivedLocationDescription, view.InferredContext, memories, relationships, c.mood.Dominant())

	raw, err := c.llm.CompleteJSON(ctx, c.systemPrompt(), userPrompt, 0.7)
	if err != nil {
		c.logger.Warn("Reflection failed, keeping prior mood", "character", c.name, "error", err)
		return Reflection{
			UpdatedMood:     c.mood,
			InternalThought: fmt.Sprintf("(%s is lost in thought.)", c.name),
		}
	}

	var resp reflectionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.logger.Warn("Reflection response unparseable, keeping prior mood", "character", c.name, "error", err)
		return Reflection{
			UpdatedMood:     c.mood,
			InternalThought: fmt.Sprintf("(%s is lost in thought.)", c.name),
		}
	}

	c.mood = c.mood.Merge(resp.UpdatedMood)
	thought := strings.TrimSpace(resp.InternalThought)
	if thought == "" {
		thought = fmt.Sprintf("(%s is lost in thought.)", c.name)
	}
	return Reflection{UpdatedMood: c.mood, InternalThought: thought}
}

// Plan asks the character what they do next. Any failure yields the
// hesitation fallback plan.
func (c *LLMCharacterAgent) Plan(ctx context.Context, view perception.SubjectiveWorldView, reflection Reflection, memories, relationships, summaries string) world.Plan {
	others := visibleNames(view.VisibleCharacters)
	userPrompt := fmt.Sprintf("Current situation: %s\n%s\n\nCharacters you can see: %s\n\nYour memories:\n%s\n\n%s\n\nWhat has happened so far:\n%s\n\nYour current thought: %s\nYour current mood: %s\n\nRespond with a JSON object: {\"action\": \"a verb phrase for what you do\", \"details\": {\"text\": \"what you say, if speaking\", \"target_character\": \"who you act toward, if anyone\"}, \"tone_of_action\": \"one word\"}.",
		view.PerceivedLocationDescription, view.InferredContext, others,
		memories, relationships, summaries,
		reflection.InternalThought, reflection.UpdatedMood.Dominant())

	raw, err := c.llm.CompleteJSON(ctx, c.systemPrompt(), userPrompt, 0.8)
	if err != nil {
		c.logger.Warn("Planning failed, using hesitation fallback", "character", c.name, "error", err)
		return fallbackPlan()
	}

	var plan world.Plan
	if err := json.Unmarshal(raw, &plan); err != nil || strings.TrimSpace(plan.Action) == "" {
		c.logger.Warn("Plan response unusable, using hesitation fallback", "character", c.name, "error", err)
		return fallbackPlan()
	}
	if plan.Tone == "" {
		plan.Tone = "neutral"
	}
	return plan
}

func fallbackPlan() world.Plan {
	return world.Plan{
		Action:  "speak",
		Details: map[string]any{"text": "I... hmm, let me gather my thoughts."},
		Tone:    "confused",
	}
}
