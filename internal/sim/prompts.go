package sim

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/ficworld/pkg/memory"
	"github.com/jwebster45206/ficworld/pkg/world"
)

// SceneEndSystemPrompt asks the LLM to judge narrative closure.
const SceneEndSystemPrompt = `You are the world director of FicWorld, a story simulation. Your task is to evaluate whether the current scene has reached a natural conclusion or if it should continue. A good scene ending point should have some narrative closure but also leave hooks for future scenes.`

// NextActorSystemPrompt asks the LLM to pick the next character to act.
const NextActorSystemPrompt = `You are the world director of FicWorld, a story simulation. Your task is to select which character should act next in the narrative. Choose the character whose action would create the most interesting story development based on current character states, relationships, and recent events.`

// POVSystemPrompt asks the LLM to pick the viewpoint character for narration.
const POVSystemPrompt = `You are the world director of FicWorld, a story simulation. Your task is to select which character would make the most compelling viewpoint character for narrating the current scene. Choose the character whose perspective would create the most engaging, emotionally resonant, or dramatically revealing narrative.`

// InjectEventSystemPrompt asks the LLM whether a world event would help the scene.
const InjectEventSystemPrompt = `You are the world director of FicWorld, a story simulation. Your task is to evaluate if injecting an environmental event or detail would enhance the current narrative flow. Consider the pacing, tension, and engagement of the scene.`

// OutcomeExtractionSystemPrompt asks the LLM to extract structured state deltas.
const OutcomeExtractionSystemPrompt = `You are the world director of FicWorld, a story simulation. Your task is to extract structured state changes from a factual outcome description. Focus on identifying changes to character locations, new conditions, and time-of-day changes. Respond with ONLY a JSON object.`

func outcomeSystemPrompt(setting string) string {
	return fmt.Sprintf(`You are the world director of FicWorld, a story simulation. The current story is set in: %s
Your task is to interpret a character's action plan and generate a realistic outcome based on the current world state. The outcome should be factual, concise, and expressed as a simple third-person statement of what happens.`, setting)
}

func eventSystemPrompt(setting string) string {
	return fmt.Sprintf(`You are the world director of FicWorld, a story simulation. The current story is set in: %s
Your task is to generate a small, contextual environmental event or detail that fits the established tone and ongoing narrative. This event should be factual and brief.`, setting)
}

func sceneEndUserPrompt(ws *world.WorldState, sceneLog []world.LogEntry) string {
	startCount := 2
	if len(sceneLog) < startCount {
		startCount = len(sceneLog)
	}
	var startLines, recentLines []string
	for _, e := range sceneLog[:startCount] {
		startLines = append(startLines, e.Outcome)
	}
	recentFrom := len(sceneLog) - 5
	if recentFrom < 0 {
		recentFrom = 0
	}
	for _, e := range sceneLog[recentFrom:] {
		recentLines = append(recentLines, e.Outcome)
	}

	return fmt.Sprintf(`Current scene: %s
Current turn number: %d

Scene start events:
%s

Recent events:
%s

Based on these events, evaluate if this scene has reached a natural conclusion point. Consider these factors:
1. Has the scene established and resolved a minor dramatic tension or question?
2. Have key characters made meaningful choices or taken significant actions?
3. Is there a natural transition point to a new location or time?
4. Has the conversation reached a logical pause?
5. Would ending now leave interesting threads for future scenes?

Respond with ONLY 'yes' if the scene should end, or 'no' if it should continue.`,
		ws.SceneID, ws.TurnNumber, strings.Join(startLines, "\n"), strings.Join(recentLines, "\n"))
}

func describeCharacter(ws *world.WorldState, name string, withActivity bool) string {
	cs, ok := ws.Characters[name]
	if !ok {
		return fmt.Sprintf("Character: %s (state unknown)", name)
	}
	persona, goals, activity := "Unknown", []string{}, 1.0
	if cs.Profile != nil {
		persona = cs.Profile.Persona
		goals = cs.Profile.Goals
		activity = cs.Profile.ActivityCoefficient
	}
	lines := []string{
		fmt.Sprintf("Character: %s", name),
		fmt.Sprintf("Persona: %s", persona),
		fmt.Sprintf("Current location: %s", cs.Location),
		fmt.Sprintf("Dominant mood: %s", cs.Mood.Dominant()),
	}
	if withActivity {
		lines = append(lines, fmt.Sprintf("Activity coefficient: %.1f", activity))
	}
	lines = append(lines, fmt.Sprintf("Goals: %s", strings.Join(goals, ", ")))
	return strings.Join(lines, "\n")
}

func characterRoster(ws *world.WorldState, withActivity bool) string {
	separator := strings.Repeat("-", 40)
	parts := []string{separator}
	for _, name := range ws.ActiveCharacters {
		parts = append(parts, describeCharacter(ws, name, withActivity), separator)
	}
	return strings.Join(parts, "\n")
}

func nextActorUserPrompt(ws *world.WorldState) string {
	recent := strings.Join(ws.LastEvents(5), "\n")

	var lastActor string
	if events := ws.LastEvents(1); len(events) > 0 {
		for _, name := range ws.ActiveCharacters {
			if strings.HasPrefix(events[0], name) {
				lastActor = name
				break
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Current scene: %s\nTurn number: %d\n\nAvailable characters and their states:\n\n%s\n\nRecent events in the scene:\n%s\n",
		ws.SceneID, ws.TurnNumber, characterRoster(ws, true), recent)
	if lastActor != "" {
		fmt.Fprintf(&sb, "\nThe last character to act was: %s\n", lastActor)
	}
	sb.WriteString(`
Based on this information, choose ONE character who should act next. Consider:
1. Which character has the most reason to respond to recent events?
2. Which character could introduce an interesting new element to the scene?
3. Which character's goals or emotions would drive them to act now?
4. Which character hasn't acted in a while but has a stake in the scene?
5. Which character's action would create interesting dramatic tension?

Respond with ONLY the name of the selected character, exactly as written above.`)
	return sb.String()
}

func povUserPrompt(ws *world.WorldState) string {
	recent := strings.Join(ws.LastEvents(5), "\n")
	return fmt.Sprintf(`Current scene: %s

Available characters and their states:

%s

Recent events in the scene:
%s

Based on this information, choose ONE character whose perspective would make the most compelling viewpoint for narrating this scene. Consider:
1. Which character has the most at stake emotionally?
2. Which character has been most active or central to recent events?
3. Which character's perspective would reveal interesting thoughts or feelings?
4. Which character's viewpoint would best highlight the current dramatic tensions?

Respond with ONLY the name of the selected character, exactly as written above.`,
		ws.SceneID, characterRoster(ws, false), recent)
}

func injectEventUserPrompt(ws *world.WorldState) string {
	recent := strings.Join(ws.LastEvents(5), "\n")
	return fmt.Sprintf(`Current scene: %s
Turn number: %d

Recent events in the scene:
%s

Based on these recent events, evaluate if injecting a world event or environmental detail would enhance the narrative at this moment. Consider these questions:
1. Is the pacing becoming too slow or conversation stagnating?
2. Could an environmental event create interesting new tensions or possibilities?
3. Would an external event help reveal character traits or emotions?
4. Has it been several turns since anything notable happened in the environment?
5. Would a background detail add atmosphere or context to the scene?

Respond with ONLY 'yes' if an event should be injected, or 'no' if it should not.`,
		ws.SceneID, ws.TurnNumber, recent)
}

func outcomeUserPrompt(ws *world.WorldState, def *world.WorldDefinition, actor string, plan world.Plan) string {
	characterContext := actor + " is somewhere in the world."
	if cs, ok := ws.Characters[actor]; ok {
		locationDesc := "the current area"
		var connections []string
		if loc := def.Location(cs.Location); loc != nil {
			locationDesc = loc.Description
			connections = loc.Connections
		}
		characterContext = fmt.Sprintf("%s is currently in %s (%s).", actor, cs.Location, locationDesc)
		if len(connections) > 0 {
			characterContext += fmt.Sprintf(" Connected locations: %s.", strings.Join(connections, ", "))
		}
		if present := ws.CharactersAt(cs.Location, actor); len(present) > 0 {
			characterContext += fmt.Sprintf(" Other characters present: %s.", strings.Join(present, ", "))
		}
	}

	recentContext := "This is the beginning of the scene."
	if events := ws.LastEvents(3); len(events) > 0 {
		recentContext = strings.Join(events, "\n")
	}

	return fmt.Sprintf(`Character: %s
Character Context: %s

Recent Events:
%s

Character's Plan:
%s

Generate a single, concise, and factual description of the outcome of this action. The outcome should reflect what actually happens when the character attempts their planned action. If the action involves movement, update the character's location accordingly. If the action is impossible or implausible given the current context, describe a reasonable failure.

Output ONLY the outcome as a simple third-person statement, without any explanations or meta-commentary. Example: "Sir Rowan moves to the old ruins." or "Alice examines the strange book, finding cryptic symbols inside."`,
		actor, characterContext, recentContext, plan.Describe())
}

func generateEventUserPrompt(ws *world.WorldState, def *world.WorldDefinition) string {
	locationDesc := "the current area"
	if len(ws.ActiveCharacters) > 0 {
		if cs, ok := ws.Characters[ws.ActiveCharacters[0]]; ok {
			if loc := def.Location(cs.Location); loc != nil {
				locationDesc = loc.Description
			}
		}
	}
	return fmt.Sprintf(`Current world state:
Current scene: %s
Time of day: %s
Location: %s
Characters present: %s

Recent story events:
%s

Generate a single, concise, and neutral factual description of a new minor environmental detail or a small, contextual event that occurs now. Output as a simple string. Do not add any conversational fluff. Example: "A floorboard creaks in the hallway." or "The wind howls a little louder."`,
		ws.SceneID, ws.TimeOfDay, locationDesc,
		strings.Join(ws.ActiveCharacters, ", "), strings.Join(ws.LastEvents(5), "\n"))
}

func outcomeExtractionUserPrompt(ws *world.WorldState, outcome string) string {
	var locations []string
	for _, name := range ws.ActiveCharacters {
		if cs, ok := ws.Characters[name]; ok {
			locations = append(locations, fmt.Sprintf("%s: %s", name, cs.Location))
		}
	}
	return fmt.Sprintf(`Current world state summary:
Scene: %s
Time: %s
Active characters: %s

Character locations:
%s

New event/outcome to process:
%s

Extract structured state changes from this outcome. Respond with ONLY a JSON object containing the changes that should be applied to the world state. Include:
- Any character location changes (format: {"character_name": "new_location"})
- Any new character conditions (format: {"character_name": ["condition1", "condition2"]})
- Any time changes (format: {"time_of_day": "new_time"})
If no changes should be made, respond with empty objects {}.
Example response format:
{
  "location_changes": {"Knight": "forest_clearing"},
  "condition_changes": {"Scholar": ["wounded", "tired"]},
  "time_changes": {"time_of_day": "evening"}
}`,
		ws.SceneID, ws.TimeOfDay, strings.Join(ws.ActiveCharacters, ", "),
		strings.Join(locations, "\n"), outcome)
}

func formatMemories(memories []memory.Entry) string {
	if len(memories) == 0 {
		return "You have no specific memories relevant to the current situation."
	}
	lines := make([]string, 0, len(memories))
	for _, m := range memories {
		lines = append(lines, "- "+m.Description)
	}
	return strings.Join(lines, "\n")
}
