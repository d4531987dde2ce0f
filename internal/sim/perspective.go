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

const perspectiveFilterSystemPrompt = `You are the perception layer of FicWorld, a story simulation. You decide what each character can perceive of events around them, filtered through their position, attention, and state of mind. Respond only in the requested format.`

// PerspectiveFilter converts objective world events into the
// subjective experience of individual characters. All of its methods
// degrade to deterministic pass-through behavior when the generation
// service fails.
type PerspectiveFilter struct {
	llm    services.LLMService
	logger *slog.Logger
}

func NewPerspectiveFilter(llm services.LLMService, logger *slog.Logger) *PerspectiveFilter {
	return &PerspectiveFilter{llm: llm, logger: logger}
}

// ObserversOf determines which characters perceive an event. The LLM
// proposes observers; any name not in the world state is discarded.
// On failure, everyone at the event's location observes it, or no one
// when the location is unknown.
func (f *PerspectiveFilter) ObserversOf(ctx context.Context, outcome string, ws *world.WorldState, eventLocationID string) []string {
	userPrompt := fmt.Sprintf("Event: %s\n\nLocation of event: %s\n\nCharacters and their locations:\n%s\nRespond with a JSON array of the names of characters who would perceive this event, e.g. [\"Alice\", \"Bob\"]. Consider distance, line of sight, and noise level.",
		outcome, eventLocationID, characterLocations(ws))

	raw, err := f.llm.CompleteJSON(ctx, perspectiveFilterSystemPrompt, userPrompt, 0.2)
	if err != nil {
		f.logger.Warn("Observer determination failed, using location fallback", "error", err)
		return f.observersAt(ws, eventLocationID)
	}

	var proposed []string
	if err := json.Unmarshal(raw, &proposed); err != nil {
		// Some models wrap the array in an object.
		var wrapped struct {
			Observers []string `json:"observers"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			f.logger.Warn("Observer response unparseable, using location fallback", "error", err)
			return f.observersAt(ws, eventLocationID)
		}
		proposed = wrapped.Observers
	}

	observers := make([]string, 0, len(proposed))
	for _, name := range proposed {
		name = strings.TrimSpace(name)
		if _, ok := ws.Characters[name]; ok {
			observers = append(observers, name)
			continue
		}
		f.logger.Warn("Observer response named unknown character, discarding", "character", name)
	}
	return observers
}

func (f *PerspectiveFilter) observersAt(ws *world.WorldState, locationID string) []string {
	if locationID == "" {
		return nil
	}
	return ws.CharactersAt(locationID, "")
}

// SubjectiveEventFor renders an event as one observer perceived it.
// The default on service failure is a marked pass-through of the
// objective outcome.
func (f *PerspectiveFilter) SubjectiveEventFor(ctx context.Context, observerID, outcome string, ws *world.WorldState, actorID, targetID string) perception.SubjectiveEvent {
	event := perception.SubjectiveEvent{
		Timestamp:      fmt.Sprintf("%s_turn_%d", ws.SceneID, ws.TurnNumber),
		ObserverID:     observerID,
		InferredActor:  actorID,
		InferredTarget: targetID,
	}

	observer, ok := ws.Character(observerID)
	if !ok {
		event.PerceivedDescription = fmt.Sprintf("(Standard perception for %s): %s", observerID, outcome)
		return event
	}

	userPrompt := fmt.Sprintf("Observer: %s (mood: %s, location: %s)\n\nObjective event: %s\n\nDescribe this event as %s perceived it, in one or two sentences. Color the description with the observer's mood and vantage point, but do not invent facts that contradict the event.",
		observerID, observer.Mood.Dominant(), observer.Location, outcome, observerID)

	resp, err := f.llm.CompleteText(ctx, perspectiveFilterSystemPrompt, userPrompt, 0.6)
	if err != nil || strings.TrimSpace(resp) == "" {
		if err != nil {
			f.logger.Warn("Subjective event rendering failed, using pass-through", "observer", observerID, "error", err)
		}
		event.PerceivedDescription = fmt.Sprintf("(Standard perception for %s): %s", observerID, outcome)
		return event
	}

	event.PerceivedDescription = strings.TrimSpace(resp)
	return event
}

// ViewFor builds a character's subjective snapshot of the world for
// planning. A missing character yields a minimal error-marked view
// rather than an error; planning must always have something to work
// with.
func (f *PerspectiveFilter) ViewFor(ctx context.Context, characterID string, ws *world.WorldState) perception.SubjectiveWorldView {
	view := perception.SubjectiveWorldView{
		CharacterID: characterID,
		Timestamp:   fmt.Sprintf("%s_turn_%d", ws.SceneID, ws.TurnNumber),
	}

	cs, ok := ws.Character(characterID)
	if !ok {
		view.PerceivedLocationDescription = "You are unsure of your surroundings."
		view.InferredContext = "Error: character state unavailable."
		return view
	}

	view.PerceivedLocationID = cs.Location
	view.PerceivedLocationDescription = fmt.Sprintf("(Default basic perception) You are in %s.", cs.Location)
	view.InferredContext = "Awaiting detailed subjective perception."
	if cs.Profile != nil && len(cs.Profile.Goals) > 0 {
		view.ActiveFocus = cs.Profile.Goals[0]
	}

	for _, name := range ws.CharactersAt(cs.Location, characterID) {
		vc := perception.VisibleCharacter{CharacterID: name}
		if other, ok := ws.Character(name); ok {
			vc.ApparentMood = other.Mood.Dominant()
			vc.EstimatedCondition = append(vc.EstimatedCondition, other.Conditions...)
		}
		view.VisibleCharacters = append(view.VisibleCharacters, vc)
	}

	for _, recent := range ws.LastEvents(3) {
		view.RecentPerceivedEvents = append(view.RecentPerceivedEvents, perception.SubjectiveEvent{
			Timestamp:            view.Timestamp,
			ObserverID:           characterID,
			PerceivedDescription: recent,
		})
	}

	userPrompt := fmt.Sprintf("Character: %s (mood: %s)\nLocation: %s\nVisible characters: %s\nRecent events:\n%s\nIn one or two sentences, describe what %s perceives of the current situation and what it seems to mean to them.",
		characterID, cs.Mood.Dominant(), cs.Location, visibleNames(view.VisibleCharacters), formatRecent(ws.LastEvents(3)), characterID)

	resp, err := f.llm.CompleteText(ctx, perspectiveFilterSystemPrompt, userPrompt, 0.6)
	if err != nil || strings.TrimSpace(resp) == "" {
		if err != nil {
			f.logger.Warn("Subjective view rendering failed, using default view", "character", characterID, "error", err)
		}
		return view
	}

	view.InferredContext = strings.TrimSpace(resp)
	return view
}

func characterLocations(ws *world.WorldState) string {
	var sb strings.Builder
	for _, name := range ws.ActiveCharacters {
		if cs, ok := ws.Character(name); ok {
			fmt.Fprintf(&sb, "- %s: %s\n", name, cs.Location)
		}
	}
	return sb.String()
}

func visibleNames(chars []perception.VisibleCharacter) string {
	if len(chars) == 0 {
		return "none"
	}
	names := make([]string, len(chars))
	for i, c := range chars {
		names[i] = c.CharacterID
	}
	return strings.Join(names, ", ")
}

func formatRecent(events []string) string {
	if len(events) == 0 {
		return "(none)\n"
	}
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString("- " + e + "\n")
	}
	return sb.String()
}
