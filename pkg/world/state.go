package world

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTimeOfDay is used when a world definition does not set one.
const DefaultTimeOfDay = "morning"

// CharacterState is the live state of one active character. Instances
// are created once per run and mutated in place; callers that hold a
// *CharacterState observe later mutations. Map entries are never
// reassigned wholesale.
type CharacterState struct {
	Location   string         `json:"location"`
	Conditions []string       `json:"conditions,omitempty"`
	Mood       MoodVector     `json:"mood"`
	Profile    *RoleArchetype `json:"profile,omitempty"`
}

// AddConditions appends new condition tags, skipping duplicates.
func (cs *CharacterState) AddConditions(conditions []string) {
	for _, c := range conditions {
		found := false
		for _, existing := range cs.Conditions {
			if existing == c {
				found = true
				break
			}
		}
		if !found {
			cs.Conditions = append(cs.Conditions, c)
		}
	}
}

// WorldState is the single mutable aggregate for a simulation run.
// TurnNumber and RecentEvents reset at each scene boundary; everything
// else persists for the life of the run.
type WorldState struct {
	RunID                  uuid.UUID                  `json:"run_id"`
	SceneID                string                     `json:"scene_id"`
	TurnNumber             int                        `json:"turn_number"`
	TimeOfDay              string                     `json:"time_of_day"`
	EnvironmentDescription string                     `json:"environment_description"`
	ActiveCharacters       []string                   `json:"active_characters"`
	Characters             map[string]*CharacterState `json:"characters"`
	RecentEvents           []string                   `json:"recent_events,omitempty"`
}

// NewWorldState builds the initial world state for a run. Characters
// start at their archetype's starting location, falling back to the
// world's first location.
func NewWorldState(def *WorldDefinition, roles []*RoleArchetype) *WorldState {
	defaultLocation := ""
	if len(def.Locations) > 0 {
		defaultLocation = def.Locations[0].ID
	}
	timeOfDay := def.TimeOfDay
	if timeOfDay == "" {
		timeOfDay = DefaultTimeOfDay
	}

	ws := &WorldState{
		RunID:                  uuid.New(),
		SceneID:                "scene_1",
		TurnNumber:             0,
		TimeOfDay:              timeOfDay,
		EnvironmentDescription: def.Description,
		ActiveCharacters:       make([]string, 0, len(roles)),
		Characters:             make(map[string]*CharacterState, len(roles)),
	}
	for _, role := range roles {
		location := role.StartingLocation
		if location == "" {
			location = defaultLocation
		}
		ws.ActiveCharacters = append(ws.ActiveCharacters, role.Name)
		ws.Characters[role.Name] = &CharacterState{
			Location: location,
			Mood:     role.StartingMood.Clamped(),
			Profile:  role,
		}
	}
	return ws
}

// Character returns the state handle for a named character.
func (ws *WorldState) Character(name string) (*CharacterState, bool) {
	cs, ok := ws.Characters[name]
	return cs, ok
}

// CharactersAt returns the names of active characters at a location,
// excluding the named character. Order follows ActiveCharacters.
func (ws *WorldState) CharactersAt(locationID string, exclude string) []string {
	var present []string
	for _, name := range ws.ActiveCharacters {
		if name == exclude {
			continue
		}
		if cs, ok := ws.Characters[name]; ok && cs.Location == locationID {
			present = append(present, name)
		}
	}
	return present
}

// AppendEvent records an event in the recent-events log, evicting the
// oldest entries beyond limit.
func (ws *WorldState) AppendEvent(event string, limit int) {
	ws.RecentEvents = append(ws.RecentEvents, event)
	if limit > 0 && len(ws.RecentEvents) > limit {
		ws.RecentEvents = ws.RecentEvents[len(ws.RecentEvents)-limit:]
	}
}

// LastEvents returns up to n most recent events, oldest first.
func (ws *WorldState) LastEvents(n int) []string {
	if n <= 0 || len(ws.RecentEvents) == 0 {
		return nil
	}
	if len(ws.RecentEvents) <= n {
		return ws.RecentEvents
	}
	return ws.RecentEvents[len(ws.RecentEvents)-n:]
}

// LogEntry records one resolved turn (or injected world event) for
// narration and scene summaries.
type LogEntry struct {
	Actor        string     `json:"actor"`
	Plan         Plan       `json:"plan,omitempty"`
	Outcome      string     `json:"outcome"`
	Mood         MoodVector `json:"mood"`
	Timestamp    time.Time  `json:"timestamp"`
	IsWorldEvent bool       `json:"is_world_event,omitempty"`
}
