package world

// RoleArchetype is a character template loaded from a role file.
// One archetype produces one active character per run.
type RoleArchetype struct {
	Name                string     `json:"name" yaml:"name"`
	Persona             string     `json:"persona" yaml:"persona"`
	Goals               []string   `json:"goals" yaml:"goals"`
	StartingMood        MoodVector `json:"starting_mood" yaml:"starting_mood"`
	ActivityCoefficient float64    `json:"activity_coefficient" yaml:"activity_coefficient"`
	StartingLocation    string     `json:"starting_location,omitempty" yaml:"starting_location,omitempty"`
	Icon                string     `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Location is a place within a world definition.
type Location struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Connections []string `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// ScriptBeat is a scripted-mode narrative checkpoint tied to a scene.
// It may require a specific actor to take the next turn, or trigger a
// specific event from the world events pool.
type ScriptBeat struct {
	SceneNumber   int    `json:"scene_number" yaml:"scene_number"`
	BeatID        string `json:"beat_id" yaml:"beat_id"`
	Description   string `json:"description" yaml:"description"`
	RequiredActor string `json:"required_actor,omitempty" yaml:"required_actor,omitempty"`
	TriggersEvent string `json:"triggers_event,omitempty" yaml:"triggers_event,omitempty"`
}

// WorldEvent is a pre-authored event the world agent can inject.
type WorldEvent struct {
	EventID     string   `json:"event_id" yaml:"event_id"`
	Description string   `json:"description" yaml:"description"`
	Effects     []string `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// WorldDefinition is the static description of a world: its setting,
// locations, and optional scripted content. Loaded once per run and
// never mutated.
type WorldDefinition struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	TimeOfDay   string       `json:"time_of_day,omitempty" yaml:"time_of_day,omitempty"`
	Locations   []Location   `json:"locations" yaml:"locations"`
	EventsPool  []WorldEvent `json:"events_pool,omitempty" yaml:"events_pool,omitempty"`
	ScriptBeats []ScriptBeat `json:"script_beats,omitempty" yaml:"script_beats,omitempty"`
}

// Location returns the location with the given id, or nil.
func (d *WorldDefinition) Location(id string) *Location {
	for i := range d.Locations {
		if d.Locations[i].ID == id {
			return &d.Locations[i]
		}
	}
	return nil
}

// Event returns the pooled event with the given id, or nil.
func (d *WorldDefinition) Event(id string) *WorldEvent {
	for i := range d.EventsPool {
		if d.EventsPool[i].EventID == id {
			return &d.EventsPool[i]
		}
	}
	return nil
}
