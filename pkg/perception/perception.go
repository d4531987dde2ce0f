// Package perception defines character-specific subjective projections
// of world state and events. These are ephemeral values recomputed on
// demand; they are never part of canonical state.
package perception

// VisibleCharacter is another character as perceived by an observer.
type VisibleCharacter struct {
	CharacterID        string   `json:"character_id"`
	EstimatedCondition []string `json:"estimated_condition,omitempty"`
	ApparentMood       string   `json:"apparent_mood,omitempty"`
	ObservedAction     string   `json:"observed_action,omitempty"`
}

// VisibleObject is an object as perceived by an observer.
type VisibleObject struct {
	ObjectID           string `json:"object_id"`
	ObservedState      string `json:"observed_state,omitempty"`
	PerceivedUsability string `json:"perceived_usability,omitempty"`
}

// SubjectiveEvent is an objective outcome restated from one observer's
// point of view.
type SubjectiveEvent struct {
	Timestamp            string `json:"timestamp"`
	ObserverID           string `json:"observer_id"`
	PerceivedDescription string `json:"perceived_description"`
	InferredActor        string `json:"inferred_actor,omitempty"`
	InferredTarget       string `json:"inferred_target,omitempty"`
}

// SubjectiveWorldView is a character's filtered understanding of the
// current moment. InferredContext carries an error marker instead of
// the call failing when the view cannot be fully resolved; callers
// must always be able to proceed with some view.
type SubjectiveWorldView struct {
	CharacterID                  string             `json:"character_id"`
	Timestamp                    string             `json:"timestamp"`
	PerceivedLocationID          string             `json:"perceived_location_id"`
	PerceivedLocationDescription string             `json:"perceived_location_description"`
	VisibleCharacters            []VisibleCharacter `json:"visible_characters,omitempty"`
	VisibleObjects               []VisibleObject    `json:"visible_objects,omitempty"`
	RecentPerceivedEvents        []SubjectiveEvent  `json:"recent_perceived_events,omitempty"`
	InferredContext              string             `json:"inferred_context,omitempty"`
	ActiveFocus                  string             `json:"active_focus_or_goal,omitempty"`
}
