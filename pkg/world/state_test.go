package world

import (
	"testing"
)

func testDefinition() *WorldDefinition {
	return &WorldDefinition{
		Name:        "Test World",
		Description: "A small world for testing.",
		Locations: []Location{
			{ID: "hall", Name: "Great Hall", Description: "A drafty hall."},
			{ID: "garden", Name: "Garden", Description: "An overgrown garden.", Connections: []string{"hall"}},
		},
	}
}

func testRoles() []*RoleArchetype {
	return []*RoleArchetype{
		{Name: "Knight", Persona: "A stoic knight", ActivityCoefficient: 1.2},
		{Name: "Scholar", Persona: "A curious scholar", ActivityCoefficient: 0.8, StartingLocation: "garden"},
	}
}

func TestNewWorldState(t *testing.T) {
	ws := NewWorldState(testDefinition(), testRoles())

	if ws.SceneID != "scene_1" {
		t.Errorf("expected scene_1, got %q", ws.SceneID)
	}
	if ws.TimeOfDay != DefaultTimeOfDay {
		t.Errorf("expected default time of day, got %q", ws.TimeOfDay)
	}
	if len(ws.ActiveCharacters) != 2 || ws.ActiveCharacters[0] != "Knight" {
		t.Errorf("expected ordered active characters, got %v", ws.ActiveCharacters)
	}

	knight, ok := ws.Character("Knight")
	if !ok {
		t.Fatal("expected Knight in world state")
	}
	if knight.Location != "hall" {
		t.Errorf("expected Knight at first world location, got %q", knight.Location)
	}

	scholar, _ := ws.Character("Scholar")
	if scholar.Location != "garden" {
		t.Errorf("expected Scholar at starting location, got %q", scholar.Location)
	}
}

func TestCharactersAt(t *testing.T) {
	ws := NewWorldState(testDefinition(), testRoles())

	present := ws.CharactersAt("hall", "")
	if len(present) != 1 || present[0] != "Knight" {
		t.Errorf("expected only Knight in hall, got %v", present)
	}

	if present := ws.CharactersAt("hall", "Knight"); len(present) != 0 {
		t.Errorf("expected exclusion to remove Knight, got %v", present)
	}
}

func TestAppendEventEvictsOldest(t *testing.T) {
	ws := NewWorldState(testDefinition(), testRoles())

	ws.AppendEvent("first", 3)
	ws.AppendEvent("second", 3)
	ws.AppendEvent("third", 3)
	ws.AppendEvent("fourth", 3)

	if len(ws.RecentEvents) != 3 {
		t.Fatalf("expected 3 recent events, got %d", len(ws.RecentEvents))
	}
	if ws.RecentEvents[0] != "second" {
		t.Errorf("expected oldest retained event to be second, got %q", ws.RecentEvents[0])
	}

	last := ws.LastEvents(2)
	if len(last) != 2 || last[0] != "third" || last[1] != "fourth" {
		t.Errorf("expected last two events oldest first, got %v", last)
	}
}

func TestAddConditionsDeduplicates(t *testing.T) {
	cs := &CharacterState{}
	cs.AddConditions([]string{"wounded", "tired"})
	cs.AddConditions([]string{"wounded", "hungry"})

	if len(cs.Conditions) != 3 {
		t.Errorf("expected 3 unique conditions, got %v", cs.Conditions)
	}
}
