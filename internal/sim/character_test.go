package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/jwebster45206/ficworld/internal/services"
	"github.com/jwebster45206/ficworld/pkg/perception"
	"github.com/jwebster45206/ficworld/pkg/world"
)

func testProfile() *world.RoleArchetype {
	return &world.RoleArchetype{
		Name:                "Knight",
		Persona:             "A stoic knight",
		Goals:               []string{"protect the keep"},
		StartingMood:        world.MoodVector{Trust: 0.6},
		ActivityCoefficient: 1.2,
	}
}

func testView() perception.SubjectiveWorldView {
	return perception.SubjectiveWorldView{
		CharacterID:                  "Knight",
		PerceivedLocationID:          "hall",
		PerceivedLocationDescription: "You are in the great hall.",
		InferredContext:              "Something is wrong here.",
	}
}

func TestReflectMergesMood(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.SetJSONResponse(`{"updated_mood": {"fear": 0.8}, "internal_thought": "That sound came from the crypt."}`)
	agent := NewLLMCharacterAgent(testProfile(), mock, testLogger())

	r := agent.Reflect(context.Background(), testView(), "no memories", "no relationships")
	if r.InternalThought != "That sound came from the crypt." {
		t.Errorf("unexpected thought: %q", r.InternalThought)
	}
	if r.UpdatedMood.Fear != 0.8 {
		t.Errorf("expected patched fear 0.8, got %f", r.UpdatedMood.Fear)
	}
	if r.UpdatedMood.Trust != 0.6 {
		t.Errorf("expected unpatched trust retained, got %f", r.UpdatedMood.Trust)
	}
	if agent.Mood() != r.UpdatedMood {
		t.Error("expected agent's internal mood synced")
	}
}

func TestReflectFailureKeepsMood(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.SetJSONError(errors.New("service down"))
	agent := NewLLMCharacterAgent(testProfile(), mock, testLogger())

	r := agent.Reflect(context.Background(), testView(), "", "")
	if r.UpdatedMood != (world.MoodVector{Trust: 0.6}) {
		t.Errorf("expected mood unchanged, got %v", r.UpdatedMood)
	}
	if r.InternalThought != "(Knight is lost in thought.)" {
		t.Errorf("unexpected fallback thought: %q", r.InternalThought)
	}
}

func TestReflectUnparseableResponse(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.SetJSONResponse(`{"updated_mood": "very scared"}`)
	agent := NewLLMCharacterAgent(testProfile(), mock, testLogger())

	r := agent.Reflect(context.Background(), testView(), "", "")
	if r.UpdatedMood != (world.MoodVector{Trust: 0.6}) {
		t.Errorf("expected mood unchanged on bad shape, got %v", r.UpdatedMood)
	}
}

func TestPlanParsesResponse(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.SetJSONResponse(`{"action": "speak", "details": {"text": "Who goes there?", "target_character": "Scholar"}, "tone_of_action": "wary"}`)
	agent := NewLLMCharacterAgent(testProfile(), mock, testLogger())

	p := agent.Plan(context.Background(), testView(), Reflection{}, "", "", "")
	if p.Action != "speak" || p.Tone != "wary" {
		t.Errorf("unexpected plan: %+v", p)
	}
	if p.TargetCharacter() != "Scholar" {
		t.Errorf("expected target parsed, got %q", p.TargetCharacter())
	}
}

func TestPlanDefaultTone(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.SetJSONResponse(`{"action": "wait"}`)
	agent := NewLLMCharacterAgent(testProfile(), mock, testLogger())

	p := agent.Plan(context.Background(), testView(), Reflection{}, "", "", "")
	if p.Tone != "neutral" {
		t.Errorf("expected neutral default tone, got %q", p.Tone)
	}
}

func TestPlanFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*services.MockLLMService)
	}{
		{
			name:  "service failure",
			setup: func(m *services.MockLLMService) { m.SetJSONError(errors.New("service down")) },
		},
		{
			name:  "missing action",
			setup: func(m *services.MockLLMService) { m.SetJSONResponse(`{"details": {"text": "..."}}`) },
		},
		{
			name:  "blank action",
			setup: func(m *services.MockLLMService) { m.SetJSONResponse(`{"action": "   "}`) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := services.NewMockLLMService()
			tt.setup(mock)
			agent := NewLLMCharacterAgent(testProfile(), mock, testLogger())

			p := agent.Plan(context.Background(), testView(), Reflection{}, "", "", "")
			if p.Action != "speak" || p.Tone != "confused" {
				t.Errorf("expected hesitation fallback, got %+v", p)
			}
			if p.Details["text"] != "I... hmm, let me gather my thoughts." {
				t.Errorf("unexpected fallback text: %v", p.Details["text"])
			}
		})
	}
}
