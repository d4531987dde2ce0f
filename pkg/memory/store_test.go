package memory

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jwebster45206/ficworld/pkg/world"
)

func TestShortTermCapacity(t *testing.T) {
	s := NewStoreWithCapacity(5)

	for i := 0; i < 8; i++ {
		s.Remember("Knight", fmt.Sprintf("event %d", i), world.MoodVector{}, 0.5)
	}

	ring := s.ShortTerm("Knight")
	if len(ring) != 5 {
		t.Fatalf("expected ring capped at 5, got %d", len(ring))
	}
	if ring[0].Description != "event 3" {
		t.Errorf("expected oldest retained entry to be event 3, got %q", ring[0].Description)
	}
	if ring[4].Description != "event 7" {
		t.Errorf("expected newest entry last, got %q", ring[4].Description)
	}
}

func TestRetrieveMostRecentFirst(t *testing.T) {
	s := NewStore()
	s.Remember("Knight", "first", world.MoodVector{}, 0.5)
	s.Remember("Scholar", "other actor", world.MoodVector{}, 0.5)
	s.Remember("Knight", "second", world.MoodVector{}, 0.5)
	s.Remember("Knight", "third", world.MoodVector{}, 0.5)

	got := s.Retrieve("Knight", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Description != "third" || got[1].Description != "second" {
		t.Errorf("expected most recent first, got %q then %q", got[0].Description, got[1].Description)
	}

	// Retrieval must not consume memories.
	if again := s.Retrieve("Knight", 5); len(again) != 3 {
		t.Errorf("expected all 3 memories still present, got %d", len(again))
	}
}

func TestRetrieveZeroLimit(t *testing.T) {
	s := NewStore()
	s.Remember("Knight", "event", world.MoodVector{}, 0.5)

	if got := s.Retrieve("Knight", 0); got != nil {
		t.Errorf("expected nil for zero limit, got %v", got)
	}
}

func TestSummariseScene(t *testing.T) {
	s := NewStore()

	if _, ok := s.SummariseScene(1, nil); ok {
		t.Error("expected no summary for empty log")
	}
	if _, ok := s.SceneSummary(1); ok {
		t.Error("expected nothing stored for empty log")
	}

	log := []world.LogEntry{
		{Actor: "Knight", Outcome: "Knight draws his sword."},
		{Actor: "", Outcome: "The wind howls."},
	}
	summary, ok := s.SummariseScene(1, log)
	if !ok {
		t.Fatal("expected summary for non-empty log")
	}
	want := "Event by Knight: Knight draws his sword.\nEvent by Unknown: The wind howls."
	if summary != want {
		t.Errorf("summary = %q, want %q", summary, want)
	}

	stored, ok := s.SceneSummary(1)
	if !ok || stored != summary {
		t.Errorf("expected summary stored, got %q", stored)
	}
}

func TestRecentSceneSummaries(t *testing.T) {
	s := NewStore()

	if got := s.RecentSceneSummaries(3); got != NoSummariesSentinel {
		t.Errorf("expected sentinel with no summaries, got %q", got)
	}

	s.StoreSceneSummary(1, "the opening")
	s.StoreSceneSummary(2, "the middle")
	s.StoreSceneSummary(3, "the reveal")

	got := s.RecentSceneSummaries(2)
	if strings.Contains(got, "Scene 1") {
		t.Errorf("expected oldest summary dropped, got %q", got)
	}
	if !strings.HasPrefix(got, "Scene 2:\nthe middle") {
		t.Errorf("expected oldest-first ordering, got %q", got)
	}
	if !strings.Contains(got, "---") {
		t.Errorf("expected separator between summaries, got %q", got)
	}

	if got := s.RecentSceneSummaries(0); got != NoSummariesSentinel {
		t.Errorf("expected sentinel for zero count, got %q", got)
	}
}

func TestReset(t *testing.T) {
	s := NewStore()
	s.Remember("Knight", "event", world.MoodVector{}, 0.5)
	s.StoreSceneSummary(1, "summary")

	s.Reset()

	if got := s.Retrieve("Knight", 5); len(got) != 0 {
		t.Errorf("expected no memories after reset, got %d", len(got))
	}
	if got := s.RecentSceneSummaries(3); got != NoSummariesSentinel {
		t.Errorf("expected sentinel after reset, got %q", got)
	}
}
