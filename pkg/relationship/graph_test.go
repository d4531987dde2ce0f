package relationship

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestGetStateDefault(t *testing.T) {
	g := NewGraph()

	s, err := g.GetState("Alice", "Bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Trust != DefaultTrust || s.Affinity != 0.0 || s.Status != DefaultStatus {
		t.Errorf("expected default state, got %+v", s)
	}

	// Lookup must not create a record.
	if len(g.states) != 0 {
		t.Errorf("expected lookup to leave graph empty, got %d records", len(g.states))
	}
}

func TestGetStateSymmetric(t *testing.T) {
	g := NewGraph()
	if _, err := g.AdjustState("Alice", "Bob", 0.2, 0.1, "friendly"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ab, _ := g.GetState("Alice", "Bob")
	ba, _ := g.GetState("Bob", "Alice")
	if ab != ba {
		t.Errorf("expected symmetric lookup, got %+v vs %+v", ab, ba)
	}
	if ab.Trust != 0.7 {
		t.Errorf("expected trust 0.7, got %f", ab.Trust)
	}
	if ab.Status != "friendly" {
		t.Errorf("expected status friendly, got %q", ab.Status)
	}
}

func TestSelfRelationshipRejected(t *testing.T) {
	g := NewGraph()

	if _, err := g.GetState("Alice", "Alice"); !errors.Is(err, ErrSelfRelationship) {
		t.Errorf("expected ErrSelfRelationship, got %v", err)
	}
	if _, err := g.AdjustState("Alice", "Alice", 0.1, 0.1, ""); !errors.Is(err, ErrSelfRelationship) {
		t.Errorf("expected ErrSelfRelationship, got %v", err)
	}
	if err := g.SetState("Alice", "Alice", DefaultState()); !errors.Is(err, ErrSelfRelationship) {
		t.Errorf("expected ErrSelfRelationship, got %v", err)
	}
}

func TestAdjustStateClamping(t *testing.T) {
	g := NewGraph()

	s, err := g.AdjustState("Alice", "Bob", 5.0, -3.0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Trust != 1.0 {
		t.Errorf("expected trust clamped to 1.0, got %f", s.Trust)
	}
	if s.Affinity != -1.0 {
		t.Errorf("expected affinity clamped to -1.0, got %f", s.Affinity)
	}
	if s.Status != DefaultStatus {
		t.Errorf("expected empty status to keep prior, got %q", s.Status)
	}
}

func TestAdjustStateZeroDeltaIdempotent(t *testing.T) {
	g := NewGraph()
	first, _ := g.AdjustState("Alice", "Bob", 0.1, 0.05, "")

	second, _ := g.AdjustState("Alice", "Bob", 0, 0, "")
	if math.Abs(second.Trust-first.Trust) > 1e-9 || math.Abs(second.Affinity-first.Affinity) > 1e-9 {
		t.Errorf("expected zero delta to leave state unchanged, got %+v vs %+v", second, first)
	}
}

func TestSummaryFor(t *testing.T) {
	g := NewGraph()
	if _, err := g.AdjustState("Alice", "Bob", 0.1, 0.3, "friendly"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AdjustState("Alice", "Carol", -0.2, -0.6, "hostile"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AdjustState("Bob", "Carol", 0.0, 0.9, "devoted"); err != nil {
		t.Fatal(err)
	}

	summary := g.SummaryFor("Alice", 5)
	if !strings.HasPrefix(summary, "Your current relationships of note:") {
		t.Errorf("expected summary header, got %q", summary)
	}
	lines := strings.Split(summary, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 relationships, got %d lines", len(lines))
	}
	// Carol's |affinity| 0.6 outranks Bob's 0.3.
	if !strings.Contains(lines[1], "With Carol") {
		t.Errorf("expected Carol ranked first, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "With Bob") {
		t.Errorf("expected Bob ranked second, got %q", lines[2])
	}
	if !strings.Contains(summary, "Bob: Status is 'friendly'. Trust: 0.60/1.0. Affinity: 0.30/1.0.") {
		t.Errorf("unexpected line format: %q", summary)
	}
}

func TestSummaryForLimit(t *testing.T) {
	g := NewGraph()
	g.AdjustState("Alice", "Bob", 0.1, 0.3, "")
	g.AdjustState("Alice", "Carol", 0.1, 0.5, "")

	summary := g.SummaryFor("Alice", 1)
	lines := strings.Split(summary, "\n")
	if len(lines) != 2 {
		t.Errorf("expected header plus 1 relationship, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "With Carol") {
		t.Errorf("expected highest-affinity relationship kept, got %q", lines[1])
	}
}

func TestSummaryForNoRelationships(t *testing.T) {
	g := NewGraph()

	if got := g.SummaryFor("Alice", 5); got != NoRelationshipsSummary {
		t.Errorf("expected sentinel summary, got %q", got)
	}

	g.AdjustState("Alice", "Bob", 0.1, 0.1, "")
	if got := g.SummaryFor("Alice", 0); got != NoRelationshipsSummary {
		t.Errorf("expected sentinel summary for zero limit, got %q", got)
	}
	if got := g.SummaryFor("Carol", 5); got != NoRelationshipsSummary {
		t.Errorf("expected sentinel summary for uninvolved character, got %q", got)
	}
}
