// Package memory holds per-character experience logs: a bounded
// short-term ring per actor, an unbounded long-term log, and one
// summary per completed scene.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/ficworld/pkg/world"
)

const (
	// DefaultShortTermCapacity bounds each actor's short-term ring.
	DefaultShortTermCapacity = 10

	// NoSummariesSentinel is returned by RecentSceneSummaries when no
	// scene has been summarized yet.
	NoSummariesSentinel = "No scene summaries are available yet."

	// summarySeparator joins scene summaries in prompt context.
	summarySeparator = "\n---\n"
)

// Entry is one remembered event. Entries are immutable once created.
type Entry struct {
	ID           uuid.UUID        `json:"id"`
	Timestamp    time.Time        `json:"timestamp"`
	Actor        string           `json:"actor"`
	Description  string           `json:"description"`
	MoodAtEncode world.MoodVector `json:"mood_at_encoding"`
	Significance float64          `json:"significance"`
}

// Store is the in-memory memory manager for one simulation run.
// Retrieval is recency-based; semantic or mood-weighted retrieval can
// replace it behind the same contract.
type Store struct {
	shortCap  int
	longTerm  []Entry
	shortTerm map[string][]Entry
	summaries map[int]string
}

// NewStore creates a store with the default short-term capacity.
func NewStore() *Store {
	return NewStoreWithCapacity(DefaultShortTermCapacity)
}

// NewStoreWithCapacity creates a store with a custom short-term
// capacity per actor. Non-positive capacities fall back to the
// default.
func NewStoreWithCapacity(shortCap int) *Store {
	if shortCap <= 0 {
		shortCap = DefaultShortTermCapacity
	}
	return &Store{
		shortCap:  shortCap,
		shortTerm: make(map[string][]Entry),
		summaries: make(map[int]string),
	}
}

// Remember appends an event to the long-term log and the actor's
// short-term ring, evicting the ring's oldest entry beyond capacity.
func (s *Store) Remember(actor, description string, moodAtEncoding world.MoodVector, significance float64) Entry {
	entry := Entry{
		ID:           uuid.New(),
		Timestamp:    time.Now().UTC(),
		Actor:        actor,
		Description:  description,
		MoodAtEncode: moodAtEncoding,
		Significance: significance,
	}
	s.longTerm = append(s.longTerm, entry)

	ring := append(s.shortTerm[actor], entry)
	if len(ring) > s.shortCap {
		ring = ring[len(ring)-s.shortCap:]
	}
	s.shortTerm[actor] = ring
	return entry
}

// Retrieve returns up to limit of the actor's memories from the
// long-term log, most recent first. It does not mutate the store.
func (s *Store) Retrieve(actor string, limit int) []Entry {
	if limit <= 0 {
		return nil
	}
	var out []Entry
	for i := len(s.longTerm) - 1; i >= 0 && len(out) < limit; i-- {
		if s.longTerm[i].Actor == actor {
			out = append(out, s.longTerm[i])
		}
	}
	return out
}

// ShortTerm returns a copy of the actor's short-term ring, oldest
// first.
func (s *Store) ShortTerm(actor string) []Entry {
	ring := s.shortTerm[actor]
	out := make([]Entry, len(ring))
	copy(out, ring)
	return out
}

// SummariseScene derives and stores a summary for a completed scene.
// An empty log produces no summary and stores nothing; ok reports
// whether a summary was created. Re-summarizing a scene number
// overwrites the prior summary.
func (s *Store) SummariseScene(sceneNumber int, sceneLog []world.LogEntry) (summary string, ok bool) {
	if len(sceneLog) == 0 {
		return "", false
	}
	lines := make([]string, 0, len(sceneLog))
	for _, entry := range sceneLog {
		actor := entry.Actor
		if actor == "" {
			actor = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("Event by %s: %s", actor, entry.Outcome))
	}
	summary = strings.Join(lines, "\n")
	s.summaries[sceneNumber] = summary
	return summary, true
}

// StoreSceneSummary records an externally produced summary (e.g. one
// written by the generation service) for a scene number.
func (s *Store) StoreSceneSummary(sceneNumber int, summary string) {
	s.summaries[sceneNumber] = summary
}

// SceneSummary returns the stored summary for a scene number.
func (s *Store) SceneSummary(sceneNumber int) (string, bool) {
	summary, ok := s.summaries[sceneNumber]
	return summary, ok
}

// RecentSceneSummaries returns the last count scene summaries oldest
// first, each tagged with its scene number. Returns the documented
// sentinel when no summaries exist or count is zero.
func (s *Store) RecentSceneSummaries(count int) string {
	if count <= 0 || len(s.summaries) == 0 {
		return NoSummariesSentinel
	}
	numbers := make([]int, 0, len(s.summaries))
	for n := range s.summaries {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	if len(numbers) > count {
		numbers = numbers[len(numbers)-count:]
	}
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		parts = append(parts, fmt.Sprintf("Scene %d:\n%s", n, s.summaries[n]))
	}
	return strings.Join(parts, summarySeparator)
}

// Reset clears all memories and summaries.
func (s *Store) Reset() {
	s.longTerm = nil
	s.shortTerm = make(map[string][]Entry)
	s.summaries = make(map[int]string)
}
