// Package relationship tracks pairwise trust, affinity and status
// between characters. Pairs are unordered: the relationship between
// (A, B) and (B, A) is the same record.
package relationship

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSelfRelationship is returned when both sides of a pair are the
// same character. This is a programmer error, not a recoverable
// condition.
var ErrSelfRelationship = errors.New("relationship requires two distinct characters")

const (
	// DefaultTrust is the trust value for a pair with no history.
	DefaultTrust = 0.5

	// DefaultStatus is the status label for a pair with no history.
	DefaultStatus = "neutral"

	// NoRelationshipsSummary is returned by SummaryFor when a
	// character has no established relationships.
	NoRelationshipsSummary = "You have no significant established relationships yet."
)

// State describes one pairwise relationship. Trust is in [0,1],
// affinity in [-1,1].
type State struct {
	Trust    float64 `json:"trust"`
	Affinity float64 `json:"affinity"`
	Status   string  `json:"status"`
}

// DefaultState returns the state of a relationship with no history.
func DefaultState() State {
	return State{Trust: DefaultTrust, Affinity: 0.0, Status: DefaultStatus}
}

type pairKey struct {
	low, high string
}

func keyFor(a, b string) (pairKey, error) {
	if a == b {
		return pairKey{}, fmt.Errorf("%w: %q", ErrSelfRelationship, a)
	}
	if a < b {
		return pairKey{low: a, high: b}, nil
	}
	return pairKey{low: b, high: a}, nil
}

// Graph stores relationship states keyed by unordered character pairs.
// Records are created lazily on first adjustment and never deleted
// within a run.
type Graph struct {
	states map[pairKey]State
}

// NewGraph creates an empty relationship graph.
func NewGraph() *Graph {
	return &Graph{states: make(map[pairKey]State)}
}

// GetState returns the relationship between two characters, or the
// default state when none has been recorded. Lookup never mutates the
// graph.
func (g *Graph) GetState(a, b string) (State, error) {
	key, err := keyFor(a, b)
	if err != nil {
		return State{}, err
	}
	if s, ok := g.states[key]; ok {
		return s, nil
	}
	return DefaultState(), nil
}

// SetState replaces the relationship record between two characters.
func (g *Graph) SetState(a, b string, s State) error {
	key, err := keyFor(a, b)
	if err != nil {
		return err
	}
	g.states[key] = s
	return nil
}

// AdjustState applies deltas to the relationship between two
// characters, clamping trust to [0,1] and affinity to [-1,1].
// newStatus replaces the status label when non-empty. The adjusted
// state is written back and returned. Zero deltas with an empty
// status are a no-op on the stored values.
func (g *Graph) AdjustState(a, b string, trustDelta, affinityDelta float64, newStatus string) (State, error) {
	key, err := keyFor(a, b)
	if err != nil {
		return State{}, err
	}
	current, ok := g.states[key]
	if !ok {
		current = DefaultState()
	}

	current.Trust = clamp(current.Trust+trustDelta, 0.0, 1.0)
	current.Affinity = clamp(current.Affinity+affinityDelta, -1.0, 1.0)
	if newStatus != "" {
		current.Status = newStatus
	}
	g.states[key] = current
	return current, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type relation struct {
	other string
	state State
}

// SummaryFor renders a character's most significant relationships as
// human-readable lines for prompt injection. Relationships are ranked
// by descending absolute affinity, tie-broken by descending trust.
func (g *Graph) SummaryFor(characterID string, limit int) string {
	var relations []relation
	for key, state := range g.states {
		switch characterID {
		case key.low:
			relations = append(relations, relation{other: key.high, state: state})
		case key.high:
			relations = append(relations, relation{other: key.low, state: state})
		}
	}
	if len(relations) == 0 || limit <= 0 {
		return NoRelationshipsSummary
	}

	sort.Slice(relations, func(i, j int) bool {
		ai, aj := abs(relations[i].state.Affinity), abs(relations[j].state.Affinity)
		if ai != aj {
			return ai > aj
		}
		if relations[i].state.Trust != relations[j].state.Trust {
			return relations[i].state.Trust > relations[j].state.Trust
		}
		return relations[i].other < relations[j].other
	})

	if len(relations) > limit {
		relations = relations[:limit]
	}

	lines := []string{"Your current relationships of note:"}
	for _, rel := range relations {
		lines = append(lines, fmt.Sprintf("- With %s: Status is '%s'. Trust: %.2f/1.0. Affinity: %.2f/1.0.",
			rel.other, rel.state.Status, rel.state.Trust, rel.state.Affinity))
	}
	return strings.Join(lines, "\n")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
