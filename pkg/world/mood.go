package world

import "fmt"

// MoodVector is a character's emotional state as six core emotions,
// each on a scale of 0.0 to 1.0. It is used both for live character
// state and for mood-at-encoding snapshots in memories.
type MoodVector struct {
	Joy      float64 `json:"joy" yaml:"joy"`
	Fear     float64 `json:"fear" yaml:"fear"`
	Anger    float64 `json:"anger" yaml:"anger"`
	Sadness  float64 `json:"sadness" yaml:"sadness"`
	Surprise float64 `json:"surprise" yaml:"surprise"`
	Trust    float64 `json:"trust" yaml:"trust"`
}

// MoodPatch is a partial mood update. Nil fields leave the
// corresponding component unchanged.
type MoodPatch struct {
	Joy      *float64 `json:"joy,omitempty"`
	Fear     *float64 `json:"fear,omitempty"`
	Anger    *float64 `json:"anger,omitempty"`
	Sadness  *float64 `json:"sadness,omitempty"`
	Surprise *float64 `json:"surprise,omitempty"`
	Trust    *float64 `json:"trust,omitempty"`
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// Clamped returns a copy of the vector with every component forced
// into [0,1].
func (m MoodVector) Clamped() MoodVector {
	return MoodVector{
		Joy:      clamp01(m.Joy),
		Fear:     clamp01(m.Fear),
		Anger:    clamp01(m.Anger),
		Sadness:  clamp01(m.Sadness),
		Surprise: clamp01(m.Surprise),
		Trust:    clamp01(m.Trust),
	}
}

// Merge applies a partial update, keeping prior values for nil fields.
// The result is clamped.
func (m MoodVector) Merge(p MoodPatch) MoodVector {
	out := m
	if p.Joy != nil {
		out.Joy = *p.Joy
	}
	if p.Fear != nil {
		out.Fear = *p.Fear
	}
	if p.Anger != nil {
		out.Anger = *p.Anger
	}
	if p.Sadness != nil {
		out.Sadness = *p.Sadness
	}
	if p.Surprise != nil {
		out.Surprise = *p.Surprise
	}
	if p.Trust != nil {
		out.Trust = *p.Trust
	}
	return out.Clamped()
}

// Dominant returns the top two emotions as a short human-readable
// string, e.g. "fear: 0.8, surprise: 0.5". Used in prompts.
func (m MoodVector) Dominant() string {
	type comp struct {
		name  string
		value float64
	}
	comps := []comp{
		{"joy", m.Joy},
		{"fear", m.Fear},
		{"anger", m.Anger},
		{"sadness", m.Sadness},
		{"surprise", m.Surprise},
		{"trust", m.Trust},
	}
	first, second := 0, 1
	if comps[second].value > comps[first].value {
		first, second = second, first
	}
	for i := 2; i < len(comps); i++ {
		if comps[i].value > comps[first].value {
			second = first
			first = i
		} else if comps[i].value > comps[second].value {
			second = i
		}
	}
	return fmt.Sprintf("%s: %.1f, %s: %.1f",
		comps[first].name, comps[first].value,
		comps[second].name, comps[second].value)
}

func (m MoodVector) String() string {
	return fmt.Sprintf("joy=%.2f fear=%.2f anger=%.2f sadness=%.2f surprise=%.2f trust=%.2f",
		m.Joy, m.Fear, m.Anger, m.Sadness, m.Surprise, m.Trust)
}
