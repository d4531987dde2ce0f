package world

import (
	"fmt"
	"sort"
	"strings"
)

// Plan is a character's structured public action, produced by the
// character agent's planning step.
type Plan struct {
	Action  string         `json:"action"`
	Details map[string]any `json:"details,omitempty"`
	Tone    string         `json:"tone_of_action,omitempty"`
}

// targetKeys are the detail keys a plan may use to name another
// character as the target of the action.
var targetKeys = []string{"target_character", "target_char_id", "target", "recipient"}

// TargetCharacter returns the character named as the target of the
// plan, or "" when the plan has no character target.
func (p Plan) TargetCharacter() string {
	for _, key := range targetKeys {
		if v, ok := p.Details[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// Describe renders the plan as plain text for prompt injection.
// Detail keys are emitted in sorted order so output is stable.
func (p Plan) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Action: %s", p.Action)
	keys := make([]string, 0, len(p.Details))
	for k := range p.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "\n%s: %v", k, p.Details[k])
	}
	tone := p.Tone
	if tone == "" {
		tone = "neutral"
	}
	fmt.Fprintf(&sb, "\nTone: %s", tone)
	return sb.String()
}
