package world

import "testing"

func TestPlanTargetCharacter(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		want string
	}{
		{
			name: "target_character key",
			plan: Plan{Action: "speak", Details: map[string]any{"target_character": "Scholar"}},
			want: "Scholar",
		},
		{
			name: "recipient key",
			plan: Plan{Action: "give", Details: map[string]any{"recipient": "Knight"}},
			want: "Knight",
		},
		{
			name: "preferred key wins",
			plan: Plan{Action: "speak", Details: map[string]any{"target_character": "Scholar", "recipient": "Knight"}},
			want: "Scholar",
		},
		{
			name: "non-string value ignored",
			plan: Plan{Action: "speak", Details: map[string]any{"target": 7}},
			want: "",
		},
		{
			name: "no target",
			plan: Plan{Action: "wait"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plan.TargetCharacter(); got != tt.want {
				t.Errorf("TargetCharacter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlanDescribe(t *testing.T) {
	p := Plan{
		Action:  "speak",
		Details: map[string]any{"text": "Hello", "target_character": "Scholar"},
		Tone:    "warm",
	}
	want := "Action: speak\ntarget_character: Scholar\ntext: Hello\nTone: warm"
	if got := p.Describe(); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestPlanDescribeDefaultTone(t *testing.T) {
	p := Plan{Action: "wait"}
	want := "Action: wait\nTone: neutral"
	if got := p.Describe(); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
