package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "clean object",
			input: `{"action": "speak"}`,
			want:  `{"action": "speak"}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  {\"a\": 1}\n",
			want:  `{"a": 1}`,
		},
		{
			name:  "object wrapped in prose",
			input: "Here is the result:\n{\"a\": 1}\nHope that helps!",
			want:  `{"a": 1}`,
		},
		{
			name:  "code fence",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:    "no object at all",
			input:   "I cannot answer that.",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			input:   `{"a": `,
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractJSONObject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockLLMServiceDefaults(t *testing.T) {
	mock := NewMockLLMService()
	ctx := context.Background()

	text, err := mock.CompleteText(ctx, "system", "user", 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Mock response" {
		t.Errorf("expected default mock response, got %q", text)
	}

	raw, err := mock.CompleteJSON(ctx, "system", "user", 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !json.Valid(raw) {
		t.Errorf("expected valid JSON default, got %q", raw)
	}

	if len(mock.TextCalls) != 1 || len(mock.JSONCalls) != 1 {
		t.Errorf("expected call tracking, got %d text and %d json calls", len(mock.TextCalls), len(mock.JSONCalls))
	}
	if mock.TextCalls[0].UserPrompt != "user" || mock.TextCalls[0].Temperature != 0.5 {
		t.Errorf("unexpected recorded call: %+v", mock.TextCalls[0])
	}
}

func TestMockLLMServiceScripting(t *testing.T) {
	mock := NewMockLLMService()
	ctx := context.Background()

	mock.SetTextResponse("yes")
	if text, _ := mock.CompleteText(ctx, "s", "u", 0.2); text != "yes" {
		t.Errorf("expected scripted response, got %q", text)
	}

	wantErr := errors.New("service down")
	mock.SetTextError(wantErr)
	if _, err := mock.CompleteText(ctx, "s", "u", 0.2); !errors.Is(err, wantErr) {
		t.Errorf("expected scripted error, got %v", err)
	}

	mock.Reset()
	if text, _ := mock.CompleteText(ctx, "s", "u", 0.2); text != "Mock response" {
		t.Errorf("expected default after reset, got %q", text)
	}
	if len(mock.TextCalls) != 1 {
		t.Errorf("expected call tracking cleared by reset, got %d", len(mock.TextCalls))
	}
}
