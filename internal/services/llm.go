package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse indicates the LLM replied, but the content did
// not parse or did not match the expected shape. Callers recover via
// their documented fallbacks; this error never surfaces past the
// world model's public methods.
var ErrMalformedResponse = errors.New("malformed llm response")

// ChatMessage is a single message in an LLM conversation, in the
// OpenAI-compatible shape most providers expect.
type ChatMessage struct {
	Role    string `json:"role"` // "system" or "user"
	Content string `json:"content"`
}

const (
	ChatRoleSystem = "system"
	ChatRoleUser   = "user"
)

// LLMService is the text/JSON completion contract for the generation
// service. Implementations own their transport, timeouts, and API
// shapes; transport failures are returned as wrapped errors.
type LLMService interface {
	// CompleteText submits a prompt and returns the raw text reply.
	CompleteText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)

	// CompleteJSON submits a prompt expecting a JSON object reply.
	// Providers parse the reply, attempting a best-effort extraction
	// between the first '{' and the last '}' before returning
	// ErrMalformedResponse.
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (json.RawMessage, error)
}

func promptMessages(systemPrompt, userPrompt string) []ChatMessage {
	return []ChatMessage{
		{Role: ChatRoleSystem, Content: systemPrompt},
		{Role: ChatRoleUser, Content: userPrompt},
	}
}

// ExtractJSONObject parses s as a JSON object. If the direct parse
// fails, it retries on the substring between the first '{' and the
// last '}', which recovers objects wrapped in prose or code fences.
func ExtractJSONObject(s string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		candidate := trimmed[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, fmt.Errorf("%w: no JSON object found in %q", ErrMalformedResponse, truncate(trimmed, 120))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
