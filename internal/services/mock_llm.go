package services

import (
	"context"
	"encoding/json"
	"sync"
)

// MockLLMService is a mock implementation of LLMService for testing
type MockLLMService struct {
	CompleteTextFunc func(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
	CompleteJSONFunc func(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (json.RawMessage, error)

	// Track calls for testing
	TextCalls []PromptCall
	JSONCalls []PromptCall

	mu sync.Mutex // protects all fields above
}

// PromptCall records the prompts of one completion call.
type PromptCall struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
}

// NewMockLLMService creates a new mock LLM service
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{
		TextCalls: make([]PromptCall, 0),
		JSONCalls: make([]PromptCall, 0),
	}
}

// CompleteText mocks text completion
func (m *MockLLMService) CompleteText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TextCalls = append(m.TextCalls, PromptCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt, Temperature: temperature})

	if m.CompleteTextFunc != nil {
		return m.CompleteTextFunc(ctx, systemPrompt, userPrompt, temperature)
	}
	return "Mock response", nil
}

// CompleteJSON mocks JSON completion
func (m *MockLLMService) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.JSONCalls = append(m.JSONCalls, PromptCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt, Temperature: temperature})

	if m.CompleteJSONFunc != nil {
		return m.CompleteJSONFunc(ctx, systemPrompt, userPrompt, temperature)
	}
	return json.RawMessage(`{}`), nil
}

// SetTextResponse sets up the mock to return a fixed text response
func (m *MockLLMService) SetTextResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteTextFunc = func(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
		return response, nil
	}
}

// SetTextError sets up the mock to return an error on CompleteText
func (m *MockLLMService) SetTextError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteTextFunc = func(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
		return "", err
	}
}

// SetJSONResponse sets up the mock to return a fixed JSON response
func (m *MockLLMService) SetJSONResponse(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteJSONFunc = func(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (json.RawMessage, error) {
		return json.RawMessage(raw), nil
	}
}

// SetJSONError sets up the mock to return an error on CompleteJSON
func (m *MockLLMService) SetJSONError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteJSONFunc = func(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (json.RawMessage, error) {
		return nil, err
	}
}

// Reset clears all call tracking and scripted behavior
func (m *MockLLMService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteTextFunc = nil
	m.CompleteJSONFunc = nil
	m.TextCalls = make([]PromptCall, 0)
	m.JSONCalls = make([]PromptCall, 0)
}

var _ LLMService = (*MockLLMService)(nil)
