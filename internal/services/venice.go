package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	veniceBaseURL = "https://api.venice.ai/api/v1"
	msgNoResponse = "(no response)"

	DefaultVeniceMaxTokens = 1024
)

// VeniceService implements LLMService against the Venice AI
// OpenAI-compatible chat completions API.
type VeniceService struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
}

type veniceResponseFormat struct {
	Type string `json:"type"`
}

type veniceParameters struct {
	IncludeVeniceSystemPrompt bool   `json:"include_venice_system_prompt"`
	EnableWebSearch           string `json:"enable_web_search"`
}

// veniceChatRequest represents the request structure for Venice AI chat completions
type veniceChatRequest struct {
	Model            string                `json:"model"`
	Messages         []ChatMessage         `json:"messages"`
	Temperature      float64               `json:"temperature"`
	MaxTokens        int                   `json:"max_tokens,omitempty"`
	Stream           bool                  `json:"stream"`
	ResponseFormat   *veniceResponseFormat `json:"response_format,omitempty"`
	VeniceParameters veniceParameters      `json:"venice_parameters"`
}

// veniceChatResponse represents the response structure for Venice AI chat completions
type veniceChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewVeniceService creates a new Venice AI service
func NewVeniceService(apiKey string, modelName string) *VeniceService {
	return &VeniceService{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// chatCompletion makes a chat completion request to Venice AI
func (v *VeniceService) chatCompletion(ctx context.Context, messages []ChatMessage, temperature float64, responseFormat *veniceResponseFormat) (string, error) {
	veniceReq := veniceChatRequest{
		Model:          v.modelName,
		Messages:       messages,
		Temperature:    temperature,
		MaxTokens:      DefaultVeniceMaxTokens,
		Stream:         false,
		ResponseFormat: responseFormat,
		VeniceParameters: veniceParameters{
			IncludeVeniceSystemPrompt: false,
			EnableWebSearch:           "off",
		},
	}

	reqBody, err := json.Marshal(veniceReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", veniceBaseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var veniceResp veniceChatResponse
	if err := json.Unmarshal(body, &veniceResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if veniceResp.Error != nil {
		return "", fmt.Errorf("API error: %s", veniceResp.Error.Message)
	}

	if len(veniceResp.Choices) == 0 {
		return msgNoResponse, nil
	}

	return veniceResp.Choices[0].Message.Content, nil
}

// CompleteText generates a plain text completion using Venice AI
func (v *VeniceService) CompleteText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	return v.chatCompletion(ctx, promptMessages(systemPrompt, userPrompt), temperature, nil)
}

// CompleteJSON generates a completion constrained to a JSON object
func (v *VeniceService) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (json.RawMessage, error) {
	content, err := v.chatCompletion(ctx, promptMessages(systemPrompt, userPrompt), temperature, &veniceResponseFormat{Type: "json_object"})
	if err != nil {
		return nil, err
	}
	return ExtractJSONObject(content)
}

var _ LLMService = (*VeniceService)(nil)
