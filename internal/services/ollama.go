package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// OllamaService implements LLMService against a self-hosted Ollama
// instance.
type OllamaService struct {
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOllamaService creates a new Ollama service instance
func NewOllamaService(baseURL string, modelName string, logger *slog.Logger) *OllamaService {
	return &OllamaService{
		baseURL:   baseURL,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

func (s *OllamaService) chat(ctx context.Context, messages []ChatMessage, temperature float64, format string) (string, error) {
	reqBody := ollamaChatRequest{
		Model:    s.modelName,
		Messages: messages,
		Stream:   false,
		Format:   format,
		Options:  ollamaOptions{Temperature: temperature},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := s.baseURL + "/api/chat"
	s.logger.Debug("Making Ollama chat request",
		"url", url,
		"model", s.modelName,
		"message_count", len(messages))

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Ollama API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body))
		return "", fmt.Errorf("ollama API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if ollamaResp.Error != "" {
		return "", fmt.Errorf("ollama API error: %s", ollamaResp.Error)
	}

	return ollamaResp.Message.Content, nil
}

// CompleteText generates a plain text completion using Ollama
func (s *OllamaService) CompleteText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	return s.chat(ctx, promptMessages(systemPrompt, userPrompt), temperature, "")
}

// CompleteJSON generates a completion in Ollama's JSON mode
func (s *OllamaService) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (json.RawMessage, error) {
	content, err := s.chat(ctx, promptMessages(systemPrompt, userPrompt), temperature, "json")
	if err != nil {
		return nil, err
	}
	return ExtractJSONObject(content)
}

var _ LLMService = (*OllamaService)(nil)
