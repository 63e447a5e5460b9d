package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"helpdesk-insights/internal/common/config"
	apierrors "helpdesk-insights/internal/common/errors"
	"helpdesk-insights/internal/models"
)

// Completer is the abstract completion capability. An empty string with a
// nil error means "no live answer available" and triggers the fallback path.
type Completer interface {
	Complete(ctx context.Context, turns []models.ChatTurn) (string, error)
}

// HTTPCompleter calls an OpenAI-style chat-completions endpoint.
type HTTPCompleter struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewHTTPCompleter(cfg config.CompletionConfig) *HTTPCompleter {
	return &HTTPCompleter{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		},
	}
}

func (c *HTTPCompleter) Complete(ctx context.Context, turns []models.ChatTurn) (string, error) {
	requestBody := map[string]interface{}{
		"model":       c.model,
		"messages":    turns,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
	}

	body, _ := json.Marshal(requestBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", apierrors.NewCompletionError(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewCompletionError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apierrors.NewCompletionError("status " + resp.Status)
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", apierrors.NewCompletionError("decode error: " + err.Error())
	}

	if len(apiResponse.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(apiResponse.Choices[0].Message.Content), nil
}
