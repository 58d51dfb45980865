package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/config"
)

// ErrAIEmptyResponse is returned when the model replies with no content.
var ErrAIEmptyResponse = errors.New("empty completion response")

// AIService is a minimal client for an OpenAI-compatible chat completions
// endpoint. Non-streaming: feedback generation runs in a background worker,
// so latency is paid off the request path.
type AIService struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	log        zerolog.Logger
}

// NewAIService creates a new AIService.
func NewAIService(cfg *config.Config, log zerolog.Logger) *AIService {
	return &AIService{
		httpClient: &http.Client{Timeout: cfg.AITimeout},
		baseURL:    strings.TrimRight(cfg.AIBaseURL, "/"),
		apiKey:     cfg.AIAPIKey,
		model:      cfg.AIModel,
		log:        log.With().Str("component", "ai_service").Logger(),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends a single-turn prompt and returns the model's reply text.
func (s *AIService) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("completion failed (status %d): %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrAIEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}
