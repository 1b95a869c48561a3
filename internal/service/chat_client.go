package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ChatClient is the narrow interface to the external AI completion
// service. Prompt construction and model selection live on that side.
type ChatClient interface {
	Complete(ctx context.Context, userID, message string) (string, error)
}

type chatClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewChatClient creates an HTTP ChatClient against the AI service.
func NewChatClient(baseURL string, timeout time.Duration, logger zerolog.Logger) ChatClient {
	return &chatClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("service", "ChatClient").Logger(),
	}
}

type completionRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type completionResponse struct {
	Reply string `json:"reply"`
}

func (c *chatClient) Complete(ctx context.Context, userID, message string) (string, error) {
	body, err := json.Marshal(completionRequest{UserID: userID, Message: message})
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	url := fmt.Sprintf("%s/chat", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling AI service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			c.logger.Warn().Err(readErr).Int("status_code", resp.StatusCode).Msg("Failed to read error body from AI service")
			return "", fmt.Errorf("AI service returned status %d", resp.StatusCode)
		}
		c.logger.Error().Int("status_code", resp.StatusCode).Str("error_body", string(bodyBytes)).Msg("AI service returned error")
		return "", fmt.Errorf("AI service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	return out.Reply, nil
}
