package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quizmed/leadgen/internal/entity"
)

// Client asks an LLM through the OpenRouter chat-completions API for a
// short clinical read of a lead. Strictly decorative: callers must cope
// with an empty answer.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://openrouter.ai/api/v1",
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

func (c *Client) SummarizeLead(ctx context.Context, lead *entity.Lead) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openrouter is not configured")
	}

	prompt := fmt.Sprintf(
		"A patient named %s completed the %s assessment and scored %d (%s). "+
			"In two sentences, summarize what this result suggests and how urgently the practice should follow up. "+
			"Do not give a diagnosis.",
		lead.Name, lead.QuizType, lead.Score, lead.Severity)

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an assistant that writes brief lead summaries for a medical practice dashboard."},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 150,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openrouter failed (status %d): %s", resp.StatusCode, string(body))
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("openrouter decode failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}

	return response.Choices[0].Message.Content, nil
}
