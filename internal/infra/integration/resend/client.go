package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client sends transactional email through the Resend HTTP API.
type Client struct {
	apiKey  string
	from    string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, from string) *Client {
	return &Client{
		apiKey:  apiKey,
		from:    from,
		baseURL: "https://api.resend.com",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func NewClientWithBaseURL(apiKey, from, baseURL string) *Client {
	c := NewClient(apiKey, from)
	c.baseURL = baseURL
	return c
}

// Send implements the email service contract and returns the Resend
// message id.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("resend is not configured")
	}

	payload := sendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/emails", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("resend send failed (status %d): %s", resp.StatusCode, string(body))
	}

	var response sendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("resend decode failed: %w", err)
	}

	return response.ID, nil
}
