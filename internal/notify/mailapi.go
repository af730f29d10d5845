package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIChannel delivers mail through a transactional-email HTTP API
// (POST /emails with a bearer token, the shape Resend and friends share).
type APIChannel struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
}

// NewAPIChannel creates an API-backed mail channel.
func NewAPIChannel(baseURL, apiKey, from string) *APIChannel {
	return &APIChannel{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type apiEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send submits the message to the API and treats any non-2xx status as a
// delivery failure.
func (c *APIChannel) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(apiEmailRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("mail api marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mail api request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail api http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail api error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
