package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPSender is a minimal REST client for the chat transport. It posts plain
// text payloads; card markup stays with the rendering collaborator.
type HTTPSender struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPSender creates a new HTTPSender.
func NewHTTPSender(baseURL, token string) *HTTPSender {
	return &HTTPSender{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type messagePayload struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Name string `json:"name"`
}

func (s *HTTPSender) do(ctx context.Context, method, path string, query url.Values, msg Message) (*messageResponse, error) {
	body, err := json.Marshal(messagePayload{Text: msg.Text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chat request failed: status %d", resp.StatusCode)
	}

	var out messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	return &out, nil
}

// Create posts a new message into the space and returns its reference.
func (s *HTTPSender) Create(ctx context.Context, msg Message) (string, error) {
	query := url.Values{}
	if msg.ThreadKey != "" {
		query.Set("threadKey", msg.ThreadKey)
	}

	resp, err := s.do(ctx, http.MethodPost, "/"+msg.Space+"/messages", query, msg)
	if err != nil {
		return "", err
	}
	return resp.Name, nil
}

// Update edits the message behind ref in place.
func (s *HTTPSender) Update(ctx context.Context, ref string, msg Message) error {
	_, err := s.do(ctx, http.MethodPut, "/"+ref, nil, msg)
	return err
}
