package kycprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the external identity-verification vendor. The vendor hosts
// the actual document flow; we only create sessions and receive its webhook.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		token:   token,
	}
}

type createSessionRequest struct {
	ExternalUserID string `json:"external_user_id"`
}

type createSessionResponse struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// CreateSession registers a verification session keyed by our user id and
// returns the hosted verification URL. The vendor echoes the id back in its
// webhook as external_user_id.
func (c *Client) CreateSession(ctx context.Context, userID string) (string, error) {
	body, err := json.Marshal(createSessionRequest{ExternalUserID: userID})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("kyc provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kyc provider returned %d: %s", resp.StatusCode, string(data))
	}

	var out createSessionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to decode kyc provider response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("kyc provider returned no url: %s", out.Error)
	}

	return out.URL, nil
}
