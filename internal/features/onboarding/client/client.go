package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	authmodels "crypto-ramp-backend/internal/features/auth/models"
	"crypto-ramp-backend/internal/features/onboarding/service"
	usermodels "crypto-ramp-backend/internal/features/user/models"
)

// Client is the HTTP implementation of the client core's backend interfaces
// (Directory, SessionValidator, LinkRequester), pointed at the /api/v1
// surface of this service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (c *Client) FetchUser(ctx context.Context, id string) (*usermodels.User, error) {
	var user usermodels.User
	if err := c.getJSON(ctx, "/users/"+id, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ValidateSession(ctx context.Context, session *authmodels.Session) (*usermodels.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/session/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session validation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, service.ErrSessionRejected
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session validation returned %d", resp.StatusCode)
	}

	var user usermodels.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) RequestLink(ctx context.Context, userID string) (string, error) {
	body, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/kyc/generate-link", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate-link request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate-link returned %d: %s", resp.StatusCode, string(data))
	}

	var out struct {
		VerificationURL string `json:"verification_url"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", err
	}
	return out.VerificationURL, nil
}

// FetchLoginGrant polls the external login-confirmation flow by its opaque
// id; it feeds the same Poller machine as the verification watcher, with a
// different predicate.
func (c *Client) FetchLoginGrant(ctx context.Context, id string) (*authmodels.LoginGrant, error) {
	var grant authmodels.LoginGrant
	if err := c.getJSON(ctx, "/login-grants/"+id, "", &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (c *Client) SubmitBankDetails(ctx context.Context, userID string, details *usermodels.BankDetails) (*usermodels.User, error) {
	body, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/users/"+userID+"/bank-details", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bank details submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bank details submit returned %d", resp.StatusCode)
	}

	var user usermodels.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) getJSON(ctx context.Context, path, bearer string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
