// Package backend is the REST client for the remote school backend.
// Every request carries the stored bearer token, mirroring the request
// interceptor of earlier app builds.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"edunest/models"
	"edunest/store"

	"go.uber.org/zap"
)

// Client talks to the school backend. The zero value is not usable;
// construct with NewClient.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	State   store.KV
}

func NewClient(baseURL string, state store.KV) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
		State:   state,
	}
}

// do issues a request with the stored auth token attached as bearer
// credential and decodes a 2xx JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.State.Get(ctx, store.KeyAuthToken); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Debug("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("request %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// FetchClasses retrieves the class listing. Also used as the liveness
// probe for the stored token at startup.
func (c *Client) FetchClasses(ctx context.Context) ([]models.ClassRecord, error) {
	var classes []models.ClassRecord
	if err := c.do(ctx, http.MethodGet, "/api/MasterData/classes", nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// FetchSubjects retrieves the subject listing.
func (c *Client) FetchSubjects(ctx context.Context) ([]models.SubjectRecord, error) {
	var subjects []models.SubjectRecord
	if err := c.do(ctx, http.MethodGet, "/api/MasterData/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// RegisterPushToken transmits the device push token with its metadata.
func (c *Client) RegisterPushToken(ctx context.Context, req models.RegisterTokenRequest) error {
	return c.do(ctx, http.MethodPost, "/api/Notification/register-token", req, nil)
}

// SendTestPush asks the backend to push a test notification back at the
// given device token.
func (c *Client) SendTestPush(ctx context.Context, req models.TestPushRequest) error {
	return c.do(ctx, http.MethodPost, "/api/Notification/test", req, nil)
}

// FirstReset completes the forced first-login password reset.
func (c *Client) FirstReset(ctx context.Context, req models.FirstResetRequest) error {
	return c.do(ctx, http.MethodPost, "/Auth/first-reset", req, nil)
}
