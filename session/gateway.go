// Package session implements the client for the server-side play-session
// admission protocol. Admission gates monetization: the server either grants
// a play session immediately or demands that an advertisement be shown first.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"DriftFM/auth"
)

// Admission-policy errors. These are the only two gateway failures the
// coordinator reacts to; everything else is treated as a transient transport
// failure and playback proceeds (fail-open).
var (
	ErrAdRequired   = errors.New("ad required before playback")
	ErrAdInProgress = errors.New("ad already in progress")
)

// Gateway is the play-session admission client used by the coordinator.
type Gateway interface {
	// StartSession requests admission to play a track and returns the
	// session id on success.
	StartSession(ctx context.Context, trackID int64) (string, error)
	// ConfirmSession reports that a session reached the counted threshold.
	ConfirmSession(ctx context.Context, sessionID string) error
}

// HTTPGateway talks to the admission backend over HTTP.
type HTTPGateway struct {
	BaseURL    string
	HTTPClient *http.Client
	tokens     *auth.TokenHolder
}

// NewHTTPGateway creates a gateway client against the given base URL.
func NewHTTPGateway(baseURL string, tokens *auth.TokenHolder) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		tokens: tokens,
	}
}

// StartSession calls POST /play-sessions/start.
func (g *HTTPGateway) StartSession(ctx context.Context, trackID int64) (string, error) {
	payload, err := json.Marshal(map[string]int64{"trackId": trackID})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/play-sessions/start", g.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	g.setAuth(req)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("start session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var result struct {
			SessionID string `json:"sessionId"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return "", fmt.Errorf("failed to decode start session response: %w", err)
		}
		if result.SessionID == "" {
			return "", fmt.Errorf("start session response missing session id")
		}
		return result.SessionID, nil
	}

	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
		switch apiErr.Code {
		case "AD_REQUIRED":
			return "", ErrAdRequired
		case "AD_IN_PROGRESS":
			return "", ErrAdInProgress
		}
	}

	return "", fmt.Errorf("start session returned status %d", resp.StatusCode)
}

// ConfirmSession calls POST /play-sessions/{id}/confirm. Callers treat this
// as fire-and-forget; failures are logged upstream, never retried.
func (g *HTTPGateway) ConfirmSession(ctx context.Context, sessionID string) error {
	url := fmt.Sprintf("%s/play-sessions/%s/confirm", g.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	g.setAuth(req)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("confirm session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("confirm session returned status %d", resp.StatusCode)
	}
	return nil
}

func (g *HTTPGateway) setAuth(req *http.Request) {
	if g.tokens == nil {
		return
	}
	if token := g.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
