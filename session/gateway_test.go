package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"DriftFM/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSessionSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]int64

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"sessionId": "ps-123"})
	}))
	defer ts.Close()

	auth.Init("test-secret")
	tokens := auth.NewTokenHolder()
	token, err := auth.GenerateToken(1, "listener")
	require.NoError(t, err)
	require.NoError(t, tokens.Set(token))

	g := NewHTTPGateway(ts.URL, tokens)
	sessionID, err := g.StartSession(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "ps-123", sessionID)
	assert.Equal(t, "/play-sessions/start", gotPath)
	assert.Equal(t, "Bearer "+token, gotAuth)
	assert.Equal(t, int64(42), gotBody["trackId"])
}

func TestStartSessionAdRequired(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "AD_REQUIRED"})
	}))
	defer ts.Close()

	g := NewHTTPGateway(ts.URL, nil)
	_, err := g.StartSession(context.Background(), 1)

	assert.ErrorIs(t, err, ErrAdRequired)
}

func TestStartSessionAdInProgress(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "AD_IN_PROGRESS"})
	}))
	defer ts.Close()

	g := NewHTTPGateway(ts.URL, nil)
	_, err := g.StartSession(context.Background(), 1)

	assert.ErrorIs(t, err, ErrAdInProgress)
}

func TestStartSessionGenericFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	g := NewHTTPGateway(ts.URL, nil)
	_, err := g.StartSession(context.Background(), 1)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAdRequired)
	assert.NotErrorIs(t, err, ErrAdInProgress)
}

func TestStartSessionMissingSessionID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer ts.Close()

	g := NewHTTPGateway(ts.URL, nil)
	_, err := g.StartSession(context.Background(), 1)
	assert.Error(t, err)
}

func TestConfirmSession(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	g := NewHTTPGateway(ts.URL, nil)
	err := g.ConfirmSession(context.Background(), "ps-123")

	require.NoError(t, err)
	assert.Equal(t, "/play-sessions/ps-123/confirm", gotPath)
}

func TestConfirmSessionFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	g := NewHTTPGateway(ts.URL, nil)
	assert.Error(t, g.ConfirmSession(context.Background(), "ps-123"))
}
