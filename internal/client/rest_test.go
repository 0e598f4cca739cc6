package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nope-cardgame/nopebot/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSignInStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/signin", r.URL.Path)

		var creds models.LoginCredentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "bot", creds.Username)
		assert.Equal(t, "secret", creds.Password)

		json.NewEncoder(w).Encode(models.LoginResult{JSONWebToken: "token-123"})
	}))
	defer srv.Close()

	rest := NewREST(srv.URL, testLogger())
	result, err := rest.SignIn(context.Background(), "bot", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-123", result.JSONWebToken)
	assert.Equal(t, "token-123", rest.Token())
}

func TestAuthenticateFallsBackToSignUp(t *testing.T) {
	var signUpSeen bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/signin":
			http.Error(w, `{"message":"unknown user"}`, http.StatusUnauthorized)
		case "/api/signup":
			signUpSeen = true
			json.NewEncoder(w).Encode(models.LoginResult{JSONWebToken: "fresh-token"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	rest := NewREST(srv.URL, testLogger())
	result, err := rest.Authenticate(context.Background(), "bot", "secret")
	require.NoError(t, err)
	assert.True(t, signUpSeen)
	assert.Equal(t, "fresh-token", result.JSONWebToken)
	assert.Equal(t, "fresh-token", rest.Token())
}

func TestRequestsCarryBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]models.Player{{Username: "anna", SocketID: "s2"}})
	}))
	defer srv.Close()

	rest := NewREST(srv.URL, testLogger())
	rest.token = "token-123"

	players, err := rest.UserConnections(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "anna", players[0].Username)
}

func TestStartGamePostsConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/game", r.URL.Path)

		var cfg models.GameConfig
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cfg))
		require.Len(t, cfg.Players, 2)

		json.NewEncoder(w).Encode(models.Game{ID: "game-1", State: models.StateGameStart})
	}))
	defer srv.Close()

	rest := NewREST(srv.URL, testLogger())
	game, err := rest.StartGame(context.Background(), models.GameConfig{
		Players: []models.Player{
			{Username: "anna", SocketID: "s2"},
			{Username: "bot", SocketID: "s1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "game-1", game.ID)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "player not connected", http.StatusConflict)
	}))
	defer srv.Close()

	rest := NewREST(srv.URL, testLogger())
	_, err := rest.Games(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "player not connected")
}
