package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nope-cardgame/nopebot/internal/middleware"
	"github.com/nope-cardgame/nopebot/internal/models"
)

// REST endpoint paths relative to the server base URL.
const (
	pathSignUp          = "/api/signup"
	pathSignIn          = "/api/signin"
	pathUserConnections = "/api/userConnections"
	pathGame            = "/api/game"
	pathTournament      = "/api/tournament"
)

// RESTClient talks to the game server's request/response API: account
// handling, the user directory, starting games/tournaments and history
// lookups. After SignIn or SignUp the held token authenticates every
// further request as a bearer.
type RESTClient struct {
	baseURL string
	http    *http.Client
	token   string
	log     *logrus.Entry
}

// NewREST builds a REST client for the given server base URL.
func NewREST(baseURL string, logger *logrus.Logger) *RESTClient {
	return &RESTClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: middleware.LogTransport(logger, nil),
		},
		log: logger.WithField("component", "rest"),
	}
}

// Token returns the current session token, empty before sign-in.
func (r *RESTClient) Token() string { return r.token }

// SignIn authenticates an existing account and stores the returned
// session token.
func (r *RESTClient) SignIn(ctx context.Context, username, password string) (*models.LoginResult, error) {
	var result models.LoginResult
	err := r.postJSON(ctx, pathSignIn, models.LoginCredentials{Username: username, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	r.token = result.JSONWebToken
	return &result, nil
}

// SignUp registers a new account and stores the returned session token.
func (r *RESTClient) SignUp(ctx context.Context, username, password string) (*models.LoginResult, error) {
	var result models.LoginResult
	err := r.postJSON(ctx, pathSignUp, models.LoginCredentials{Username: username, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	r.token = result.JSONWebToken
	return &result, nil
}

// Authenticate signs in and falls back to signing up when the account
// does not exist yet, matching the stock client behavior.
func (r *RESTClient) Authenticate(ctx context.Context, username, password string) (*models.LoginResult, error) {
	result, err := r.SignIn(ctx, username, password)
	if err == nil {
		return result, nil
	}
	r.log.WithField("username", username).WithError(err).Info("sign-in failed, trying sign-up")
	return r.SignUp(ctx, username, password)
}

// UserConnections lists all players currently connected to the server.
func (r *RESTClient) UserConnections(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	if err := r.getJSON(ctx, pathUserConnections, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// StartGame invites the configured players and starts a game.
func (r *RESTClient) StartGame(ctx context.Context, cfg models.GameConfig) (*models.Game, error) {
	var game models.Game
	if err := r.postJSON(ctx, pathGame, cfg, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// StartTournament invites the configured participants and starts a
// tournament.
func (r *RESTClient) StartTournament(ctx context.Context, cfg models.TournamentConfig) (*models.Tournament, error) {
	var tournament models.Tournament
	if err := r.postJSON(ctx, pathTournament, cfg, &tournament); err != nil {
		return nil, err
	}
	return &tournament, nil
}

// Game fetches one played game by id.
func (r *RESTClient) Game(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	if err := r.getJSON(ctx, pathGame+"/"+id, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Games fetches all played games.
func (r *RESTClient) Games(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := r.getJSON(ctx, pathGame, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// Tournament fetches one played tournament by id.
func (r *RESTClient) Tournament(ctx context.Context, id string) (*models.Tournament, error) {
	var tournament models.Tournament
	if err := r.getJSON(ctx, pathTournament+"/"+id, &tournament); err != nil {
		return nil, err
	}
	return &tournament, nil
}

// Tournaments fetches all played tournaments.
func (r *RESTClient) Tournaments(ctx context.Context) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	if err := r.getJSON(ctx, pathTournament, &tournaments); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *RESTClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do(req, out)
}

func (r *RESTClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	return r.do(req, out)
}

func (r *RESTClient) do(req *http.Request, out interface{}) error {
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
