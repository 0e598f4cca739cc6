package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nope-cardgame/nopebot/internal/auth"
	"github.com/nope-cardgame/nopebot/internal/client"
	"github.com/nope-cardgame/nopebot/internal/history"
	"github.com/nope-cardgame/nopebot/internal/models"
	"github.com/nope-cardgame/nopebot/internal/nope"
)

// InstanceConfig describes one bot instance. Several instances may run
// in the same process for self-play; each owns its own connection and
// shares nothing with the others.
type InstanceConfig struct {
	Username string
	Password string

	// ServerURL is the http(s) base URL of the game server. The
	// websocket URL is derived from it unless SocketURL overrides it.
	ServerURL string
	SocketURL string

	// InviteUsername, when set, makes this instance look up the user
	// directory after connecting, invite that player and start a game.
	InviteUsername string

	Selector nope.Config
}

// SocketURL derives the websocket endpoint from an http(s) base URL.
func SocketURL(serverURL string) string {
	switch {
	case strings.HasPrefix(serverURL, "https://"):
		return "wss://" + strings.TrimPrefix(serverURL, "https://")
	case strings.HasPrefix(serverURL, "http://"):
		return "ws://" + strings.TrimPrefix(serverURL, "http://")
	}
	return serverURL
}

// RunInstance signs the instance in, connects the websocket and plays
// until the context is cancelled, the connection drops, or a fatal
// engine error surfaces.
func RunInstance(ctx context.Context, cfg InstanceConfig, logger *logrus.Logger) error {
	log := logger.WithField("username", cfg.Username)

	rest := client.NewREST(cfg.ServerURL, logger)
	if _, err := rest.Authenticate(ctx, cfg.Username, cfg.Password); err != nil {
		return fmt.Errorf("authenticating %s: %w", cfg.Username, err)
	}

	session, err := auth.NewSession(rest.Token())
	if err != nil {
		log.WithError(err).Warn("could not parse session token claims")
	} else if !session.ExpiresAt.IsZero() {
		log.WithField("expiresAt", session.ExpiresAt).Debug("session established")
	}

	recorder, err := history.Connect(ctx)
	if err != nil {
		log.WithError(err).Warn("history recording disabled")
		recorder = nil
	}
	if recorder != nil {
		defer recorder.Close()
	}

	var opts []Option
	if recorder != nil {
		opts = append(opts, WithRecorder(recorder))
	}
	b := New(cfg.Username, nope.NewSelector(cfg.Selector), nil, logger, opts...)

	socketURL := cfg.SocketURL
	if socketURL == "" {
		socketURL = SocketURL(cfg.ServerURL)
	}
	ws := client.New(socketURL, rest.Token(), b, logger)
	b.Bind(ws)

	if err := ws.Connect(ctx); err != nil {
		return err
	}

	// Directory lookup and game start run alongside the listen loop so
	// they never delay event delivery.
	if cfg.InviteUsername != "" {
		go inviteAndStart(ctx, rest, cfg, log)
	}

	return ws.Listen(ctx)
}

// inviteAndStart waits for the opponent to connect, then starts a game
// against it. Used by self-play setups and manual test runs.
func inviteAndStart(ctx context.Context, rest *client.RESTClient, cfg InstanceConfig, log *logrus.Entry) {
	// Give the invited client a moment to finish connecting.
	select {
	case <-ctx.Done():
		return
	case <-time.After(3 * time.Second):
	}

	players, err := rest.UserConnections(ctx)
	if err != nil {
		log.WithError(err).Error("could not list user connections")
		return
	}

	var self, invitee *models.Player
	for i := range players {
		switch players[i].Username {
		case cfg.Username:
			self = &players[i]
		case cfg.InviteUsername:
			invitee = &players[i]
		}
	}
	if self == nil || invitee == nil {
		log.WithField("invite", cfg.InviteUsername).Error("player to invite is not connected")
		return
	}

	game, err := rest.StartGame(ctx, models.GameConfig{
		NoActionCards:     false,
		NoWildcards:       false,
		OneMoreStartCards: false,
		Players:           []models.Player{*invitee, *self},
	})
	if err != nil {
		log.WithError(err).Error("could not start game")
		return
	}
	log.WithField("gameId", game.ID).Info("sent game invite")
}
