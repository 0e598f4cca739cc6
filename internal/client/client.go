package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/nope-cardgame/nopebot/internal/models"
)

// Listener receives every decoded push event, in arrival order. A
// non-nil error from HandleEvent is fatal for the connection: the read
// loop stops and surfaces it, because silently skipping an unresolvable
// game state desynchronizes the client from the server's action clock.
type Listener interface {
	Connected(ctx context.Context)
	Disconnected(err error)
	HandleEvent(ctx context.Context, ev Event) error
}

// Client is one websocket connection to the Nope game server. Events
// are read one at a time and handed to the listener synchronously, so
// the listener never observes two snapshots interleaved.
type Client struct {
	wsURL    string
	token    string
	listener Listener
	log      *logrus.Entry

	writeTimeout time.Duration

	mu   sync.Mutex // guards conn writes
	conn *websocket.Conn
}

// New builds a client for the given websocket URL, authenticating with
// the session token from the REST sign-in.
func New(wsURL, token string, listener Listener, logger *logrus.Logger) *Client {
	return &Client{
		wsURL:        wsURL,
		token:        token,
		listener:     listener,
		log:          logger.WithField("component", "ws"),
		writeTimeout: 5 * time.Second,
	}
}

// Connect dials the server. The session token rides along as a bearer
// header, mirroring the REST authentication.
func (c *Client) Connect(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	conn, _, err := websocket.Dial(ctx, c.wsURL, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", c.wsURL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.log.WithField("url", c.wsURL).Info("connected to game server")
	c.listener.Connected(ctx)
	return nil
}

// Listen reads push messages until the connection closes or the
// listener reports a fatal error. Malformed messages are logged and
// skipped; they are protocol noise, not a reason to stop playing.
func (c *Client) Listen(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("listen called before connect")
	}

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				c.log.Info("websocket closed by server")
				c.listener.Disconnected(nil)
				return nil
			}
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				c.listener.Disconnected(nil)
				return nil
			}
			c.log.WithError(err).Warn("websocket read failed")
			c.listener.Disconnected(err)
			return err
		}
		if msgType != websocket.MessageText {
			c.log.WithField("msgType", msgType).Warn("ignoring non-text websocket message")
			continue
		}

		ev, err := DecodeEvent(data)
		if err != nil {
			c.log.WithError(err).WithField("data", string(data)).Warn("dropping undecodable event")
			continue
		}

		c.log.WithField("event", ev.eventName()).Debug("event received")
		if err := c.listener.HandleEvent(ctx, ev); err != nil {
			c.Close(websocket.StatusInternalError, "fatal client error")
			return fmt.Errorf("handling %s event: %w", ev.eventName(), err)
		}
	}
}

// PlayAction emits the single action for the current turn. The action
// is validated before sending; a validation failure indicates a bug in
// the selector, not a server problem.
func (c *Client) PlayAction(ctx context.Context, action *models.Action) error {
	if err := action.Validate(); err != nil {
		return fmt.Errorf("refusing to send invalid action: %w", err)
	}
	c.log.WithFields(logrus.Fields{
		"action":      action.Type,
		"explanation": action.Explanation,
	}).Info("playing action")
	return c.send(ctx, EventPlayAction, action)
}

// Ready answers a game or tournament invite.
func (c *Client) Ready(ctx context.Context, msg ReadyMessage) error {
	c.log.WithFields(logrus.Fields{
		"accept":   msg.Accept,
		"type":     msg.Type,
		"inviteId": msg.InviteID,
	}).Info("answering invite")
	return c.send(ctx, EventReady, msg)
}

// Close shuts the connection down with the given status.
func (c *Client) Close(status websocket.StatusCode, reason string) {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close(status, reason)
	}
}

// send marshals one outbound envelope and writes it with a timeout so a
// stalled connection cannot block the event loop forever.
func (c *Client) send(ctx context.Context, event string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}
	data, err := json.Marshal(envelope{Event: event, Payload: body})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", event, err)
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("connection is closed")
	}

	writeCtx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("write %s: %w", event, err)
	}
	return nil
}
