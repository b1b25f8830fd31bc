// Package client streams video frames to a coach server and receives
// per-frame coaching results over a websocket.
package client

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-coach/pkg/session"
)

// Client is a websocket frame-streaming client for one coach session.
type Client struct {
	serverURL string
	sessionID string

	ws      *websocket.Conn
	wsMutex sync.Mutex

	connected bool
}

// New creates a client for an existing session on the given server, e.g.
// New("ws://localhost:8080", sessionID).
func New(serverURL, sessionID string) *Client {
	return &Client{
		serverURL: serverURL,
		sessionID: sessionID,
	}
}

// Connect dials the session websocket.
func (c *Client) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("%s/ws/sessions/%s", c.serverURL, c.sessionID)
	ws, resp, err := dialer.Dial(url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return fmt.Errorf("connect failed: %s: %w", resp.Status, err)
		}
		return fmt.Errorf("connect failed: %w", err)
	}

	c.ws = ws
	c.connected = true
	return nil
}

// SendFrame submits one JPEG frame and waits for the server's result.
func (c *Client) SendFrame(jpeg []byte) (session.FrameResult, error) {
	if !c.connected {
		return session.FrameResult{}, fmt.Errorf("client not connected")
	}

	msg := map[string]string{
		"frame": base64.StdEncoding.EncodeToString(jpeg),
	}

	c.wsMutex.Lock()
	err := c.ws.WriteJSON(msg)
	c.wsMutex.Unlock()
	if err != nil {
		return session.FrameResult{}, fmt.Errorf("send frame: %w", err)
	}

	var result session.FrameResult
	if err := c.ws.ReadJSON(&result); err != nil {
		return session.FrameResult{}, fmt.Errorf("read result: %w", err)
	}
	return result, nil
}

// Close closes the websocket.
func (c *Client) Close() error {
	if c.ws == nil {
		return nil
	}
	c.connected = false
	c.wsMutex.Lock()
	defer c.wsMutex.Unlock()
	c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.ws.Close()
}
