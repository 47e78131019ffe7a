package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection of a driver.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	driverID kernel.UUID
	send     chan Message
	logger   *slog.Logger
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if err := c.handle(ctx, data); err != nil {
			c.reply(Message{Type: TypeError, Error: err.Error()})
		}
	}
}

func (c *Client) handle(ctx context.Context, data []byte) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return errors.New("malformed message")
	}

	switch msg.Type {
	case TypeLocation:
		if msg.Lat == nil || msg.Lng == nil {
			return errors.New("location requires lat and lng")
		}
		location, err := kernel.NewLocation(*msg.Lat, *msg.Lng)
		if err != nil {
			return err
		}
		cmd, err := commands.NewUpdateDriverLocationCommand(c.driverID, location)
		if err != nil {
			return err
		}
		if err := c.hub.locations.Handle(ctx, cmd); err != nil {
			c.logger.Error("failed to update driver location", "error", err)
			return errors.New("location update failed")
		}
		return nil
	default:
		return errors.New("unsupported message type " + msg.Type)
	}
}

// reply answers on this connection only. It goes through the hub, which owns
// the send channel; a saturated or stopped hub drops it.
func (c *Client) reply(msg Message) {
	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	select {
	case c.hub.send <- envelope{driverID: c.driverID, client: c, message: msg}:
	case <-c.hub.done:
	default:
		c.logger.Warn("send queue full, dropping reply", "type", msg.Type)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn("websocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
