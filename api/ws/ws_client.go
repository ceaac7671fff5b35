package ws

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zlnvch/markwiki/models"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024 * 64

	// Rate limiting: 20 messages per second with a burst of 30
	messagesPerSecond = 20
	burstLimit        = 30
)

type MessageHandler func(client *Client, messageType int, messageBytes []byte)

func NewClient(conn *websocket.Conn, user models.User, handler MessageHandler) *Client {
	return &Client{
		conn:    conn,
		user:    user,
		handler: handler,
		Send:    make(chan []byte, 128),
		limiter: rate.NewLimiter(rate.Limit(messagesPerSecond), burstLimit),
	}
}

// Client pumps messages between one websocket connection and the handler.
type Client struct {
	conn    *websocket.Conn
	user    models.User
	handler MessageHandler
	Send    chan []byte // Buffered channel of outbound messages.
	limiter *rate.Limiter
}

func (c *Client) ReadPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		messageType, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS close error: %v", err)
			}
			break
		}

		if !c.limiter.Allow() {
			log.Printf("Closing connection for user %s: message rate limit exceeded", c.user.Id)
			break
		}

		c.handler(c, messageType, messageBytes)
	}
}

func (c *Client) WritePump(shutdownCtx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WS send error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-shutdownCtx.Done():
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Websocket service shutting down"),
			)
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
