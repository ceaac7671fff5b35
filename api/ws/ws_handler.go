package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/zlnvch/markwiki/service"
)

type Handler struct {
	Service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) NewWsUpgrader(requiredOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == requiredOrigin
		},
		Subprotocols: []string{"markwiki-v1"},
	}
}

// ServeWS handles websocket requests from the peer. The session token rides
// in the second subprotocol entry because browsers cannot set headers on
// websocket handshakes.
func (h *Handler) ServeWS(wsUpgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request, shutdownCtx context.Context) {
	protocols := r.Header.Get("Sec-WebSocket-Protocol")
	protocolsSplit := strings.Split(protocols, ",")

	if len(protocolsSplit) != 2 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token := strings.TrimSpace(protocolsSplit[1])

	_, user, authErr := h.Service.AuthenticateToken(r.Context(), token)

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade ws connection: %v", err)
		return
	}

	// Must upgrade the connection in order to be able to send custom close message
	if authErr != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Unauthenticated"),
		)
		conn.Close()
		return
	}

	client := NewClient(conn, user, h.HandleWsMessage)

	// Start pumps
	go client.ReadPump()
	go client.WritePump(shutdownCtx)
}

// Websocket message structs
type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type previewMessage struct {
	Content string `json:"content"`
}

type responseMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (h *Handler) HandleWsMessage(client *Client, messageType int, messageBytes []byte) {
	var msg message
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		log.Printf("Invalid JSON: %v", err)
		return
	}

	var resp responseMessage

	switch msg.Type {
	case "preview":
		var previewMsg previewMessage
		if err := json.Unmarshal(msg.Data, &previewMsg); err != nil {
			log.Printf("Invalid preview data: %v", err)
			return
		}
		resp = h.handlePreview(previewMsg)

	default:
		log.Printf("Unknown message type: %v", msg.Type)
	}

	if resp.Type != "" {
		respBytes, err := json.Marshal(resp)
		if err != nil {
			log.Printf("Error marshaling response JSON: %v", err)
			return
		}
		client.Send <- respBytes
	}
}

func (h *Handler) handlePreview(previewMsg previewMessage) responseMessage {
	return responseMessage{
		Type: "preview_response",
		Data: map[string]any{"html": service.RenderHTML(previewMsg.Content)},
	}
}
