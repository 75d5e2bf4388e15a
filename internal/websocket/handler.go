package websocket

import (
	"encoding/json"
	"time"

	"support-rag-be/internal/dto"
	"support-rag-be/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs handles one websocket chat connection. The first frame must be
// an init frame carrying the conversation UUID; without one a fresh UUID
// is assigned.
func ServeWs(hub *Hub, c *websocket.Conn, assistant service.IAssistantService) {
	conversationID, pending := readInitFrame(c)

	client := &Client{
		Hub:            hub,
		Conn:           c,
		ConversationID: conversationID,
		Send:           make(chan []byte, 256),
		assistant:      assistant,
	}
	client.Hub.register <- client

	go client.writePump()

	// A client that skipped the init handshake and sent a query directly
	// still gets an answer.
	if pending != nil {
		go client.handleQuery(*pending)
	}

	client.readPump() // Run readPump in current goroutine (handler)
}

func readInitFrame(c *websocket.Conn) (string, *dto.ChatQueryMessage) {
	c.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer c.SetReadDeadline(time.Time{})

	_, raw, err := c.ReadMessage()
	if err != nil {
		return uuid.NewString(), nil
	}

	var frame dto.ChatQueryMessage
	if err := json.Unmarshal(raw, &frame); err != nil {
		return uuid.NewString(), nil
	}

	conversationID := frame.Uuid
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if !frame.Init && frame.Message != "" {
		return conversationID, &frame
	}
	return conversationID, nil
}
