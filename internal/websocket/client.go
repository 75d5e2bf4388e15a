package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"support-rag-be/internal/dto"
	"support-rag-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Queries can be long, uploads go over REST
	maxMessageSize = 8192
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// ConversationID associated with this connection
	ConversationID string

	// Buffered channel of outbound messages.
	Send chan []byte

	assistant service.IAssistantService
}

// readPump pumps queries from the websocket connection into the workflow.
func (c *Client) readPump() {
	defer func() {
		log.Printf("readPump exiting for conversation %s", c.ConversationID)
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	log.Printf("readPump started for conversation %s", c.ConversationID)
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error for conversation %s: %v", c.ConversationID, err)
			}
			break
		}

		var frame dto.ChatQueryMessage
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Printf("Malformed frame on conversation %s: %v", c.ConversationID, err)
			continue
		}

		if frame.Init || frame.Message == "" {
			continue
		}

		// Queries block on the LLM, so run each off the read loop to keep
		// ping/pong alive.
		go c.handleQuery(frame)
	}
}

func (c *Client) handleQuery(frame dto.ChatQueryMessage) {
	conversationID := frame.Uuid
	if conversationID == "" {
		conversationID = c.ConversationID
	}

	result := c.assistant.HandleQuery(context.Background(), conversationID, frame.Message)

	response := dto.ChatResponseMessage{
		Uuid:     conversationID,
		Response: result.Response,
	}
	data, err := json.Marshal(response)
	if err != nil {
		return
	}

	c.Hub.SendTo(c.ConversationID, data)
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		log.Printf("writePump exiting for conversation %s", c.ConversationID)
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("writePump Ping error for conversation %s: %v", c.ConversationID, err)
				return
			}
		}
	}
}
