package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"support-rag-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Hub struct {
	// Registered clients map: ConversationID -> List of Clients (multi-tab)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Identifies this instance on the cluster channel so it can skip
	// payloads it published itself.
	instanceID string

	logger logger.ILogger
}

type clusterPayload struct {
	OriginInstanceID     string          `json:"origin_instance_id"`
	TargetConversationID string          `json:"target_conversation_id"`
	Message              json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ConversationID] = append(h.clients[client.ConversationID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"conversation_id": client.ConversationID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ConversationID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ConversationID] = append(clients[:i], clients[i+1:]...)
						// Run is the only closer of Send, and a client leaves
						// the map before the close, so this runs at most once.
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ConversationID]) == 0 {
					delete(h.clients, client.ConversationID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"conversation_id": client.ConversationID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// dropSlow schedules removal of a client whose Send buffer is full. The
// unregister send happens off the calling goroutine so delivery loops
// holding the read lock never block against Run.
func (h *Hub) dropSlow(client *Client) {
	h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"conversation_id": client.ConversationID})
	go func() {
		h.unregister <- client
	}()
}

// deliverAll fans data out to every connected client.
func (h *Hub) deliverAll(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.dropSlow(client)
			}
		}
	}
}

// deliverLocal fans data out to the clients of one conversation.
func (h *Hub) deliverLocal(conversationID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[conversationID] {
		select {
		case client.Send <- data:
		default:
			h.dropSlow(client)
		}
	}
}

func (h *Hub) publishCluster(targetConversationID string, data []byte) {
	if h.rdb == nil {
		return
	}
	jsonPayload, _ := json.Marshal(clusterPayload{
		OriginInstanceID:     h.instanceID,
		TargetConversationID: targetConversationID,
		Message:              data,
	})
	h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
}

// Broadcast sends a system notice to ALL connected clients, typically
// after the knowledge base finishes rebuilding.
func (h *Hub) Broadcast(notice map[string]interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "system",
		"data": notice,
	})

	h.deliverAll(data)

	// Wildcard target reaches every client on other instances.
	h.publishCluster("*", data)
}

// SendTo delivers a payload to every client of one conversation.
func (h *Hub) SendTo(conversationID string, data []byte) {
	h.deliverLocal(conversationID, data)

	// Other instances may hold clients for the same conversation.
	h.publishCluster(conversationID, data)
}

// handleClusterMessage delivers one cluster payload to local clients.
// Payloads this instance published are skipped, local delivery already
// happened before the publish.
func (h *Hub) handleClusterMessage(raw []byte) {
	var payload clusterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("Redis msg parse error: %v", err)
		return
	}

	if payload.OriginInstanceID == h.instanceID {
		return
	}

	if payload.TargetConversationID == "*" {
		h.deliverAll(payload.Message)
		return
	}
	h.deliverLocal(payload.TargetConversationID, payload.Message)
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "cluster_events". When a message arrives,
	// deliver it to any locally connected client of the target conversation.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleClusterMessage([]byte(msg.Payload))
	}
}
