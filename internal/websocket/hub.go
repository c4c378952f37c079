package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"tabsensei-be/internal/model"
	"tabsensei-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Hub struct {
	// Registered clients map: DeviceID -> List of Clients. One paired
	// device can hold several sockets (popup + options page).
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.DeviceID] = append(h.clients[client.DeviceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"device_id": client.DeviceID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.DeviceID]; ok {
				for i, c := range clients {
					if c == client {
						// Remove from slice
						h.clients[client.DeviceID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.DeviceID]) == 0 {
					delete(h.clients, client.DeviceID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"device_id": client.DeviceID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an alert to ALL connected clients.
func (h *Hub) Broadcast(alert model.Alert) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "alert",
		"data": alert,
	})

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
	h.mu.RUnlock()

	// Publish to Redis for other instances. "*" is the broadcast
	// wildcard.
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_device_id": "*",
			"message":          data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// Send (AlertDelivery interface implementation)
func (h *Hub) Send(deviceID uuid.UUID, alert model.Alert) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "alert",
		"data": alert,
	})

	h.mu.RLock()
	clients, localFound := h.clients[deviceID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"device_id": deviceID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	// Always publish to Redis; the device's sockets may hang off
	// another instance.
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_device_id": deviceID.String(),
			"message":          data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// subscribeToRedis bridges instances: every instance subscribes to
// cluster_events and forwards messages for devices it holds locally.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetDeviceID string          `json:"target_device_id"`
			Message        json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetDeviceID == "*" {
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					select {
					case client.Send <- payload.Message:
					default:
						close(client.Send)
						h.unregister <- client
					}
				}
			}
			h.mu.RUnlock()
			continue
		}

		did, err := uuid.Parse(payload.TargetDeviceID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[did]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}
