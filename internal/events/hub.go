package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Room name helpers. Clients are placed into one room per community
// membership and one per held role; tiered delivery is room set
// arithmetic.
func CommunityRoom(communityID string) string { return "community:" + communityID }
func RoleRoom(roleID string) string           { return "role:" + roleID }

// Message is one websocket frame pushed to clients.
type Message struct {
	ID        string      `json:"id,omitempty"`
	Type      string      `json:"type"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`

	// routing, not serialized
	rooms        []string
	userIDs      []string
	excludeRooms []string
}

// Message types.
const (
	MessageTypeEvent       = "event"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeAck         = "ack"
)

// NewEventMessage wraps an event payload for delivery.
func NewEventMessage(event any) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Type:      MessageTypeEvent,
		Data:      event,
		Timestamp: time.Now(),
	}
}

// RoomOperation represents a room join/leave operation
type RoomOperation struct {
	Client *Client
	Room   string
}

// Hub maintains active clients and routes event messages to them.
type Hub struct {
	clients     map[*Client]bool
	userClients map[string]map[*Client]bool
	roomClients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	joinRoom   chan *RoomOperation
	leaveRoom  chan *RoomOperation

	mutex  sync.RWMutex
	logger *zap.Logger

	metrics *HubMetrics
}

// HubMetrics holds hub counters.
type HubMetrics struct {
	TotalConnections  int64
	ActiveConnections int64
	TotalMessages     int64
	TotalBroadcasts   int64
	TotalRooms        int
	mutex             sync.RWMutex
}

// NewHub creates a new hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[string]map[*Client]bool),
		roomClients: make(map[string]map[*Client]bool),
		broadcast:   make(chan *Message, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		joinRoom:    make(chan *RoomOperation),
		leaveRoom:   make(chan *RoomOperation),
		logger:      logger,
		metrics:     &HubMetrics{},
	}
}

// Run starts the hub loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case op := <-h.joinRoom:
			h.handleJoinRoom(op)
		case op := <-h.leaveRoom:
			h.handleLeaveRoom(op)
		case message := <-h.broadcast:
			h.handleBroadcast(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true

	if client.UserID != "" {
		if _, ok := h.userClients[client.UserID]; !ok {
			h.userClients[client.UserID] = make(map[*Client]bool)
		}
		h.userClients[client.UserID][client] = true
	}

	h.metrics.mutex.Lock()
	h.metrics.TotalConnections++
	h.metrics.ActiveConnections++
	h.metrics.mutex.Unlock()

	h.logger.Debug("Client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		if client.UserID != "" {
			if clients, ok := h.userClients[client.UserID]; ok {
				delete(clients, client)
				if len(clients) == 0 {
					delete(h.userClients, client.UserID)
				}
			}
		}

		for room, clients := range h.roomClients {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.roomClients, room)
			}
		}

		h.metrics.mutex.Lock()
		h.metrics.ActiveConnections--
		h.metrics.mutex.Unlock()

		h.logger.Debug("Client unregistered",
			zap.String("client_id", client.ID),
		)
	}
}

func (h *Hub) handleJoinRoom(op *RoomOperation) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.roomClients[op.Room]; !ok {
		h.roomClients[op.Room] = make(map[*Client]bool)
	}
	h.roomClients[op.Room][op.Client] = true
	op.Client.Rooms[op.Room] = true

	h.metrics.mutex.Lock()
	h.metrics.TotalRooms = len(h.roomClients)
	h.metrics.mutex.Unlock()
}

func (h *Hub) handleLeaveRoom(op *RoomOperation) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if clients, ok := h.roomClients[op.Room]; ok {
		delete(clients, op.Client)
		if len(clients) == 0 {
			delete(h.roomClients, op.Room)
		}
	}
	delete(op.Client.Rooms, op.Room)

	h.metrics.mutex.Lock()
	h.metrics.TotalRooms = len(h.roomClients)
	h.metrics.mutex.Unlock()
}

// handleBroadcast resolves the message's routing sets and delivers to
// the union of targeted clients minus exclusions.
func (h *Hub) handleBroadcast(message *Message) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	h.metrics.mutex.Lock()
	h.metrics.TotalBroadcasts++
	h.metrics.mutex.Unlock()

	targets := make(map[*Client]bool)
	if len(message.rooms) == 0 && len(message.userIDs) == 0 {
		for client := range h.clients {
			targets[client] = true
		}
	}
	for _, room := range message.rooms {
		for client := range h.roomClients[room] {
			targets[client] = true
		}
	}
	for _, userID := range message.userIDs {
		for client := range h.userClients[userID] {
			targets[client] = true
		}
	}
	for _, room := range message.excludeRooms {
		for client := range h.roomClients[room] {
			delete(targets, client)
		}
	}

	for client := range targets {
		select {
		case client.send <- message:
			h.metrics.mutex.Lock()
			h.metrics.TotalMessages++
			h.metrics.mutex.Unlock()
		default:
			h.logger.Warn("Client send buffer full",
				zap.String("client_id", client.ID),
			)
		}
	}
}

// Broadcast queues a message for delivery. Routing set slices must not
// be mutated afterwards.
func (h *Hub) Broadcast(message *Message, rooms, userIDs, excludeRooms []string) {
	message.rooms = rooms
	message.userIDs = userIDs
	message.excludeRooms = excludeRooms
	h.broadcast <- message
}

// JoinRoom adds a client to a room
func (h *Hub) JoinRoom(client *Client, room string) {
	h.joinRoom <- &RoomOperation{Client: client, Room: room}
}

// LeaveRoom removes a client from a room
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.leaveRoom <- &RoomOperation{Client: client, Room: room}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// GetRoomClientCount returns the number of clients in a room
func (h *Hub) GetRoomClientCount(room string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if clients, ok := h.roomClients[room]; ok {
		return len(clients)
	}
	return 0
}

// IsUserOnline checks if a user has at least one live connection
func (h *Hub) IsUserOnline(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	clients, ok := h.userClients[userID]
	return ok && len(clients) > 0
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() HubMetrics {
	h.metrics.mutex.RLock()
	defer h.metrics.mutex.RUnlock()
	return HubMetrics{
		TotalConnections:  h.metrics.TotalConnections,
		ActiveConnections: h.metrics.ActiveConnections,
		TotalMessages:     h.metrics.TotalMessages,
		TotalBroadcasts:   h.metrics.TotalBroadcasts,
		TotalRooms:        h.metrics.TotalRooms,
	}
}

// SendHeartbeat sends a ping frame message to all clients
func (h *Hub) SendHeartbeat() {
	h.Broadcast(&Message{Type: MessageTypePing, Timestamp: time.Now()}, nil, nil, nil)
}
