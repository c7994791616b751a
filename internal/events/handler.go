package events

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/security"
)

// WebSocketConfig holds websocket endpoint configuration
type WebSocketConfig struct {
	Path              string        `mapstructure:"path"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	ReadBufferSize    int           `mapstructure:"read_buffer_size"`
	WriteBufferSize   int           `mapstructure:"write_buffer_size"`
	HandshakeTimeout  time.Duration `mapstructure:"handshake_timeout"`
	EnableCompression bool          `mapstructure:"enable_compression"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

// DefaultWebSocketConfig returns default configuration
func DefaultWebSocketConfig() *WebSocketConfig {
	return &WebSocketConfig{
		Path:              "/ws",
		AllowedOrigins:    []string{"*"},
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		HandshakeTimeout:  10 * time.Second,
		EnableCompression: true,
		HeartbeatInterval: 30 * time.Second,
	}
}

// Handler handles websocket connections. Connections require a valid
// session: anonymous sockets would otherwise receive broadcast frames.
type Handler struct {
	config      *WebSocketConfig
	hub         *Hub
	upgrader    websocket.Upgrader
	jwtProvider *security.JWTProvider
	authorizer  RoomAuthorizer
	logger      *zap.Logger
}

// NewHandler creates a new websocket handler
func NewHandler(
	config *WebSocketConfig,
	hub *Hub,
	jwtProvider *security.JWTProvider,
	authorizer RoomAuthorizer,
	logger *zap.Logger,
) *Handler {
	h := &Handler{
		config:      config,
		hub:         hub,
		jwtProvider: jwtProvider,
		authorizer:  authorizer,
		logger:      logger,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:    config.ReadBufferSize,
		WriteBufferSize:   config.WriteBufferSize,
		HandshakeTimeout:  config.HandshakeTimeout,
		EnableCompression: config.EnableCompression,
		CheckOrigin:       h.checkOrigin,
	}

	return h
}

// RegisterRoutes registers websocket routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET(h.config.Path, h.handleWebSocket)
	router.GET(h.config.Path+"/status", h.handleStatus)
}

// handleWebSocket handles websocket upgrade requests
func (h *Handler) handleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				token = parts[1]
			}
		}
	}

	claims, err := h.jwtProvider.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection",
			zap.Error(err),
		)
		return
	}

	client := NewClient(h.hub, conn, claims.UserID, h.authorizer, h.logger)
	h.hub.register <- client

	client.Send(&Message{
		Type: MessageTypeEvent,
		Data: map[string]any{
			"event":    "connected",
			"clientId": client.ID,
			"userId":   claims.UserID,
		},
		Timestamp: time.Now(),
	})

	go client.WritePump()
	go client.ReadPump()
}

// handleStatus returns websocket hub status
func (h *Handler) handleStatus(c *gin.Context) {
	metrics := h.hub.GetMetrics()

	c.JSON(http.StatusOK, gin.H{
		"activeConnections": metrics.ActiveConnections,
		"totalConnections":  metrics.TotalConnections,
		"totalMessages":     metrics.TotalMessages,
		"totalBroadcasts":   metrics.TotalBroadcasts,
		"activeRooms":       metrics.TotalRooms,
	})
}

// checkOrigin checks if the origin is allowed
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// StartHeartbeat starts a goroutine that sends heartbeats
func (h *Handler) StartHeartbeat() {
	if h.config.HeartbeatInterval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(h.config.HeartbeatInterval)
		defer ticker.Stop()

		for range ticker.C {
			h.hub.SendHeartbeat()
		}
	}()
}
