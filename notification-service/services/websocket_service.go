package services

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database/models/notification"
)

// WebSocketManager handles all WebSocket connections. Connections are
// indexed per user and per tenant so lifecycle events can fan out to a
// whole tenant without touching the others.
type WebSocketManager struct {
	clients     map[string]*websocket.Conn // userID -> connection
	tenantUsers map[string]map[string]bool // tenantID -> set of userIDs
	userTenant  map[string]string          // userID -> tenantID
	mutex       sync.RWMutex
	upgrader    websocket.Upgrader
	register    chan *ClientConnection
	unregister  chan *ClientConnection
	broadcast   chan *notification.WebSocketMessage
}

// ClientConnection represents a client WebSocket connection
type ClientConnection struct {
	UserID     string
	TenantID   string
	Connection *websocket.Conn
}

// Global WebSocket manager instance
var wsManager *WebSocketManager
var once sync.Once

// GetWebSocketManager returns singleton WebSocket manager
func GetWebSocketManager() *WebSocketManager {
	once.Do(func() {
		wsManager = &WebSocketManager{
			clients:     make(map[string]*websocket.Conn),
			tenantUsers: make(map[string]map[string]bool),
			userTenant:  make(map[string]string),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					origin := r.Header.Get("Origin")
					if origin == "" {
						return true
					}

					allowedOrigins := []string{
						config.GetConfig().FrontendURL,
					}

					for _, allowed := range allowedOrigins {
						if origin == allowed {
							return true
						}
					}

					log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
					return false
				},
			},
			register:   make(chan *ClientConnection, 100),
			unregister: make(chan *ClientConnection, 100),
			broadcast:  make(chan *notification.WebSocketMessage, 1000),
		}
		go wsManager.run()
	})
	return wsManager
}

// run handles WebSocket manager event loop
func (wsm *WebSocketManager) run() {
	for {
		select {
		case client := <-wsm.register:
			wsm.registerClient(client)

		case client := <-wsm.unregister:
			wsm.unregisterClient(client)

		case message := <-wsm.broadcast:
			wsm.broadcastMessage(message)
		}
	}
}

// registerClient adds a new client connection
func (wsm *WebSocketManager) registerClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	// One connection per user, a new device wins
	if existingConn, exists := wsm.clients[client.UserID]; exists {
		existingConn.Close()
		wsm.removeFromTenantIndex(client.UserID)
	}

	wsm.clients[client.UserID] = client.Connection
	wsm.userTenant[client.UserID] = client.TenantID
	if _, ok := wsm.tenantUsers[client.TenantID]; !ok {
		wsm.tenantUsers[client.TenantID] = make(map[string]bool)
	}
	wsm.tenantUsers[client.TenantID][client.UserID] = true

	log.Printf("🔌 WebSocket client connected: %s (Total: %d)", client.UserID, len(wsm.clients))

	welcomeMsg := &notification.WebSocketMessage{
		Type:      "connection",
		Level:     notification.NotificationLevelInfo,
		Title:     "🔌 Connected",
		Message:   "WebSocket connection established",
		Timestamp: notification.GetCurrentTime(),
		UserID:    parseUUID(client.UserID),
		TenantID:  parseUUID(client.TenantID),
	}
	wsm.writeToClientLocked(client.UserID, welcomeMsg)
}

// unregisterClient removes a client connection
func (wsm *WebSocketManager) unregisterClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	if _, exists := wsm.clients[client.UserID]; exists {
		delete(wsm.clients, client.UserID)
		wsm.removeFromTenantIndex(client.UserID)
		client.Connection.Close()
		log.Printf("🔌 WebSocket client disconnected: %s (Total: %d)", client.UserID, len(wsm.clients))
	}
}

// removeFromTenantIndex drops a user from the tenant index. Caller holds
// the write lock.
func (wsm *WebSocketManager) removeFromTenantIndex(userID string) {
	tenantID, ok := wsm.userTenant[userID]
	if !ok {
		return
	}
	delete(wsm.userTenant, userID)
	if users, ok := wsm.tenantUsers[tenantID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(wsm.tenantUsers, tenantID)
		}
	}
}

// broadcastMessage sends message to all connected clients
func (wsm *WebSocketManager) broadcastMessage(message *notification.WebSocketMessage) {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	successCount := 0
	failCount := 0

	for userID, conn := range wsm.clients {
		err := conn.WriteJSON(message)
		if err != nil {
			log.Printf("❌ Failed to send message to user %s: %v", userID, err)
			go func(uid string, connection *websocket.Conn) {
				wsm.unregister <- &ClientConnection{UserID: uid, Connection: connection}
			}(userID, conn)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("📡 Broadcast sent: %d success, %d failed (Message: %s)",
		successCount, failCount, message.Message)
}

// SendToUser sends message to specific user
func (wsm *WebSocketManager) SendToUser(userID string, message *notification.WebSocketMessage) error {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	if _, exists := wsm.clients[userID]; !exists {
		return fmt.Errorf("user %s not connected", userID)
	}

	return wsm.writeToClientLocked(userID, message)
}

// writeToClientLocked writes to a client connection. Caller holds a lock.
func (wsm *WebSocketManager) writeToClientLocked(userID string, message *notification.WebSocketMessage) error {
	conn, exists := wsm.clients[userID]
	if !exists {
		return fmt.Errorf("user %s not connected", userID)
	}

	err := conn.WriteJSON(message)
	if err != nil {
		log.Printf("❌ Failed to send message to user %s: %v", userID, err)
		go func() {
			wsm.unregister <- &ClientConnection{UserID: userID, Connection: conn}
		}()
		return err
	}

	return nil
}

// BroadcastToTenant sends message to every connected user of a tenant
func (wsm *WebSocketManager) BroadcastToTenant(tenantID string, message *notification.WebSocketMessage) int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	sent := 0
	for userID := range wsm.tenantUsers[tenantID] {
		if err := wsm.writeToClientLocked(userID, message); err == nil {
			sent++
		}
	}

	log.Printf("📡 Tenant broadcast to %s: %d recipients", tenantID, sent)
	return sent
}

// BroadcastToAll queues a message for all connected clients
func (wsm *WebSocketManager) BroadcastToAll(message *notification.WebSocketMessage) {
	select {
	case wsm.broadcast <- message:
	default:
		log.Printf("⚠️ Broadcast queue full, dropping message: %s", message.Message)
	}
}

// HandleWebSocketConnection upgrades an authenticated HTTP connection to
// WebSocket and pumps incoming frames until the peer goes away.
func (wsm *WebSocketManager) HandleWebSocketConnection(c *gin.Context, userID, tenantID string) {
	conn, err := wsm.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Failed to upgrade WebSocket: %v", err)
		return
	}

	client := &ClientConnection{
		UserID:     userID,
		TenantID:   tenantID,
		Connection: conn,
	}

	wsm.register <- client

	defer func() {
		wsm.unregister <- client
	}()

	for {
		var message map[string]interface{}
		err := conn.ReadJSON(&message)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket error for user %s: %v", userID, err)
			}
			break
		}

		if msgType, ok := message["type"].(string); ok {
			switch msgType {
			case "ping":
				pongMsg := &notification.WebSocketMessage{
					Type:      "pong",
					Level:     notification.NotificationLevelInfo,
					Message:   "pong",
					Timestamp: notification.GetCurrentTime(),
					UserID:    parseUUID(userID),
				}
				wsm.mutex.RLock()
				wsm.writeToClientLocked(userID, pongMsg)
				wsm.mutex.RUnlock()
			}
		}
	}
}

// GetConnectedUsers returns list of connected user IDs
func (wsm *WebSocketManager) GetConnectedUsers() []string {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	users := make([]string, 0, len(wsm.clients))
	for userID := range wsm.clients {
		users = append(users, userID)
	}
	return users
}

// GetConnectionCount returns number of active connections
func (wsm *WebSocketManager) GetConnectionCount() int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.clients)
}

// parseUUID safely parses UUID string
func parseUUID(str string) *uuid.UUID {
	if id, err := uuid.Parse(str); err == nil {
		return &id
	}
	return nil
}
