package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/aswathiir/worksyncpluspro/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	channelClients   = make(map[string]map[*websocket.Conn]bool)
	channelClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastChannelMessage pushes a freshly sent chat message to every
// socket subscribed to the channel.
func BroadcastChannelMessage(channelID string, message ChatMessageResponse) {
	channelClientsMu.RLock()
	clients, exists := channelClients[channelID]
	if !exists || len(clients) == 0 {
		channelClientsMu.RUnlock()
		return
	}

	// Copy the clients so the lock is not held while writing
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	channelClientsMu.RUnlock()

	payload := gin.H{
		"type":       "message",
		"channel_id": channelID,
		"message":    message,
	}

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(payload); err != nil {
			log.Printf("Failed to broadcast message to client: %v", err)
			channelClientsMu.Lock()
			if clients, exists := channelClients[channelID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(channelClients, channelID)
				}
			}
			channelClientsMu.Unlock()
			conn.Close()
		}
	}
}

// ChannelWebSocket subscribes a channel member to the live message feed.
func ChannelWebSocket(c *gin.Context) {
	channel, ok := findScopedChannel(c)

	if !ok {
		return
	}

	channelID := channel.ID.String()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	channelClientsMu.Lock()
	if channelClients[channelID] == nil {
		channelClients[channelID] = make(map[*websocket.Conn]bool)
	}
	channelClients[channelID][conn] = true
	channelClientsMu.Unlock()

	defer func() {
		channelClientsMu.Lock()

		if clients, exists := channelClients[channelID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(channelClients, channelID)
			}
		}

		channelClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for channel %s", channelID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":       "connected",
		"message":    "WebSocket connection established",
		"channel_id": channelID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for channel %s: %v", channelID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for channel %s: %v", channelID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for channel %s: %v", channelID, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for channel %s: %v", channelID, err)
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			log.Printf("Received message from client in channel %s: %s", channelID, string(message))
		case websocket.PongMessage:
			log.Printf("Received pong from channel %s", channelID)
		}
	}
}
