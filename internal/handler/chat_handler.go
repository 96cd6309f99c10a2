package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/vietlabs/base-backend/pkg/response"
)

const defaultChatRoom = "general"

// ChatMessage is the payload relayed between clients in a room.
type ChatMessage struct {
	Room      string `json:"room"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type ChatHandler struct {
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewChatHandler(redisClient *redis.Client) *ChatHandler {
	return &ChatHandler{
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
	}
}

// HandleWebSocket joins the caller to a chat room. Messages written by the
// client are published to the room's redis channel; messages published by any
// instance are relayed back down the socket. The relay is stateless, so chat
// scales across server instances.
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	user, err := response.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	room := c.Query("room")
	if room == "" {
		room = defaultChatRoom
	}

	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat is not available"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	channel := "chat:" + room
	pubsub := h.redisClient.Subscribe(c.Request.Context(), channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		log.Printf("Failed to subscribe to redis channel: %v", err)
		return
	}

	ch := pubsub.Channel()
	clientClosed := make(chan struct{})

	go func() {
		defer close(clientClosed)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var incoming struct {
				Content string `json:"content"`
			}
			if err := json.Unmarshal(data, &incoming); err != nil || incoming.Content == "" {
				continue
			}

			msg := ChatMessage{
				Room:      room,
				UserID:    user.ID,
				UserName:  user.FirstName + " " + user.LastName,
				Content:   incoming.Content,
				Timestamp: time.Now().Unix(),
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}

			if err := h.redisClient.Publish(c.Request.Context(), channel, payload).Err(); err != nil {
				log.Printf("Failed to publish chat message: %v", err)
			}
		}
	}()

	for {
		select {
		case msg := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("Failed to write message to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
