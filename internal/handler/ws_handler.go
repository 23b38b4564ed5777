package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yourusername/examportal-api/internal/middleware"
	ws "github.com/yourusername/examportal-api/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Кросс-доменные подключения разрешены: доступ контролируется токеном
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler обрабатывает WebSocket-подключения
type WSHandler struct {
	hub *ws.Hub
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleConnection устанавливает WebSocket-соединение для уведомлений.
// Токен передается query-параметром (браузерный WebSocket API не умеет
// выставлять заголовок Authorization).
// GET /api/ws?token=...
func (h *WSHandler) HandleConnection(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	go client.WritePump()
	go client.ReadPump()
}
