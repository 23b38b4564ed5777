package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Event представляет серверное уведомление, доставляемое по WebSocket.
// Это побочный канал fire-and-forget: доставка не гарантируется и не
// участвует в контракте подсчета результатов.
type Event struct {
	Type    string      `json:"type"` // exam_created, note_created, result_ready
	Payload interface{} `json:"payload,omitempty"`
}

// Типы событий
const (
	EventExamCreated = "exam_created"
	EventNoteCreated = "note_created"
	EventResultReady = "result_ready"
)

// Hub управляет подключенными WebSocket-клиентами и рассылкой событий
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, 256),
	}
}

// Run обрабатывает регистрацию клиентов и рассылку до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[WSHub] Клиент %s подключен (user=%d), всего: %d", client.ID, client.UserID, h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Переполненный буфер — клиент безнадежно отстал, отключаем
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			log.Println("[WSHub] Хаб остановлен")
			return
		}
	}
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast рассылает событие всем подключенным клиентам
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WSHub] Ошибка сериализации события %s: %v", event.Type, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("[WSHub] Буфер рассылки переполнен, событие %s отброшено", event.Type)
	}
}

// SendToUser отправляет событие всем подключениям конкретного пользователя
func (h *Hub) SendToUser(userID uint, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WSHub] Ошибка сериализации события %s: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Буфер клиента переполнен — событие для него теряется
		}
	}
}
