package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"novel-adventure/internal/domain"
)

// Типы сообщений
const (
	MessageTypeSnapshot = "snapshot"
	MessageTypeError    = "error"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// Message представляет сообщение для отправки через WebSocket
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ErrorPayload - полезная нагрузка сообщения об ошибке.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Client представляет WebSocket-клиента
type Client struct {
	ID   uuid.UUID
	Conn *websocket.Conn
	Hub  *Hub
	Send chan []byte
}

// Hub рассылает снимки сессии и ошибки подключенным окнам просмотра.
// Реализует service.Observer и service.ErrorSink.
type Hub struct {
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once
	upgrader   websocket.Upgrader
	logger     *zap.Logger

	// latest - последний снимок. Снимки не ставятся в очередь: OnSnapshot
	// перезаписывает latest и будит Run через snapshotReady (емкость 1).
	latestMu      sync.Mutex
	latest        []byte
	snapshotReady chan struct{}
}

// NewHub создает хаб. Пустой allowedOrigins разрешает любой Origin.
func NewHub(allowedOrigins []string, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:     make(chan []byte, sendBufferSize),
		done:          make(chan struct{}),
		snapshotReady: make(chan struct{}, 1),
		logger:        logger.Named("WebSocketHub"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Run обслуживает клиентов до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.logger.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.clients[client.ID] = client
			if latest := h.latestSnapshot(); latest != nil {
				client.Send <- latest
			}
			h.logger.Debug("Client connected", zap.String("client_id", client.ID.String()))

		case client := <-h.unregister:
			if _, ok := h.clients[client.ID]; ok {
				close(client.Send)
				delete(h.clients, client.ID)
				h.logger.Debug("Client disconnected", zap.String("client_id", client.ID.String()))
			}

		case <-h.snapshotReady:
			h.fanOut(h.latestSnapshot())

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) fanOut(data []byte) {
	if data == nil {
		return
	}
	for id, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Клиент не успевает читать
			close(client.Send)
			delete(h.clients, id)
			h.logger.Warn("Dropping slow client", zap.String("client_id", id.String()))
		}
	}
}

func (h *Hub) latestSnapshot() []byte {
	h.latestMu.Lock()
	defer h.latestMu.Unlock()
	return h.latest
}

// OnSnapshot запоминает снимок и будит рассылку. Не блокируется;
// промежуточные снимки могут схлопнуться, последний доходит всегда.
func (h *Hub) OnSnapshot(snapshot domain.Snapshot) {
	data, err := h.marshal(Message{Type: MessageTypeSnapshot, Payload: snapshot})
	if err != nil {
		return
	}

	h.latestMu.Lock()
	h.latest = data
	h.latestMu.Unlock()

	select {
	case h.snapshotReady <- struct{}{}:
	default:
	}
}

// Report рассылает сообщение об ошибке хода.
func (h *Hub) Report(_ context.Context, err error) {
	data, mErr := h.marshal(Message{Type: MessageTypeError, Payload: ErrorPayload{Message: err.Error()}})
	if mErr != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("Broadcast queue is full, error message dropped")
	}
}

func (h *Hub) marshal(message Message) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal message", zap.String("type", message.Type), zap.Error(err))
	}
	return data, err
}

// Handler обрабатывает новые WebSocket-соединения
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("Upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:   uuid.New(),
			Conn: conn,
			Hub:  h,
			Send: make(chan []byte, sendBufferSize),
		}

		select {
		case h.register <- client:
		case <-h.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "hub stopped"), time.Now().Add(writeWait))
			_ = conn.Close()
			return
		}

		go client.readPump()
		go client.writePump()
	})
}

// readPump держит соединение: входящие сообщения не используются, но нужны для pong.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Debug("Read error", zap.String("client_id", c.ID.String()), zap.Error(err))
			}
			return
		}
	}
}

// writePump отправляет сообщения клиенту, по одному JSON на кадр.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрыт хабом
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
