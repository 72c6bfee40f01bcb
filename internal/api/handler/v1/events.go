package v1

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tradecard/cardmint/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// EventFeedHandler fans registry events out to websocket subscribers. It
// implements service.EventPublisher; Publish is best-effort and never blocks
// the mint path.
type EventFeedHandler struct {
	subscribers map[*subscriber]struct{}
	subsMutex   sync.RWMutex
	broadcast   chan []byte
	register    chan *subscriber
	unregister  chan *subscriber
}

func NewEventFeedHandler() *EventFeedHandler {
	return &EventFeedHandler{
		subscribers: make(map[*subscriber]struct{}),
		broadcast:   make(chan []byte, 64),
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
	}
}

func (h *EventFeedHandler) Run() {
	for {
		select {
		case sub := <-h.register:
			h.subsMutex.Lock()
			h.subscribers[sub] = struct{}{}
			h.subsMutex.Unlock()
		case sub := <-h.unregister:
			h.subsMutex.Lock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.send)
			}
			h.subsMutex.Unlock()
		case message := <-h.broadcast:
			h.subsMutex.Lock()
			for sub := range h.subscribers {
				select {
				case sub.send <- message:
				default:
					close(sub.send)
					delete(h.subscribers, sub)
				}
			}
			h.subsMutex.Unlock()
		}
	}
}

// Publish implements service.EventPublisher. Events are dropped when the
// broadcast buffer is full rather than stalling the caller.
func (h *EventFeedHandler) Publish(event domain.Event) {
	message, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("marshal event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- message:
	default:
		zap.L().Warn("event feed backlogged, dropping event", zap.String("type", string(event.Type)))
	}
}

// HandleEventFeed godoc
// @Summary      Subscribe to the live event feed
// @Description  Streams registry events (mints, price updates, token changes, withdrawals) over a WebSocket
// @Tags         events
// @Produce      json
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Failure      500  {object}  response.Err
// @Router       /events/feed [get]
func (h *EventFeedHandler) HandleEventFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("websocket upgrade", zap.Error(err))
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- sub

	go sub.writePump()
	go sub.readPump(h)
}

func (s *subscriber) writePump() {
	defer func() {
		s.conn.Close()
	}()
	for message := range s.send {
		w, err := s.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	s.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// The feed is read-only; incoming frames are drained so pings and close
// handshakes work.
func (s *subscriber) readPump(h *EventFeedHandler) {
	defer func() {
		h.unregister <- s
		s.conn.Close()
	}()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("event feed read", zap.Error(err))
			}
			break
		}
	}
}
