package bridge

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// EventBroadcaster pushes tool-execution events to WebSocket subscribers.
// Broadcasting never blocks request dispatch: slow or broken clients are
// dropped.
type EventBroadcaster struct {
	clients  map[string]*eventClient
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   zerolog.Logger
	seq      uint64
}

type eventClient struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(logger zerolog.Logger) *EventBroadcaster {
	return &EventBroadcaster{
		clients: make(map[string]*eventClient),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleSubscribe upgrades the request to a WebSocket and keeps the client
// registered until it disconnects.
func (b *EventBroadcaster) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn().Err(err).Msg("Failed to upgrade events connection")
		return
	}

	clientID, _ := gonanoid.New()
	client := &eventClient{id: clientID, conn: conn}

	b.mu.Lock()
	b.clients[clientID] = client
	b.mu.Unlock()

	b.logger.Debug().Str("clientId", clientID).Msg("Events client connected")

	// Drain incoming frames so close/ping control messages are processed;
	// subscribers are not expected to send anything.
	go func() {
		defer b.remove(clientID)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends an event to all connected subscribers.
func (b *EventBroadcaster) Broadcast(event string, data interface{}) {
	msg := EventMessage{
		Type:      "event",
		Event:     event,
		Data:      data,
		Seq:       int64(atomic.AddUint64(&b.seq, 1)),
		Timestamp: time.Now().UnixMilli(),
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal event")
		return
	}

	b.mu.RLock()
	clients := make([]*eventClient, 0, len(b.clients))
	for _, c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, client := range clients {
		client.writeMu.Lock()
		err := client.conn.WriteMessage(websocket.TextMessage, jsonData)
		client.writeMu.Unlock()
		if err != nil {
			b.logger.Warn().
				Err(err).
				Str("clientId", client.id).
				Str("event", event).
				Msg("Failed to broadcast to client, dropping")
			b.remove(client.id)
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (b *EventBroadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close disconnects all subscribers.
func (b *EventBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, client := range b.clients {
		client.conn.Close()
		delete(b.clients, id)
	}
}

func (b *EventBroadcaster) remove(clientID string) {
	b.mu.Lock()
	client, exists := b.clients[clientID]
	if exists {
		delete(b.clients, clientID)
	}
	b.mu.Unlock()

	if exists {
		client.conn.Close()
		b.logger.Debug().Str("clientId", clientID).Msg("Events client disconnected")
	}
}
