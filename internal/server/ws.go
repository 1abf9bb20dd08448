package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/logger"
)

const (
	// wsWriteTimeout bounds a single frame write so one stuck client
	// cannot pin its writer goroutine.
	wsWriteTimeout = 5 * time.Second

	// wsSendBuffer is the per-client queue; when it fills, snapshots
	// are dropped and the client catches up from a later one.
	wsSendBuffer = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateHandler pushes pipeline state snapshots to WebSocket clients.
// One JSON message is sent for every published state change, plus one
// on connect so the canvas can draw immediately.
type StateHandler struct {
	app     *app.App
	mu      sync.RWMutex
	clients map[chan []byte]bool
	done    chan struct{}
	once    sync.Once
}

// NewStateHandler creates a StateHandler subscribed to the app's state
// feed.
func NewStateHandler(a *app.App) *StateHandler {
	h := &StateHandler{
		app:     a,
		clients: make(map[chan []byte]bool),
		done:    make(chan struct{}),
	}
	a.OnStateChange(h.broadcast)
	return h
}

// broadcast fans a state snapshot out to every connected client. Runs
// on the pipeline goroutine, so sends never block: a client that cannot
// keep up loses intermediate snapshots, not the connection.
func (h *StateHandler) broadcast(st app.State) {
	msg, err := json.Marshal(st)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// ServeHTTP upgrades the connection and streams state messages until
// the client disconnects or the hub shuts down.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Queue the current state before joining the hub, so a fresh
	// client is never blank and the send cannot block.
	ch := make(chan []byte, wsSendBuffer)
	if msg, err := json.Marshal(h.app.State()); err == nil {
		ch <- msg
	}

	h.mu.Lock()
	h.clients[ch] = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}()

	// The reader only notices disconnects; clients send nothing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg := <-ch:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-closed:
			return
		case <-h.done:
			return
		}
	}
}

// Close disconnects all clients and stops accepting broadcasts.
func (h *StateHandler) Close() {
	h.once.Do(func() {
		close(h.done)
	})
}
