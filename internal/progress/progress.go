// Package progress broadcasts pipeline stage and replay milestones to
// a single live websocket client. It is additive (SPEC_FULL.md §3.2): CLI
// text output doesn't depend on it, but a connected client sees the
// same stage-start/finish and per-test replay events as the caller
// reports them.
package progress

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event types broadcast over the feed.
const (
	EventStageStart  = "stage_start"
	EventStageFinish = "stage_finish"
	EventReplayDone  = "replay_done"
)

// Message is the envelope written to the single active client.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// StageEvent marks a pipeline stage's start or finish.
type StageEvent struct {
	Stage string `json:"stage"`
	Count int    `json:"count,omitempty"`
}

// ReplayEvent marks completion of a single replayed test case.
type ReplayEvent struct {
	TestID   string `json:"test_id"`
	Success  bool   `json:"success"`
	Severity string `json:"severity,omitempty"`
}

// Hub manages at most one active websocket connection: a newly
// registered client evicts any previous one, and a broadcast silently
// drops if nobody is connected.
type Hub struct {
	client     *client
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	mutex      sync.RWMutex
}

// NewHub builds a Hub. Call Run in its own goroutine before Broadcast
// or ServeWS are used.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Run services register/unregister/broadcast until ctx-independent
// shutdown; it never returns on its own and is meant to run in a
// dedicated goroutine for the lifetime of the process.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mutex.Lock()
			if h.client != nil {
				close(h.client.send)
			}
			h.client = c
			h.mutex.Unlock()
			log.Printf("progress: client connected")

		case c := <-h.unregister:
			h.mutex.Lock()
			if h.client == c {
				close(h.client.send)
				h.client = nil
				log.Printf("progress: client disconnected")
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.RLock()
			if h.client != nil {
				select {
				case h.client.send <- message:
				default:
					log.Printf("progress: client send buffer full, disconnecting")
					close(h.client.send)
					h.client = nil
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// Broadcast encodes and delivers an event to the active client, if
// any. It never blocks the caller beyond enqueueing onto the internal
// channel.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	msg := Message{Type: eventType, Data: data, Timestamp: time.Now().Unix()}
	encoded, err := json.Marshal(msg)
	if err != nil {
		log.Printf("progress: failed to marshal event: %v", err)
		return
	}

	h.mutex.RLock()
	hasClient := h.client != nil
	h.mutex.RUnlock()
	if !hasClient {
		return
	}
	h.broadcast <- encoded
}

// StageStarted and StageFinished are convenience wrappers around
// Broadcast for the two stage-level event types.
func (h *Hub) StageStarted(stage string) {
	h.Broadcast(EventStageStart, StageEvent{Stage: stage})
}

func (h *Hub) StageFinished(stage string, count int) {
	h.Broadcast(EventStageFinish, StageEvent{Stage: stage, Count: count})
}

func (h *Hub) ReplayCompleted(testID string, success bool, severity string) {
	h.Broadcast(EventReplayDone, ReplayEvent{TestID: testID, Success: success, Severity: severity})
}

// ServeWS upgrades r into a websocket connection and registers it with
// the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("progress: upgrade failed: %v", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 256)}
	c.hub.register <- c

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("progress: read error: %v", err)
			}
			break
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
