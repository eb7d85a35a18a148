package sse

import (
	"encoding/json"
	"io"
	"log"

	"github.com/gin-gonic/gin"
)

// Event is one server-sent event targeted at a single user.
type Event struct {
	UserID  string
	Type    string
	Payload interface{}
}

type client struct {
	userID string
	ch     chan Event
}

// Manager fans events out to the connected clients of each user. Presentation
// subscribes here instead of polling the pipeline.
type Manager struct {
	clients    map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
	events     chan Event
}

// NewManager creates a new SSE manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan Event, 256),
	}
}

// Run processes register/unregister/event traffic. Call in a goroutine.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			if m.clients[c.userID] == nil {
				m.clients[c.userID] = make(map[*client]struct{})
			}
			m.clients[c.userID][c] = struct{}{}

		case c := <-m.unregister:
			if conns, ok := m.clients[c.userID]; ok {
				if _, ok := conns[c]; ok {
					delete(conns, c)
					close(c.ch)
					if len(conns) == 0 {
						delete(m.clients, c.userID)
					}
				}
			}

		case event := <-m.events:
			for c := range m.clients[event.UserID] {
				select {
				case c.ch <- event:
				default:
					// Slow client, drop the event rather than block the loop.
				}
			}
		}
	}
}

// SendToUser delivers an event to every connection the user holds.
func (m *Manager) SendToUser(userID string, eventType string, payload interface{}) {
	select {
	case m.events <- Event{UserID: userID, Type: eventType, Payload: payload}:
	default:
		log.Printf("[SSE] Event queue full, dropping %s event for %s", eventType, userID)
	}
}

// ServeHTTP streams events for the user until the connection closes.
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	conn := &client{userID: userID, ch: make(chan Event, 16)}
	m.register <- conn
	defer func() { m.unregister <- conn }()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-conn.ch:
			if !ok {
				return false
			}
			data, err := json.Marshal(event.Payload)
			if err != nil {
				return true
			}
			c.SSEvent(event.Type, string(data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
