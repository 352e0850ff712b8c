// Package hub fans queue change events out to connected dashboard browsers.
// Clients subscribe to one barber's queue or, with an empty barber id, to
// everything.
package hub

import (
	"encoding/json"
	"expvar"
	"log"
	"sync"
)

var droppedMessages = expvar.NewInt("realtime_dropped_messages_total")

type Subscription struct {
	BarberID string
}

type Client struct {
	ID           string
	Send         chan []byte
	Subscription Subscription
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

type SubscribeMessage struct {
	Action   string `json:"action"`
	BarberID string `json:"barber_id"`
}

func New() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

// Unregister removes the client and closes its send channel. Calling it for
// a client that was never registered, or twice, is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) UpdateSubscription(client *Client, sub Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.Subscription = sub
}

// ClientCount reports the number of connected dashboard sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends the payload to every client whose subscription matches and
// reports how many received it. Slow clients lose messages rather than
// blocking the feed.
func (h *Hub) Broadcast(payload []byte, meta Subscription) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.clients {
		if !client.Subscription.matches(meta) {
			continue
		}
		select {
		case client.Send <- payload:
			delivered++
		default:
			droppedMessages.Add(1)
			log.Printf("drop message for client %s", client.ID)
		}
	}
	return delivered
}

// matches reports whether an event tagged meta should reach this
// subscription. An empty subscription matches everything.
func (sub Subscription) matches(meta Subscription) bool {
	return sub.BarberID == "" || sub.BarberID == meta.BarberID
}

func ParseSubscribe(data []byte) (SubscribeMessage, bool) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SubscribeMessage{}, false
	}
	if msg.Action != "subscribe" && msg.Action != "unsubscribe" {
		return SubscribeMessage{}, false
	}
	return msg, true
}
