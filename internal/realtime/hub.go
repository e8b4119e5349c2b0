package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"
)

type Hub struct {
	mu      sync.RWMutex
	topics  map[string]map[*Client]struct{}
	global  map[*Client]struct{}
	clients map[*Client]struct{}
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		global:  make(map[*Client]struct{}),
		clients: make(map[*Client]struct{}),
		log:     log,
	}
}

// Attach registers c. With no topics the client receives every message.
func (h *Hub) Attach(c *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if len(topics) == 0 {
		h.global[c] = struct{}{}
		return
	}
	for _, t := range topics {
		h.subscribeLocked(c, t)
	}
}

func (h *Hub) Subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribeLocked(c, topic)
}

func (h *Hub) subscribeLocked(c *Client, topic string) {
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.subscribed[topic] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(c, topic)
}

func (h *Hub) unsubscribeLocked(c *Client, topic string) {
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	delete(c.subscribed, topic)
}

// Detach removes c from every topic and closes it.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic := range c.subscribed {
		h.unsubscribeLocked(c, topic)
	}
	delete(h.global, c)
	delete(h.clients, c)
	c.close()
}

// Len reports the number of attached clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to the topic's subscribers and to global clients.
// Clients whose send buffer is full are detached.
func (h *Hub) Broadcast(ctx context.Context, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.ErrorContext(ctx, "realtime marshal failed", slog.String("topic", msg.Topic), slog.Any("err", err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.topics[msg.Topic])+len(h.global))
	for c := range h.topics[msg.Topic] {
		targets = append(targets, c)
	}
	for c := range h.global {
		if _, dup := h.topics[msg.Topic][c]; !dup {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	var slow []*Client
	for _, c := range targets {
		if !c.enqueue(data) {
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		h.log.WarnContext(ctx, "realtime client too slow, detaching", slog.String("topic", msg.Topic))
		h.Detach(c)
	}
}
