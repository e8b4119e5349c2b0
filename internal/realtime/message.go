// Package realtime fans entity change notifications out to connected admin
// browsers over websockets.
package realtime

import (
	"context"
	"strings"
	"time"
)

// Message is the JSON frame sent to websocket clients. Name and Content carry
// list-modification notices; Entity, Action and Data carry change events.
type Message struct {
	Topic      string    `json:"topic"`
	Name       string    `json:"name,omitempty"`
	Content    string    `json:"content,omitempty"`
	Entity     string    `json:"entity,omitempty"`
	Action     string    `json:"action,omitempty"`
	ResourceID int64     `json:"resourceId,omitempty"`
	Data       any       `json:"data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Broadcaster delivers a message to every interested subscriber.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *Message)
}

// ListModificationName is the event name admin list screens listen for.
func ListModificationName(entity string) string { return entity + "ListModification" }

// ListModification builds the notice emitted after a list-changing action.
func ListModification(entity, content string) *Message {
	name := ListModificationName(entity)
	return &Message{
		Topic:     name,
		Name:      name,
		Content:   content,
		Entity:    entity,
		Timestamp: time.Now().UTC(),
	}
}

// ChangeTopic is the topic change events are published on.
func ChangeTopic(entity, action string) string {
	return entity + "." + strings.ToLower(action)
}

// ParseTopics splits a comma separated topic list, dropping blanks.
func ParseTopics(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
