package realtime

import (
	"context"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func drain(t *testing.T, c *Client) []Message {
	t.Helper()
	var out []Message
	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				return out
			}
			var m Message
			if err := json.Unmarshal(raw, &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestHubBroadcastRouting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := NewHub(nil)

	articles := NewClient(h, nil, 4)
	orders := NewClient(h, nil, 4)
	all := NewClient(h, nil, 4)
	h.Attach(articles, []string{"articleListModification"})
	h.Attach(orders, []string{"onlineOrder.deleted"})
	h.Attach(all, nil)

	h.Broadcast(ctx, ListModification("article", "Deleted an article"))

	got := drain(t, articles)
	if len(got) != 1 || got[0].Name != "articleListModification" || got[0].Content != "Deleted an article" {
		t.Fatalf("articles client got %+v", got)
	}
	if got := drain(t, orders); len(got) != 0 {
		t.Fatalf("orders client got %+v", got)
	}
	if got := drain(t, all); len(got) != 1 {
		t.Fatalf("global client got %d messages, want 1", len(got))
	}
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := NewHub(nil)
	c := NewClient(h, nil, 4)
	h.Attach(c, []string{"a"})

	c.handle(command{Action: "subscribe", Topic: "b"})
	c.handle(command{Action: "UNSUBSCRIBE", Topic: "a"})

	h.Broadcast(ctx, &Message{Topic: "a"})
	h.Broadcast(ctx, &Message{Topic: "b"})

	got := drain(t, c)
	if len(got) != 1 || got[0].Topic != "b" {
		t.Fatalf("got %+v, want one message on b", got)
	}
}

func TestHubDetachesSlowClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := NewHub(nil)
	c := NewClient(h, nil, 1)
	h.Attach(c, []string{"t"})

	h.Broadcast(ctx, &Message{Topic: "t"})
	h.Broadcast(ctx, &Message{Topic: "t"})

	if n := h.Len(); n != 0 {
		t.Fatalf("Len = %d, want slow client detached", n)
	}
	// buffered frame is still delivered, then the channel is closed
	if got := drain(t, c); len(got) != 1 {
		t.Fatalf("got %d frames, want 1", len(got))
	}
	h.Detach(c)
}

func TestParseTopics(t *testing.T) {
	t.Parallel()
	got := ParseTopics(" a, ,b,")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("ParseTopics = %v", got)
	}
	if ParseTopics("") != nil {
		t.Fatalf("empty input should yield nil")
	}
}
