package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesCollectors(t *testing.T) {
	t.Parallel()
	m := New()
	m.ObserveRequest("GET", "/api/articles", "200", 15*time.Millisecond)
	m.CountChange("article", "deleted")
	m.GaugeFunc("websocket_clients", "Connected websocket clients.", func() float64 { return 3 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`novi_http_request_duration_seconds_count{method="GET",route="/api/articles",status="200"} 1`,
		`novi_entity_changes_total{action="deleted",entity="article"} 1`,
		`novi_websocket_clients 3`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
