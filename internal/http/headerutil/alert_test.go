package headerutil

import (
	"net/http"
	"testing"
)

func TestAlertHeaders(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	EntityDeletion(h, "article", "12")
	if got := h.Get("X-noviApp-alert"); got != "noviApp.article.deleted" {
		t.Fatalf("alert = %q", got)
	}
	if got := h.Get("X-noviApp-params"); got != "12" {
		t.Fatalf("params = %q", got)
	}

	h = http.Header{}
	Failure(h, "onlineOrder", "idexists")
	if h.Get("X-noviApp-error") != "error.idexists" || h.Get("X-noviApp-params") != "onlineOrder" {
		t.Fatalf("failure headers = %v", h)
	}
}
