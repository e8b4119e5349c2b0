package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"novi.com/app/pkg/view"
)

func TestCodec(t *testing.T) {
	t.Parallel()
	c := NewCodec([]byte("k"), "", false)
	if c.CookieName != DefaultCookieName {
		t.Fatalf("cookie name = %q", c.CookieName)
	}

	v, err := c.Encode(view.Flash{Kind: view.FlashSuccess, Message: "Deleted an article"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	f, err := c.Decode(v)
	if err != nil || f.Message != "Deleted an article" || f.Kind != view.FlashSuccess {
		t.Fatalf("Decode = %+v, %v", f, err)
	}

	other := NewCodec([]byte("other"), "", false)
	if _, err := other.Decode(v); err != ErrInvalid {
		t.Fatalf("foreign signature accepted: %v", err)
	}
	for _, bad := range []string{"", "nodot", v + "x"} {
		if _, err := c.Decode(bad); err != ErrInvalid {
			t.Fatalf("Decode(%q) err = %v", bad, err)
		}
	}
}

func TestCookieRoundTrip(t *testing.T) {
	t.Parallel()
	c := NewCodec([]byte("k"), "", true)

	rec := httptest.NewRecorder()
	if err := c.Write(rec, view.Failure("still referenced")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Fatalf("cookies = %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	if !c.Has(req) {
		t.Fatal("Has = false")
	}
	f := c.Read(req)
	if f == nil || f.Kind != view.FlashError || f.Message != "still referenced" {
		t.Fatalf("Read = %+v", f)
	}

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: cookies[0].Value + "x"})
	if c.Read(tampered) != nil {
		t.Fatal("tampered cookie accepted")
	}

	rec = httptest.NewRecorder()
	c.Clear(rec)
	if got := rec.Result().Cookies(); len(got) != 1 || got[0].MaxAge >= 0 {
		t.Fatalf("Clear cookies = %+v", got)
	}
}
