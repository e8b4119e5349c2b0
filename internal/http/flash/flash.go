// Package flash signs one-shot notification cookies shown after a redirect.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"novi.com/app/pkg/view"
)

var ErrInvalid = errors.New("invalid flash cookie")

const DefaultCookieName = "novi_flash"

type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
}

func NewCodec(secret []byte, cookieName string, secure bool) *Codec {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Codec{Secret: secret, CookieName: cookieName, Secure: secure}
}

// value format: base64(json).base64(hmac)
func (c *Codec) Encode(f view.Flash) (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + sign(c.Secret, payload), nil
}

func (c *Codec) Decode(v string) (*view.Flash, error) {
	payload, sig, ok := strings.Cut(v, ".")
	if !ok || !verify(c.Secret, payload, sig) {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalid
	}
	var f view.Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, ErrInvalid
	}
	if strings.TrimSpace(f.Message) == "" {
		return nil, ErrInvalid
	}
	return &f, nil
}

// cookieMaxAge is short: the cookie only has to survive one redirect.
const cookieMaxAge = 2 * time.Minute

// Read returns the flash carried by r, or nil when there is none or its
// signature does not verify.
func (c *Codec) Read(r *http.Request) *view.Flash {
	ck, err := r.Cookie(c.CookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	f, err := c.Decode(ck.Value)
	if err != nil {
		return nil
	}
	return f
}

// Has reports whether r carries a flash cookie at all.
func (c *Codec) Has(r *http.Request) bool {
	_, err := r.Cookie(c.CookieName)
	return err == nil
}

func (c *Codec) Write(w http.ResponseWriter, f view.Flash) error {
	v, err := c.Encode(f)
	if err != nil {
		return err
	}
	http.SetCookie(w, c.cookie(v, int(cookieMaxAge.Seconds())))
	return nil
}

func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c *Codec) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verify(secret []byte, payload, sig string) bool {
	return hmac.Equal([]byte(sign(secret, payload)), []byte(sig))
}
