package session

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSetCookie_Attributes(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, "tok", 86400, true)

	h := rec.Header().Get("Set-Cookie")
	for _, want := range []string{"session_token=tok", "Path=/", "Max-Age=86400", "HttpOnly", "Secure", "SameSite=Lax"} {
		if !strings.Contains(h, want) {
			t.Errorf("Set-Cookie %q missing %q", h, want)
		}
	}
}

func TestSetCookie_InsecureOmitsSecure(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, "tok", 60, false)

	if h := rec.Header().Get("Set-Cookie"); strings.Contains(h, "Secure") {
		t.Errorf("Set-Cookie %q should not be Secure", h)
	}
}

func TestClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearCookie(rec, false)

	h := rec.Header().Get("Set-Cookie")
	for _, want := range []string{"session_token=;", "Max-Age=0", "HttpOnly", "SameSite=Lax", "Path=/"} {
		if !strings.Contains(h, want) {
			t.Errorf("Set-Cookie %q missing %q", h, want)
		}
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromRequest(r); got != "" {
		t.Errorf("no cookie: got %q", got)
	}

	r.Header.Set("Cookie", "theme=dark; session_token=abc")
	if got := TokenFromRequest(r); got != "abc" {
		t.Errorf("got %q, want abc", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", "garbage;;;===")
	if got := TokenFromRequest(r); got != "" {
		t.Errorf("garbage cookie: got %q", got)
	}
}

func TestIsSecureRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsSecureRequest(r, true) {
		t.Error("plain request reported secure")
	}

	r.TLS = &tls.ConnectionState{}
	if !IsSecureRequest(r, false) {
		t.Error("TLS request reported insecure")
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https, http")
	if IsSecureRequest(r, false) {
		t.Error("forwarded proto must be ignored unless trusted")
	}
	if !IsSecureRequest(r, true) {
		t.Error("trusted forwarded https reported insecure")
	}
}
