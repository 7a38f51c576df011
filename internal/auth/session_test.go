package auth

import (
	"net/http"
	"net/url"
	"testing"
)

func TestResolveFromHeaders(t *testing.T) {
	issuer := newTestIssuer(t)
	resolver := NewSessionResolver(issuer, "td_session")

	id := Identity{UserID: 11, Provider: "local", Email: "f@x.com"}
	access, _ := issuer.CreateAccessToken(id)
	session, _ := issuer.CreateSessionToken(id)

	t.Run("bearer header wins", func(t *testing.T) {
		h := http.Header{}
		h.Set("Authorization", "Bearer "+access)
		got := resolver.ResolveFromHeaders(h)
		if got == nil || got.UserID != 11 {
			t.Fatalf("expected user 11, got %+v", got)
		}
	})

	t.Run("falls back to cookie", func(t *testing.T) {
		h := http.Header{}
		h.Set("Cookie", "other=1; td_session="+url.QueryEscape(session)+"; trailing=x")
		got := resolver.ResolveFromHeaders(h)
		if got == nil || got.UserID != 11 {
			t.Fatalf("expected user 11 from cookie, got %+v", got)
		}
	})

	t.Run("invalid bearer falls through to cookie", func(t *testing.T) {
		h := http.Header{}
		h.Set("Authorization", "Bearer not-a-token")
		h.Set("Cookie", "td_session="+url.QueryEscape(session))
		got := resolver.ResolveFromHeaders(h)
		if got == nil || got.UserID != 11 {
			t.Fatalf("expected cookie identity, got %+v", got)
		}
	})

	t.Run("session token in bearer position is rejected", func(t *testing.T) {
		h := http.Header{}
		h.Set("Authorization", "Bearer "+session)
		if got := resolver.ResolveFromHeaders(h); got != nil {
			t.Fatalf("session token accepted as bearer: %+v", got)
		}
	})

	t.Run("nothing resolves to nil", func(t *testing.T) {
		if got := resolver.ResolveFromHeaders(http.Header{}); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("missing cookie name resolves to nil", func(t *testing.T) {
		h := http.Header{}
		h.Set("Cookie", "unrelated=abc; another=def")
		if got := resolver.ResolveFromHeaders(h); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})
}

func TestCookieValue(t *testing.T) {
	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"single", "a=1", "a", "1"},
		{"multiple with spaces", "a=1;  b=2 ; c=3", "b", "2"},
		{"url encoded", "tok=abc%3Ddef", "tok", "abc=def"},
		{"absent", "a=1", "z", ""},
		{"empty header", "", "a", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cookieValue(tc.header, tc.cookie); got != tc.want {
				t.Fatalf("cookieValue(%q, %q) = %q, want %q", tc.header, tc.cookie, got, tc.want)
			}
		})
	}
}
