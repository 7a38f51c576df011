package auth

import (
	"net/http"
	"net/url"
	"strings"
)

// SessionResolver extracts a caller identity from request headers.  It
// tries the two trust boundaries in order: the Authorization header
// (bearer API credential) and then the named session cookie (browser
// credential).  Absence of authentication is represented as nil, never as
// an error; a guard turns nil into 401 at the transport boundary.
type SessionResolver struct {
	Issuer     *Issuer
	CookieName string
}

func NewSessionResolver(issuer *Issuer, cookieName string) *SessionResolver {
	return &SessionResolver{Issuer: issuer, CookieName: cookieName}
}

// ResolveFromHeaders returns the first identity that verifies, or nil.
func (r *SessionResolver) ResolveFromHeaders(h http.Header) *Identity {
	if auth := h.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		raw := strings.TrimPrefix(auth, "Bearer ")
		if id := r.Issuer.VerifyAccessToken(strings.TrimSpace(raw)); id != nil {
			return id
		}
	}
	if raw := cookieValue(h.Get("Cookie"), r.CookieName); raw != "" {
		if id := r.Issuer.VerifySessionToken(raw); id != nil {
			return id
		}
	}
	return nil
}

// cookieValue pulls a single cookie out of a raw Cookie header.  The value
// is URL-decoded because the session token is percent-encoded when the
// cookie is set.
func cookieValue(header, name string) string {
	if header == "" || name == "" {
		return ""
	}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		k, v, ok := strings.Cut(part, "=")
		if !ok || k != name {
			continue
		}
		if decoded, err := url.QueryUnescape(v); err == nil {
			return decoded
		}
		return v
	}
	return ""
}
