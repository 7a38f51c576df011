package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenClaims is the JWT payload shared by both token families.  The
// subject is the user ID; TokenType pins the token to one family so a
// cookie credential can never be replayed as a bearer credential even if
// the two secrets were ever configured to the same value.
type tokenClaims struct {
	Provider  string `json:"provider,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Picture   string `json:"picture,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies the two independent token families.  It is
// stateless and safe for concurrent use.
type Issuer struct {
	sessionSecret []byte
	accessSecret  []byte
	sessionTTL    time.Duration // 0 means session tokens carry no expiry
	accessTTL     time.Duration
}

// NewIssuer builds an Issuer from the two signing secrets.  Missing key
// material is a construction-time error: callers treat it as fatal at
// startup rather than discovering it on the first request.
func NewIssuer(sessionSecret, accessSecret string, sessionTTL, accessTTL time.Duration) (*Issuer, error) {
	if sessionSecret == "" {
		return nil, errors.New("session token secret is not configured")
	}
	if accessSecret == "" {
		return nil, errors.New("access token secret is not configured")
	}
	return &Issuer{
		sessionSecret: []byte(sessionSecret),
		accessSecret:  []byte(accessSecret),
		sessionTTL:    sessionTTL,
		accessTTL:     accessTTL,
	}, nil
}

// CreateSessionToken signs a session-family JWT for a browser session.
func (i *Issuer) CreateSessionToken(id Identity) (string, error) {
	return i.sign(id, TokenTypeSession, i.sessionSecret, i.sessionTTL)
}

// CreateAccessToken signs an access-family JWT for API callers.
func (i *Issuer) CreateAccessToken(id Identity) (string, error) {
	return i.sign(id, TokenTypeAccess, i.accessSecret, i.accessTTL)
}

func (i *Issuer) sign(id Identity, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Provider:  id.Provider,
		Email:     id.Email,
		Name:      id.Name,
		Picture:   id.Picture,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(id.UserID, 10),
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// VerifySessionToken verifies a token under the session secret.  It
// returns nil on any failure: bad signature, expiry, wrong signing method,
// or a token_type that is present but not "oauth_session".  Absence of
// authentication is not an error condition here; guards decide what a nil
// identity means.
func (i *Issuer) VerifySessionToken(raw string) *Identity {
	claims := i.verify(raw, i.sessionSecret)
	if claims == nil {
		return nil
	}
	if claims.TokenType != "" && claims.TokenType != TokenTypeSession {
		return nil
	}
	return identityFromClaims(claims)
}

// VerifyAccessToken verifies a token under the access secret.  The
// token_type must be absent, "access", or the legacy "local_access" tag
// still in circulation from before the family split.
func (i *Issuer) VerifyAccessToken(raw string) *Identity {
	claims := i.verify(raw, i.accessSecret)
	if claims == nil {
		return nil
	}
	switch claims.TokenType {
	case "", TokenTypeAccess, TokenTypeLegacyAccess:
		return identityFromClaims(claims)
	}
	return nil
}

func (i *Issuer) verify(raw string, secret []byte) *tokenClaims {
	if raw == "" {
		return nil
	}
	parsed, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return nil
	}
	return claims
}

func identityFromClaims(claims *tokenClaims) *Identity {
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil
	}
	return &Identity{
		UserID:   uid,
		Provider: claims.Provider,
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
	}
}
