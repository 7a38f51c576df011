package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The two JWT secrets are required and
// independent: session tokens (browser cookie) and access tokens (bearer
// API credential) must never share key material.
type Config struct {
	Env               string // application environment ("dev", "test", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host address
	DBPort            string // database port number
	DBName            string // database name
	SessionJWTSecret  string // secret signing session (cookie) tokens
	AccessJWTSecret   string // secret signing access (bearer) tokens
	SessionCookieName string // name of the httpOnly session cookie
	SessionTTLMin     int    // session token TTL in minutes (0 = no expiry claim)
	AccessTTLMin      int    // access token TTL in minutes
	BcryptCost        int    // bcrypt cost for password hashing
	FrontendURL       string // SPA origin for OAuth-callback redirects
}

// Load reads configuration from environment variables.  Required values
// are enforced by must(); missing ones abort startup.  Secrets failing
// here rather than per-request is deliberate: a misconfigured signing key
// must never serve traffic.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		SessionJWTSecret:  must("SESSION_JWT_SECRET"),
		AccessJWTSecret:   must("ACCESS_JWT_SECRET"),
		SessionCookieName: getenv("SESSION_COOKIE_NAME", "td_session"),
		SessionTTLMin:     atoi(getenv("SESSION_TOKEN_TTL_MIN", "0")),
		AccessTTLMin:      mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:        mustInt("BCRYPT_COST"),
		FrontendURL:       getenv("FRONTEND_URL", "http://localhost:3000"),
	}
}

// IsProd reports whether the deployment is production.  Development
// conveniences (returning raw reset tokens in responses) key off this.
func (c Config) IsProd() bool { return c.Env == "prod" }

// must retrieves a required environment variable or aborts startup.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
