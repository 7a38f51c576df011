package auth

// Token type tags embedded in JWT claims.  The tag pins a token to the
// channel it was minted for: session tokens ride in the httpOnly cookie of
// a browser session, access tokens ride in the Authorization header of API
// calls.  TokenTypeLegacyAccess is accepted on verification for tokens
// issued before the tag split but is never issued anymore.
const (
	TokenTypeSession      = "oauth_session"
	TokenTypeAccess       = "access"
	TokenTypeLegacyAccess = "local_access"
)

// Identity is the snapshot of a verified principal carried inside tokens
// and exchange codes.  It is enough to resolve or provision the durable
// user record without a second trip to the identity provider.
type Identity struct {
	UserID   uint64 `json:"user_id"`
	Provider string `json:"provider"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
}
