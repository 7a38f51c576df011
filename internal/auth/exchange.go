package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stayware/ticketdesk/internal/utils"
)

// codeTTL is how long an exchange code stays valid.  The code only has to
// survive one browser redirect, so the window is kept as small as
// practical to limit replay.
const codeTTL = 60 * time.Second

// codeBytes sized so a code carries 256 bits of entropy, well above the
// floor where guessing within the 60s window is conceivable.
const codeBytes = 32

type codeEntry struct {
	identity  Identity
	expiresAt time.Time
}

// ExchangeCodeBroker bridges a verified identity to a durable access
// token.  OAuth redirects cannot safely carry a bearer token in a URL, so
// login and callback flows hand the browser a short-lived single-use code
// instead; the SPA trades it for the real credential with one API call.
//
// Codes live only in process memory.  That is a documented limitation:
// running more than one instance requires moving this map to an external
// atomically-accessed store, not replicating it silently.
type ExchangeCodeBroker struct {
	mu     sync.Mutex
	codes  map[string]codeEntry
	issuer *Issuer
	users  UserDirectory
	now    func() time.Time
}

// ExchangeResult is what a successful code exchange yields.
type ExchangeResult struct {
	AccessToken string
	User        UserView
}

func NewExchangeCodeBroker(issuer *Issuer, users UserDirectory) *ExchangeCodeBroker {
	return &ExchangeCodeBroker{
		codes:  make(map[string]codeEntry),
		issuer: issuer,
		users:  users,
		now:    time.Now,
	}
}

// Issue stores a fresh code for the identity and returns it.  Expired
// entries are pruned on every touch; at the expected handful of in-flight
// logins a linear scan is cheaper than bookkeeping timers.
func (b *ExchangeCodeBroker) Issue(id Identity) (string, error) {
	code, err := utils.RandomHex(codeBytes)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pruneLocked()
	b.codes[code] = codeEntry{identity: id, expiresAt: b.now().Add(codeTTL)}
	return code, nil
}

// Exchange trades a code for an access token and user view.  The code is
// deleted on first lookup regardless of what happens downstream, so a
// second presentation always fails even when the first one errored later.
func (b *ExchangeCodeBroker) Exchange(ctx context.Context, code string) (ExchangeResult, error) {
	code = strings.TrimSpace(code)

	b.mu.Lock()
	b.pruneLocked()
	entry, ok := b.codes[code]
	if ok {
		delete(b.codes, code)
	}
	b.mu.Unlock()
	if !ok {
		return ExchangeResult{}, ErrInvalidOrExpiredToken
	}

	user, err := b.users.EnsureUserForAuth(ctx, entry.identity)
	if err != nil {
		return ExchangeResult{}, err
	}
	if !user.IsActive {
		return ExchangeResult{}, ErrInactiveAccount
	}

	roles, err := b.users.GetRolesForUser(ctx, user.ID)
	if err != nil {
		return ExchangeResult{}, err
	}
	token, err := b.issuer.CreateAccessToken(Identity{
		UserID:   user.ID,
		Provider: user.AuthProvider,
		Email:    user.Email,
		Name:     user.DisplayName,
		Picture:  user.AvatarURL,
	})
	if err != nil {
		return ExchangeResult{}, err
	}
	return ExchangeResult{AccessToken: token, User: NewUserView(user, roles)}, nil
}

// pruneLocked drops expired entries.  Callers hold b.mu.
func (b *ExchangeCodeBroker) pruneLocked() {
	now := b.now()
	for code, entry := range b.codes {
		if now.After(entry.expiresAt) {
			delete(b.codes, code)
		}
	}
}
