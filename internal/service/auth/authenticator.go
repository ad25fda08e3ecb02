package auth

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/platform/logger"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/store"
)

// DefaultCredentialCacheSize bounds the credential cache when callers pass
// a non-positive size.
const DefaultCredentialCacheSize = 512

// Authenticator resolves a credential pair to a registered user. Handlers and
// middleware depend on this interface rather than on a concrete
// implementation so tests can substitute fakes.
type Authenticator interface {
	// Authenticate verifies the email/password pair and returns the matching
	// user, or ErrInvalidCredentials when the pair does not match.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// Invalidate drops any cached credentials for the given email.
	Invalidate(email string)
}

// CredentialAuthenticator verifies email/password pairs against the user
// store. Recently authenticated users are kept in a bounded LRU cache so
// clients that send credentials on every request (HTTP Basic) skip a
// database round trip on the hot path.
//
// Cached entries are dropped whenever the corresponding user changes; the
// user service calls Invalidate on every update and delete.
type CredentialAuthenticator struct {
	users    store.UserStore
	verifier PasswordVerifier
	cache    *lru.Cache
}

// Verify CredentialAuthenticator implements the Authenticator interface.
var _ Authenticator = (*CredentialAuthenticator)(nil)

// NewCredentialAuthenticator creates a CredentialAuthenticator backed by
// the given store and verifier, with a credential cache holding at most
// cacheSize entries.
func NewCredentialAuthenticator(
	users store.UserStore,
	verifier PasswordVerifier,
	cacheSize int,
) (*CredentialAuthenticator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCredentialCacheSize
	}

	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential cache: %w", err)
	}

	return &CredentialAuthenticator{
		users:    users,
		verifier: verifier,
		cache:    cache,
	}, nil
}

// Authenticate verifies the email/password pair and returns the matching
// user. It returns ErrInvalidCredentials when the pair does not match a
// registered user, without revealing whether the email exists.
func (a *CredentialAuthenticator) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if entry, ok := a.cache.Get(email); ok {
		if user, ok := entry.(*domain.User); ok {
			if err := a.verifier.Compare(user.HashedPassword, password); err == nil {
				snapshot := *user
				return &snapshot, nil
			}
			// The cached hash no longer matches: either the password is wrong
			// or it changed since caching. Drop the entry and consult the store.
			a.cache.Remove(email)
		}
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if err := a.verifier.Compare(user.HashedPassword, password); err != nil {
		logger.FromContext(ctx).Debug("credential verification failed",
			"user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	cached := *user
	a.cache.Add(email, &cached)

	snapshot := *user
	return &snapshot, nil
}

// Invalidate removes any cached credentials for the given email. Call it
// whenever a user's email, password, or profile changes, and on delete.
func (a *CredentialAuthenticator) Invalidate(email string) {
	a.cache.Remove(email)
}

// Purge empties the credential cache.
func (a *CredentialAuthenticator) Purge() {
	a.cache.Purge()
}
