// pkg/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.uber.org/zap"

	"aamadmin/pkg/config"
	"aamadmin/pkg/problems"
)

// Identity is the narrowed projection of a validated deployment token.
// Only these five claims ever leave the authorizer; the raw token does not.
type Identity struct {
	Subject    string
	Repository string
	Actor      string
	Ref        string
	Workflow   string
}

type identityCtxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}

const clockSkew = 30 * time.Second

// minRefreshInterval bounds forced JWKS refetches so a flood of bad tokens
// cannot hammer the key endpoint.
const minRefreshInterval = time.Minute

// jwksCache holds the remote key set with a TTL. Keys rotate; a lookup
// miss forces one bounded refetch before the request is rejected.
type jwksCache struct {
	mu      sync.RWMutex
	url     string
	ttl     time.Duration
	set     jwk.Set
	expires time.Time
	fetched time.Time
}

func (c *jwksCache) get(ctx context.Context) (jwk.Set, error) {
	c.mu.RLock()
	if c.set != nil && time.Now().Before(c.expires) {
		defer c.mu.RUnlock()
		return c.set, nil
	}
	c.mu.RUnlock()
	return c.fetch(ctx, false)
}

// refresh refetches ahead of the TTL, unless a fetch happened within
// minRefreshInterval, in which case the cached set is returned as-is.
func (c *jwksCache) refresh(ctx context.Context) (jwk.Set, error) {
	return c.fetch(ctx, true)
}

func (c *jwksCache) fetch(ctx context.Context, force bool) (jwk.Set, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fresh := c.set != nil && time.Now().Before(c.expires)
	if fresh && !force {
		return c.set, nil
	}
	if c.set != nil && time.Since(c.fetched) < minRefreshInterval {
		return c.set, nil
	}
	set, err := jwk.Fetch(ctx, c.url)
	if err != nil {
		if c.set != nil {
			// Serve stale keys rather than failing every request while
			// the endpoint is unreachable.
			return c.set, nil
		}
		return nil, err
	}
	c.set = set
	c.fetched = time.Now()
	c.expires = c.fetched.Add(c.ttl)
	return set, nil
}

// BearerAuth validates GitHub Actions OIDC bearer tokens: RS256 signature
// against the issuer's JWKS, expiry, issuer, audience, and an exact match
// on the repository claim. Rejections are generic on the wire; the precise
// cause is only logged.
func BearerAuth(cfg config.Config, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	cache := &jwksCache{url: cfg.JWKSURL, ttl: cfg.JWKSCacheTTL}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				problems.Unauthorized(w, "missing bearer token")
				return
			}
			raw := []byte(strings.TrimSpace(authz[len("Bearer "):]))

			ctx, cancel := context.WithTimeout(r.Context(), cfg.JWKSTimeout)
			defer cancel()

			id, err := verifyToken(ctx, cache, cfg, raw)
			if err != nil {
				log.Debugw("bearer token rejected", "err", err)
				problems.Unauthorized(w, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func verifyToken(ctx context.Context, cache *jwksCache, cfg config.Config, raw []byte) (Identity, error) {
	// Pin the algorithm before any verification. Symmetric and "none"
	// algorithms must never reach the key set.
	msg, err := jws.Parse(raw)
	if err != nil {
		return Identity{}, err
	}
	sigs := msg.Signatures()
	if len(sigs) == 0 || sigs[0].ProtectedHeaders().Algorithm() != jwa.RS256 {
		return Identity{}, errors.New("unacceptable signing algorithm")
	}

	set, err := cache.get(ctx)
	if err != nil {
		return Identity{}, err
	}
	parse := func(set jwk.Set) (jwt.Token, error) {
		return jwt.Parse(raw,
			jwt.WithKeySet(set),
			jwt.WithIssuer(strings.TrimRight(cfg.Issuer, "/")),
			jwt.WithAudience(cfg.Audience),
			jwt.WithValidate(true),
			jwt.WithAcceptableSkew(clockSkew),
		)
	}
	tok, perr := parse(set)
	if perr != nil {
		// The signing key may have rotated out of the cached set.
		if set, err = cache.refresh(ctx); err == nil {
			tok, perr = parse(set)
		}
	}
	if perr != nil {
		return Identity{}, perr
	}

	repo := claimString(tok, "repository")
	if repo == "" || repo != cfg.Repository {
		return Identity{}, errors.New("repository claim mismatch")
	}
	return Identity{
		Subject:    tok.Subject(),
		Repository: repo,
		Actor:      claimString(tok, "actor"),
		Ref:        claimString(tok, "ref"),
		Workflow:   claimString(tok, "workflow"),
	}, nil
}

func claimString(tok jwt.Token, name string) string {
	if v, ok := tok.Get(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
