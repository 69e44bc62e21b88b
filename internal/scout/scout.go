// Package scout remembers who submitted product pitches from a browser,
// so returning scouts skip registration.
package scout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unihub/unidrop/auth"
)

// KeyPrefix is the fixed key every identity is stored under, followed by
// ":" and the browser token.
const KeyPrefix = "unihub_scout_name"

// CookieName carries the signed browser token.
const CookieName = "scout"

const cookieTTL = 365 * 24 * time.Hour

// ErrUnknownScout is returned when no identity is stored for a token.
var ErrUnknownScout = errors.New("scout: unknown identity")

// IdentityStore persists scout names by browser token.
type IdentityStore interface {
	Load(ctx context.Context, token string) (string, error)
	Save(ctx context.Context, token, name string) error
	Close() error
}

// Key returns the storage key for token.
func Key(token string) string { return KeyPrefix + ":" + token }

// Registry issues tokens and resolves them to names.
type Registry struct {
	store IdentityStore
}

func NewRegistry(store IdentityStore) *Registry {
	return &Registry{store: store}
}

// Register stores name under a fresh token. The name is trimmed and must
// not be blank.
func (r *Registry) Register(ctx context.Context, name string) (token string, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("scout: name is required")
	}
	token = uuid.NewString()
	if err := r.store.Save(ctx, token, name); err != nil {
		return "", fmt.Errorf("save scout identity: %w", err)
	}
	return token, nil
}

// Lookup returns the name stored for token or ErrUnknownScout.
func (r *Registry) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnknownScout
	}
	return r.store.Load(ctx, token)
}

// SetCookie hands the browser its signed token.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    auth.Sign(token),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cookieTTL),
	})
}

// TokenFromRequest returns the verified token or "".
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	token, ok := auth.Verify(c.Value)
	if !ok {
		return ""
	}
	return token
}
