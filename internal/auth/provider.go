package auth

import (
	"context"
	"errors"
	"net/http"
)

// Context keys set by Middleware for downstream handlers
const (
	ContextIdentityKey = "identity"
	ContextUserIDKey   = "user_id"
)

var (
	// ErrUnauthenticated signals that no identity could be resolved. The
	// caller redirects to a login surface; the operation is never retried.
	ErrUnauthenticated = errors.New("not authenticated")
)

// Identity is the stable identity the feed core operates on behalf of
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Provider resolves the current identity from an incoming request. This is
// the narrow contract the feed consumes; session issuance, profile
// provisioning and login surfaces live elsewhere.
type Provider interface {
	// IdentityFromRequest returns the resolved identity or ErrUnauthenticated.
	IdentityFromRequest(ctx context.Context, r *http.Request) (*Identity, error)
}
