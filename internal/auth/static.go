package auth

import (
	"context"
	"net/http"
)

// StaticProvider resolves identities from the X-User-ID header against a
// fixed set. Used by tests and local tooling; never mount it in production.
type StaticProvider struct {
	identities map[string]Identity
}

// NewStaticProvider creates a header-driven provider for the given identities
func NewStaticProvider(identities ...Identity) *StaticProvider {
	m := make(map[string]Identity, len(identities))
	for _, id := range identities {
		m[id.ID] = id
	}
	return &StaticProvider{identities: m}
}

var _ Provider = (*StaticProvider)(nil)

// IdentityFromRequest resolves the X-User-ID header or fails unauthenticated
func (p *StaticProvider) IdentityFromRequest(_ context.Context, r *http.Request) (*Identity, error) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if identity, ok := p.identities[userID]; ok {
		return &identity, nil
	}
	return nil, ErrUnauthenticated
}
