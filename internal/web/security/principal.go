// Package security supplies the identity, role, and expression services the
// serialization policy layer evaluates access-control declarations against.
package security

import "context"

// Principal is the authenticated caller of the current request.
type Principal struct {
	ID            string
	Username      string
	Email         string
	Roles         []string
	Authenticated bool
}

// TokenProvider resolves the principal attached to the current request.
// Implementations return nil when no caller is authenticated.
type TokenProvider interface {
	CurrentPrincipal(ctx context.Context) *Principal
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey int

const principalKey contextKey = iota

// WithPrincipal adds the principal to the context.
// Auth middleware calls this after validating the request's credentials.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the principal from the context.
// Returns nil if no principal has been set.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}

// ContextTokenProvider reads the principal placed in the request context by
// the auth middleware. It is the default TokenProvider for request-serving
// processes.
type ContextTokenProvider struct{}

// CurrentPrincipal returns the context principal, or nil when absent.
func (ContextTokenProvider) CurrentPrincipal(ctx context.Context) *Principal {
	return PrincipalFromContext(ctx)
}
