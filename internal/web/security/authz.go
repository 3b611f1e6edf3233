package security

import "context"

// AuthorizationChecker answers whether the current caller is granted an
// attribute (typically a role or permission name), optionally on a subject.
type AuthorizationChecker interface {
	IsGranted(ctx context.Context, attribute string, subject any) (bool, error)
}

// TrustResolver classifies the strength of the principal's authentication.
type TrustResolver interface {
	// IsAuthenticated reports whether the principal is authenticated at all.
	IsAuthenticated(p *Principal) bool
	// IsFullFledged reports whether the principal authenticated with fresh
	// credentials rather than a remembered session.
	IsFullFledged(p *Principal) bool
}

// RoleChecker is an AuthorizationChecker granting attributes that match one
// of the caller's reachable roles.
type RoleChecker struct {
	tokens    TokenProvider
	hierarchy RoleHierarchy
}

// NewRoleChecker creates a role-based authorization checker.
func NewRoleChecker(tokens TokenProvider, hierarchy RoleHierarchy) *RoleChecker {
	return &RoleChecker{tokens: tokens, hierarchy: hierarchy}
}

// IsGranted reports whether the current principal holds the attribute as a
// reachable role. The subject is ignored by this checker.
func (c *RoleChecker) IsGranted(ctx context.Context, attribute string, _ any) (bool, error) {
	p := c.tokens.CurrentPrincipal(ctx)
	if p == nil {
		return false, nil
	}
	for _, role := range c.hierarchy.ReachableRoles(p.Roles) {
		if role == attribute {
			return true, nil
		}
	}
	return false, nil
}

// DefaultTrustResolver treats any authenticated principal as full-fledged.
type DefaultTrustResolver struct{}

// IsAuthenticated reports whether p is a non-nil authenticated principal.
func (DefaultTrustResolver) IsAuthenticated(p *Principal) bool {
	return p != nil && p.Authenticated
}

// IsFullFledged reports whether p is authenticated.
func (DefaultTrustResolver) IsFullFledged(p *Principal) bool {
	return p != nil && p.Authenticated
}
