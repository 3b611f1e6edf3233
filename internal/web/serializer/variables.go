package serializer

import "github.com/clarity-project/core/internal/web/security"

// securityVariables assembles the variable bag access_control expressions
// are evaluated against. Rebuilt on every filter invocation: identity is
// per-request and role expansion is cheap.
//
// Fixed variable names:
//
//	token          the raw principal token
//	user           the resolved user object
//	roles          role names reachable through the hierarchy
//	trust_resolver the authentication trust resolver
//	auth_checker   the authorization checker
func (f *GroupFilter) securityVariables(principal *security.Principal) map[string]any {
	roles := principal.Roles
	if f.integration.Hierarchy != nil {
		roles = f.integration.Hierarchy.ReachableRoles(roles)
	}

	return map[string]any{
		"token":          principal,
		"user":           principal,
		"roles":          roles,
		"trust_resolver": f.integration.Trust,
		"auth_checker":   f.integration.Authz,
	}
}
