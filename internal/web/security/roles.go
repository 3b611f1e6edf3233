package security

// RoleHierarchy maps a role to the roles it implies. Expansion is
// transitive: admin -> editor -> viewer grants all three to an admin.
type RoleHierarchy map[string][]string

// ReachableRoles expands the given roles through the hierarchy and returns
// every reachable role, direct roles first, in first-occurrence order.
// A nil hierarchy returns the direct roles unchanged.
func (h RoleHierarchy) ReachableRoles(direct []string) []string {
	if h == nil {
		return direct
	}

	seen := make(map[string]struct{}, len(direct))
	reachable := make([]string, 0, len(direct))

	var visit func(role string)
	visit = func(role string) {
		if _, ok := seen[role]; ok {
			return
		}
		seen[role] = struct{}{}
		reachable = append(reachable, role)
		for _, implied := range h[role] {
			visit(implied)
		}
	}

	for _, role := range direct {
		visit(role)
	}
	return reachable
}
