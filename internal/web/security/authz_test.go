package security

import (
	"context"
	"testing"
)

func TestRoleChecker_IsGranted(t *testing.T) {
	hierarchy := RoleHierarchy{"ROLE_ADMIN": {"ROLE_EDITOR"}}
	checker := NewRoleChecker(ContextTokenProvider{}, hierarchy)

	tests := []struct {
		name      string
		principal *Principal
		attribute string
		want      bool
	}{
		{
			name:      "direct role",
			principal: &Principal{ID: "u1", Roles: []string{"ROLE_ADMIN"}, Authenticated: true},
			attribute: "ROLE_ADMIN",
			want:      true,
		},
		{
			name:      "inherited role",
			principal: &Principal{ID: "u1", Roles: []string{"ROLE_ADMIN"}, Authenticated: true},
			attribute: "ROLE_EDITOR",
			want:      true,
		},
		{
			name:      "role not reachable",
			principal: &Principal{ID: "u1", Roles: []string{"ROLE_EDITOR"}, Authenticated: true},
			attribute: "ROLE_ADMIN",
			want:      false,
		},
		{
			name:      "no principal",
			principal: nil,
			attribute: "ROLE_ADMIN",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.principal != nil {
				ctx = WithPrincipal(ctx, tt.principal)
			}
			got, err := checker.IsGranted(ctx, tt.attribute, nil)
			if err != nil {
				t.Fatalf("IsGranted() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsGranted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultTrustResolver(t *testing.T) {
	resolver := DefaultTrustResolver{}

	if resolver.IsAuthenticated(nil) {
		t.Error("nil principal should not be authenticated")
	}
	if resolver.IsAuthenticated(&Principal{ID: "u1"}) {
		t.Error("unauthenticated principal should not be authenticated")
	}
	if !resolver.IsFullFledged(&Principal{ID: "u1", Authenticated: true}) {
		t.Error("authenticated principal should be full-fledged")
	}
}
