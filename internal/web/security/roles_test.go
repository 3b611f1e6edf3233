package security

import (
	"reflect"
	"testing"
)

func TestReachableRoles(t *testing.T) {
	hierarchy := RoleHierarchy{
		"ROLE_ADMIN":  {"ROLE_EDITOR"},
		"ROLE_EDITOR": {"ROLE_VIEWER"},
	}

	tests := []struct {
		name   string
		h      RoleHierarchy
		direct []string
		want   []string
	}{
		{
			name:   "transitive expansion",
			h:      hierarchy,
			direct: []string{"ROLE_ADMIN"},
			want:   []string{"ROLE_ADMIN", "ROLE_EDITOR", "ROLE_VIEWER"},
		},
		{
			name:   "leaf role expands to itself",
			h:      hierarchy,
			direct: []string{"ROLE_VIEWER"},
			want:   []string{"ROLE_VIEWER"},
		},
		{
			name:   "duplicates collapse",
			h:      hierarchy,
			direct: []string{"ROLE_EDITOR", "ROLE_ADMIN"},
			want:   []string{"ROLE_EDITOR", "ROLE_VIEWER", "ROLE_ADMIN"},
		},
		{
			name:   "nil hierarchy passes roles through",
			h:      nil,
			direct: []string{"ROLE_EDITOR"},
			want:   []string{"ROLE_EDITOR"},
		},
		{
			name: "cycles terminate",
			h: RoleHierarchy{
				"ROLE_A": {"ROLE_B"},
				"ROLE_B": {"ROLE_A"},
			},
			direct: []string{"ROLE_A"},
			want:   []string{"ROLE_A", "ROLE_B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.h.ReachableRoles(tt.direct)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReachableRoles() = %v, want %v", got, tt.want)
			}
		})
	}
}
