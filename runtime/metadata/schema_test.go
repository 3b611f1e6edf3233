package metadata

import (
	"reflect"
	"testing"
)

func bookResource() *ResourceMetadata {
	return &ResourceMetadata{
		Name: "Book",
		Attributes: map[string]any{
			"normalization_context": map[string]any{
				"groups": []any{"book:read"},
			},
		},
		CollectionOperations: []OperationMetadata{
			{Name: "get", Method: "GET"},
			{
				Name:   "post",
				Method: "POST",
				Attributes: map[string]any{
					"denormalization_context": map[string]any{
						"groups": []any{"book:write"},
					},
				},
			},
		},
		ItemOperations: []OperationMetadata{
			{Name: "get", Method: "GET"},
		},
		Properties: []PropertyDefinition{
			{Name: "title", Groups: []string{"book:read", "book:write"}},
			{Name: "isbn", Groups: []string{"book:read"}},
			{Name: "internalNotes"},
		},
	}
}

func TestOperationAttribute_DeclaredOnOperation(t *testing.T) {
	res := bookResource()

	got := res.CollectionOperationAttribute("post", "denormalization_context", nil, true)
	want := map[string]any{"groups": []any{"book:write"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollectionOperationAttribute = %v, want %v", got, want)
	}
}

func TestOperationAttribute_ResourceFallback(t *testing.T) {
	res := bookResource()

	// "get" declares no normalization_context; fallback reaches the
	// resource-level attribute.
	got := res.ItemOperationAttribute("get", "normalization_context", nil, true)
	want := map[string]any{"groups": []any{"book:read"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemOperationAttribute = %v, want %v", got, want)
	}

	// Without fallback the default wins.
	if got := res.ItemOperationAttribute("get", "normalization_context", nil, false); got != nil {
		t.Errorf("ItemOperationAttribute without fallback = %v, want nil", got)
	}
}

func TestOperationAttribute_Default(t *testing.T) {
	res := bookResource()

	got := res.CollectionOperationAttribute("get", "pagination_enabled", true, false)
	if got != true {
		t.Errorf("CollectionOperationAttribute = %v, want true", got)
	}

	// Unknown operation name also falls through to the default.
	got = res.CollectionOperationAttribute("purge", "pagination_enabled", false, false)
	if got != false {
		t.Errorf("CollectionOperationAttribute = %v, want false", got)
	}
}

func TestProperty(t *testing.T) {
	res := bookResource()

	if prop := res.Property("isbn"); prop == nil || len(prop.Groups) != 1 {
		t.Errorf("Property(isbn) = %v, want single-group property", prop)
	}
	if prop := res.Property("missing"); prop != nil {
		t.Errorf("Property(missing) = %v, want nil", prop)
	}
}

func TestAllGroups(t *testing.T) {
	res := bookResource()

	got := res.AllGroups()
	want := []string{"book:read", "book:write"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllGroups = %v, want %v", got, want)
	}
}

func TestTypeDescriptor_IsZero(t *testing.T) {
	if !(TypeDescriptor{}).IsZero() {
		t.Error("empty descriptor should be zero")
	}
	if (TypeDescriptor{Kind: KindObject, ClassName: "Author"}).IsZero() {
		t.Error("object descriptor should not be zero")
	}
}
