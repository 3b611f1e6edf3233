package metadata

import (
	"encoding/json"
	"errors"
	"testing"
)

func registerTestMetadata(t *testing.T, meta *Metadata) {
	t.Helper()
	data, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("Failed to marshal metadata: %v", err)
	}
	if err := RegisterMetadata(data); err != nil {
		t.Fatalf("RegisterMetadata failed: %v", err)
	}
}

func TestRegisterMetadata_Success(t *testing.T) {
	defer Reset()

	registerTestMetadata(t, &Metadata{
		Version: "1.0.0",
		Resources: []ResourceMetadata{
			{Name: "Book", ShortName: "books"},
		},
	})

	registered := GetMetadata()
	if registered == nil {
		t.Fatal("GetMetadata returned nil")
	}
	if registered.Version != "1.0.0" {
		t.Errorf("Version mismatch: got %s, want 1.0.0", registered.Version)
	}
	if len(registered.Resources) != 1 {
		t.Errorf("Resources count: got %d, want 1", len(registered.Resources))
	}
}

func TestRegisterMetadata_InvalidJSON(t *testing.T) {
	defer Reset()

	if err := RegisterMetadata([]byte(`{"invalid": json}`)); err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestQueryResource_Found(t *testing.T) {
	defer Reset()

	registerTestMetadata(t, &Metadata{
		Resources: []ResourceMetadata{
			{Name: "Book"},
			{Name: "Author"},
		},
	})

	resource, err := QueryResource("Author")
	if err != nil {
		t.Fatalf("QueryResource failed: %v", err)
	}
	if resource.Name != "Author" {
		t.Errorf("Resource name: got %s, want Author", resource.Name)
	}
}

func TestQueryResource_NotFound(t *testing.T) {
	defer Reset()

	registerTestMetadata(t, &Metadata{
		Resources: []ResourceMetadata{{Name: "Book"}},
	})

	_, err := QueryResource("Magazine")
	if !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("Expected ErrResourceNotFound, got %v", err)
	}
}

func TestQueryResource_NotInitialized(t *testing.T) {
	defer Reset()
	Reset()

	_, err := QueryResource("Book")
	if !errors.Is(err, ErrRegistryNotInitialized) {
		t.Errorf("Expected ErrRegistryNotInitialized, got %v", err)
	}
}

func TestQueryResource_ReturnsCopy(t *testing.T) {
	defer Reset()

	registerTestMetadata(t, &Metadata{
		Resources: []ResourceMetadata{{Name: "Book", ShortName: "books"}},
	})

	first, err := QueryResource("Book")
	if err != nil {
		t.Fatalf("QueryResource failed: %v", err)
	}
	first.ShortName = "mutated"

	second, err := QueryResource("Book")
	if err != nil {
		t.Fatalf("QueryResource failed: %v", err)
	}
	if second.ShortName != "books" {
		t.Errorf("Registry copy was mutated: got %s, want books", second.ShortName)
	}
}

func TestQueryRoute(t *testing.T) {
	defer Reset()

	registerTestMetadata(t, &Metadata{
		Routes: []RouteMetadata{
			{Method: "GET", Path: "/books", Resource: "Book", Operation: "get", OperationKind: OperationCollection},
			{Method: "GET", Path: "/books/{id}", Resource: "Book", Operation: "get", OperationKind: OperationItem},
		},
	})

	route, err := QueryRoute("get", "/books/{id}")
	if err != nil {
		t.Fatalf("QueryRoute failed: %v", err)
	}
	if route.OperationKind != OperationItem {
		t.Errorf("OperationKind: got %s, want %s", route.OperationKind, OperationItem)
	}

	if _, err := QueryRoute("DELETE", "/books"); err == nil {
		t.Error("Expected error for unregistered route, got nil")
	}
}

func TestRegistryAPI_Resource(t *testing.T) {
	defer Reset()

	registerTestMetadata(t, &Metadata{
		Resources: []ResourceMetadata{{Name: "Book"}},
	})

	registry := GetRegistry()
	if _, err := registry.Resource("Book"); err != nil {
		t.Fatalf("Resource failed: %v", err)
	}
	if got := len(registry.Resources()); got != 1 {
		t.Errorf("Resources count: got %d, want 1", got)
	}
}
