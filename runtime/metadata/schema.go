// Package metadata provides the resource metadata registry consumed by the
// serialization policy layer.
//
// Resources, their operations, and their properties are registered once at
// application startup (typically from an embedded JSON document produced at
// build time) and queried read-only afterwards.
package metadata

import "time"

// Operation kinds, in the priority order the serializer resolves them.
const (
	OperationCollection  = "collection"
	OperationItem        = "item"
	OperationSubresource = "subresource"
)

// Type kinds used by TypeDescriptor.
const (
	KindObject     = "object"
	KindCollection = "collection"
)

// Metadata is the top-level container registered at startup.
type Metadata struct {
	Version   string             `json:"version"`             // Schema version for evolution
	Generated time.Time          `json:"generated,omitempty"` // Timestamp of metadata generation
	Resources []ResourceMetadata `json:"resources"`           // All resource definitions
	Routes    []RouteMetadata    `json:"routes,omitempty"`    // HTTP routes mapped to operations
}

// ResourceMetadata describes a single API resource: its declared operations,
// top-level attributes (including normalization/denormalization contexts),
// and properties.
type ResourceMetadata struct {
	Name                  string               `json:"name"`                             // Resource class identity (e.g. "Book")
	ShortName             string               `json:"short_name,omitempty"`             // Short name used in routes
	Description           string               `json:"description,omitempty"`            // Doc text
	Attributes            map[string]any       `json:"attributes,omitempty"`             // Resource-level attributes
	CollectionOperations  []OperationMetadata  `json:"collection_operations,omitempty"`  // e.g. get, post
	ItemOperations        []OperationMetadata  `json:"item_operations,omitempty"`        // e.g. get, put, patch, delete
	SubresourceOperations []OperationMetadata  `json:"subresource_operations,omitempty"` // e.g. api_books_author_get_subresource
	Properties            []PropertyDefinition `json:"properties,omitempty"`             // Declared properties
}

// OperationMetadata describes one declared operation on a resource.
type OperationMetadata struct {
	Name       string         `json:"name"`                 // Operation name (e.g. "get")
	Method     string         `json:"method,omitempty"`     // HTTP method
	Path       string         `json:"path,omitempty"`       // URL path pattern
	Attributes map[string]any `json:"attributes,omitempty"` // Operation attributes (contexts, identifiers, ...)
}

// PropertyDefinition describes one declared property of a resource.
type PropertyDefinition struct {
	Name          string         `json:"name"`                     // Property name
	Type          TypeDescriptor `json:"type,omitempty"`           // Declared type
	Groups        []string       `json:"groups,omitempty"`         // Serialization groups the property belongs to
	Required      bool           `json:"required,omitempty"`       // Whether the property is required on write
	Identifier    bool           `json:"identifier,omitempty"`     // Whether the property identifies the resource
	Description   string         `json:"description,omitempty"`    // Doc text
	ChildResource string         `json:"child_resource,omitempty"` // Child class the property is inherited from, if any
}

// TypeDescriptor describes a property's declared type. For collections the
// element type is carried in Element; for object types ClassName names the
// (possibly unregistered) target class.
type TypeDescriptor struct {
	Kind      string          `json:"kind,omitempty"`       // Scalar kind, "object", or "collection"
	ClassName string          `json:"class_name,omitempty"` // Target class for object kinds
	Nullable  bool            `json:"nullable,omitempty"`   // Whether null is accepted
	Element   *TypeDescriptor `json:"element,omitempty"`    // Element type for collections
}

// IsZero reports whether the descriptor carries no type information.
func (t TypeDescriptor) IsZero() bool {
	return t.Kind == "" && t.ClassName == "" && t.Element == nil
}

// RouteMetadata maps an HTTP route onto a resource operation.
type RouteMetadata struct {
	Method        string `json:"method"`         // HTTP method (GET, POST, PUT, PATCH, DELETE)
	Path          string `json:"path"`           // URL path pattern (chi syntax)
	Resource      string `json:"resource"`       // Resource class the route serves
	Operation     string `json:"operation"`      // Operation name (e.g. "get")
	OperationKind string `json:"operation_kind"` // "collection", "item", or "subresource"
}

// Attribute returns a resource-level attribute, or def when absent.
func (r *ResourceMetadata) Attribute(key string, def any) any {
	if v, ok := r.Attributes[key]; ok {
		return v
	}
	return def
}

// Property returns the declared property with the given name, or nil.
func (r *ResourceMetadata) Property(name string) *PropertyDefinition {
	for i := range r.Properties {
		if r.Properties[i].Name == name {
			return &r.Properties[i]
		}
	}
	return nil
}

// AllGroups returns the union of all property groups declared on the
// resource, in first-occurrence order.
func (r *ResourceMetadata) AllGroups() []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, prop := range r.Properties {
		for _, g := range prop.Groups {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			groups = append(groups, g)
		}
	}
	return groups
}

// CollectionOperationAttribute returns the named attribute of the given
// collection operation. When the operation does not declare the attribute
// and fallback is true, the resource-level attribute is consulted before
// the default.
func (r *ResourceMetadata) CollectionOperationAttribute(operation, key string, def any, fallback bool) any {
	return operationAttribute(r, r.CollectionOperations, operation, key, def, fallback)
}

// ItemOperationAttribute is the item-operation counterpart of
// CollectionOperationAttribute.
func (r *ResourceMetadata) ItemOperationAttribute(operation, key string, def any, fallback bool) any {
	return operationAttribute(r, r.ItemOperations, operation, key, def, fallback)
}

// SubresourceOperationAttribute is the subresource counterpart of
// CollectionOperationAttribute.
func (r *ResourceMetadata) SubresourceOperationAttribute(operation, key string, def any, fallback bool) any {
	return operationAttribute(r, r.SubresourceOperations, operation, key, def, fallback)
}

func operationAttribute(r *ResourceMetadata, ops []OperationMetadata, operation, key string, def any, fallback bool) any {
	for i := range ops {
		if ops[i].Name != operation {
			continue
		}
		if v, ok := ops[i].Attributes[key]; ok {
			return v
		}
		break
	}
	if fallback {
		return r.Attribute(key, def)
	}
	return def
}
