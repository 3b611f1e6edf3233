// Package request derives resource and operation attributes from inbound
// HTTP requests, bridging the router to the serialization policy layer.
package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clarity-project/core/runtime/metadata"
)

// ErrNoAttributes is returned when a request carries no resolvable resource
// or operation attributes.
var ErrNoAttributes = errors.New("request carries no resource attributes")

// Attributes identify the resource class and operation a request targets.
// Exactly one of the three operation names is set for a resolvable request.
type Attributes struct {
	ResourceClass            string
	CollectionOperationName  string
	ItemOperationName        string
	SubresourceOperationName string
	PathParams               map[string]string
}

// HasOperation reports whether any operation name is set.
func (a *Attributes) HasOperation() bool {
	return a.CollectionOperationName != "" || a.ItemOperationName != "" || a.SubresourceOperationName != ""
}

// OperationName returns the operation name, whichever kind is set.
func (a *Attributes) OperationName() string {
	switch {
	case a.CollectionOperationName != "":
		return a.CollectionOperationName
	case a.SubresourceOperationName != "":
		return a.SubresourceOperationName
	default:
		return a.ItemOperationName
	}
}

// RouteLookup resolves a method and route pattern to route metadata.
// *metadata.RegistryAPI satisfies it.
type RouteLookup interface {
	Route(method, path string) (*metadata.RouteMetadata, error)
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey int

const attributesKey contextKey = iota

// WithAttributes attaches pre-resolved attributes to the context. They take
// precedence over route-based extraction.
func WithAttributes(ctx context.Context, attrs *Attributes) context.Context {
	return context.WithValue(ctx, attributesKey, attrs)
}

// AttributesFromContext returns attributes previously attached to the
// context, or nil.
func AttributesFromContext(ctx context.Context) *Attributes {
	if attrs, ok := ctx.Value(attributesKey).(*Attributes); ok {
		return attrs
	}
	return nil
}

// ExtractAttributes resolves the request's attributes. A context override
// wins; otherwise the matched chi route pattern is looked up in the route
// registry. Returns ErrNoAttributes when nothing is resolvable.
func ExtractAttributes(r *http.Request, routes RouteLookup) (*Attributes, error) {
	if attrs := AttributesFromContext(r.Context()); attrs != nil {
		return attrs, nil
	}

	rctx := chi.RouteContext(r.Context())
	if rctx == nil || routes == nil {
		return nil, ErrNoAttributes
	}
	pattern := rctx.RoutePattern()
	if pattern == "" {
		return nil, ErrNoAttributes
	}

	route, err := routes.Route(r.Method, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNoAttributes, r.Method, pattern)
	}

	attrs := &Attributes{
		ResourceClass: route.Resource,
		PathParams:    make(map[string]string),
	}
	switch route.OperationKind {
	case metadata.OperationCollection:
		attrs.CollectionOperationName = route.Operation
	case metadata.OperationItem:
		attrs.ItemOperationName = route.Operation
	case metadata.OperationSubresource:
		attrs.SubresourceOperationName = route.Operation
	default:
		return nil, fmt.Errorf("%w: unknown operation kind %q", ErrNoAttributes, route.OperationKind)
	}

	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		attrs.PathParams[key] = rctx.URLParams.Values[i]
	}

	return attrs, nil
}
