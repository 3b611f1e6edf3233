// Package serializer resolves the serialization policy applied per request:
// which context the encoder/decoder runs with, which serialization groups
// are active for the caller, and whether each property is readable,
// writable, and embeds its related resources by value or by reference.
package serializer

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/clarity-project/core/internal/web/request"
	"github.com/clarity-project/core/runtime/metadata"
)

// ResourceLookup resolves a resource class to its metadata.
// *metadata.RegistryAPI satisfies it.
type ResourceLookup interface {
	Resource(name string) (*metadata.ResourceMetadata, error)
}

// ContextBuilder derives the serialization context for a request from the
// declared operation metadata. One context is built per request; the result
// is handed to the encode/decode engine and never mutated afterwards.
type ContextBuilder struct {
	resources ResourceLookup
	routes    request.RouteLookup
	filter    *GroupFilter
	logger    *zap.Logger
}

// NewContextBuilder creates a context builder. logger may be nil.
func NewContextBuilder(resources ResourceLookup, routes request.RouteLookup, filter *GroupFilter, logger *zap.Logger) *ContextBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextBuilder{resources: resources, routes: routes, filter: filter, logger: logger}
}

// BuildContext assembles the serialization context for the request. When
// attrs is nil they are extracted from the request; a request without
// resolvable attributes is rejected with ErrInvalidRequest.
func (b *ContextBuilder) BuildContext(r *http.Request, direction Direction, attrs *request.Attributes) (map[string]any, error) {
	if attrs == nil {
		var err error
		attrs, err = request.ExtractAttributes(r, b.routes)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
		}
	}

	res, err := b.resources.Resource(attrs.ResourceClass)
	if err != nil {
		return nil, err
	}

	key := direction.ContextKey()
	var sc map[string]any

	// Operation kind priority: collection, then subresource, then item.
	switch {
	case attrs.CollectionOperationName != "":
		sc = attributeMap(res.CollectionOperationAttribute(attrs.CollectionOperationName, key, nil, true))
		sc["collection_operation_name"] = attrs.CollectionOperationName
		sc["operation_type"] = metadata.OperationCollection
	case attrs.SubresourceOperationName != "":
		sc = attributeMap(res.SubresourceOperationAttribute(attrs.SubresourceOperationName, key, nil, true))
		sc["subresource_operation_name"] = attrs.SubresourceOperationName
		sc["operation_type"] = metadata.OperationSubresource
	default:
		sc = attributeMap(res.ItemOperationAttribute(attrs.ItemOperationName, key, nil, true))
		sc["item_operation_name"] = attrs.ItemOperationName
		sc["operation_type"] = metadata.OperationItem
	}

	if direction == Denormalization {
		if _, ok := sc["api_allow_update"]; !ok {
			sc["api_allow_update"] = r.Method == http.MethodPut || r.Method == http.MethodPatch
		}
	}

	sc["resource_class"] = attrs.ResourceClass
	sc["request_uri"] = r.URL.RequestURI()
	sc["uri"] = fullURI(r)

	if attrs.SubresourceOperationName != "" {
		b.addSubresourceContext(sc, res, attrs)
	}

	if raw, ok := sc["groups"]; ok {
		filtered, err := b.filter.Filter(r.Context(), ParseGroupDeclarations(raw), attrs.ResourceClass)
		if err != nil {
			return nil, err
		}
		sc["groups"] = filtered
	}

	b.logger.Debug("built serialization context",
		zap.String("resource", attrs.ResourceClass),
		zap.String("operation", attrs.OperationName()),
		zap.String("direction", direction.String()))
	return sc, nil
}

// addSubresourceContext copies the operation's declared identifier list and
// subresource property into the context, pairing each declared identifier
// with its raw request value in declaration order.
func (b *ContextBuilder) addSubresourceContext(sc map[string]any, res *metadata.ResourceMetadata, attrs *request.Attributes) {
	op := attrs.SubresourceOperationName

	identifiers := identifierPairs(res.SubresourceOperationAttribute(op, "identifiers", nil, false))
	if len(identifiers) > 0 {
		ids := make(map[string]any, len(identifiers))
		resources := make(map[string]any, len(identifiers))
		for _, pair := range identifiers {
			value := attrs.PathParams[pair[0]]
			ids[pair[0]] = value
			resources[pair[1]] = map[string]any{pair[0]: value}
		}
		sc["subresource_identifiers"] = ids
		sc["subresource_resources"] = resources
	}

	if prop := res.SubresourceOperationAttribute(op, "subresource_property", nil, false); prop != nil {
		sc["subresource_property"] = prop
		sc["subresource_resource_class"] = res.SubresourceOperationAttribute(op, "subresource_resource_class", nil, false)
	}
}

// attributeMap copies a declared context attribute into a fresh mutable
// map. Registry metadata is shared; it must never be mutated through the
// built context.
func attributeMap(raw any) map[string]any {
	declared, _ := raw.(map[string]any)
	sc := make(map[string]any, len(declared)+8)
	for k, v := range declared {
		sc[k] = v
	}
	return sc
}

// identifierPairs parses a declared identifier list into (parameter,
// resource class) pairs, preserving declaration order.
func identifierPairs(raw any) [][2]string {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	var pairs [][2]string
	for _, item := range list {
		entry, ok := item.([]any)
		if !ok || len(entry) < 2 {
			continue
		}
		param, okP := entry[0].(string)
		class, okC := entry[1].(string)
		if okP && okC {
			pairs = append(pairs, [2]string{param, class})
		}
	}
	return pairs
}

func fullURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
