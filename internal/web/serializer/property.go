package serializer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/clarity-project/core/runtime/metadata"
)

// Flag is a tri-state boolean for readability/writability. The unknown
// state lets resolver stages compose: a stage may only move unknown to
// true or false, never false back to true.
type Flag uint8

const (
	FlagUnknown Flag = iota
	FlagTrue
	FlagFalse
)

// FlagOf converts a bool to its Flag value.
func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// Bool reports whether the flag is resolved true.
func (f Flag) Bool() bool { return f == FlagTrue }

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unknown"
	}
}

// PropertyMetadata is the resolved serialization policy for one property of
// a resource. Values are immutable; every With method returns a derived
// copy. Produced fresh per resolution call.
type PropertyMetadata struct {
	propType      *metadata.TypeDescriptor
	groups        []string
	description   string
	required      bool
	identifier    bool
	childResource string
	readable      Flag
	writable      Flag
	readableLink  bool
	writableLink  bool
}

// Type returns the property's declared type, or nil.
func (p PropertyMetadata) Type() *metadata.TypeDescriptor { return p.propType }

// Groups returns the property's own declared serialization groups.
func (p PropertyMetadata) Groups() []string { return p.groups }

// Description returns the property's doc text.
func (p PropertyMetadata) Description() string { return p.description }

// Required reports whether the property is required on write.
func (p PropertyMetadata) Required() bool { return p.required }

// Identifier reports whether the property identifies its resource.
func (p PropertyMetadata) Identifier() bool { return p.identifier }

// ChildResource returns the child class the property is inherited from,
// or empty.
func (p PropertyMetadata) ChildResource() string { return p.childResource }

// Readable returns the tri-state readable flag.
func (p PropertyMetadata) Readable() Flag { return p.readable }

// Writable returns the tri-state writable flag.
func (p PropertyMetadata) Writable() Flag { return p.writable }

// ReadableLink reports whether related resources are embedded on read.
func (p PropertyMetadata) ReadableLink() bool { return p.readableLink }

// WritableLink reports whether related resources are accepted by value on
// write.
func (p PropertyMetadata) WritableLink() bool { return p.writableLink }

func (p PropertyMetadata) WithType(t *metadata.TypeDescriptor) PropertyMetadata {
	p.propType = t
	return p
}

func (p PropertyMetadata) WithGroups(groups []string) PropertyMetadata {
	p.groups = groups
	return p
}

func (p PropertyMetadata) WithDescription(description string) PropertyMetadata {
	p.description = description
	return p
}

func (p PropertyMetadata) WithRequired(required bool) PropertyMetadata {
	p.required = required
	return p
}

func (p PropertyMetadata) WithIdentifier(identifier bool) PropertyMetadata {
	p.identifier = identifier
	return p
}

func (p PropertyMetadata) WithChildResource(class string) PropertyMetadata {
	p.childResource = class
	return p
}

func (p PropertyMetadata) WithReadable(f Flag) PropertyMetadata {
	p.readable = f
	return p
}

func (p PropertyMetadata) WithWritable(f Flag) PropertyMetadata {
	p.writable = f
	return p
}

func (p PropertyMetadata) WithReadableLink(b bool) PropertyMetadata {
	p.readableLink = b
	return p
}

func (p PropertyMetadata) WithWritableLink(b bool) PropertyMetadata {
	p.writableLink = b
	return p
}

// PropertyOptions steer effective group resolution. A nil SerializerGroups
// slice means "no explicit override"; a non-nil empty slice is an explicit
// empty constraint.
type PropertyOptions struct {
	SerializerGroups        []string
	CollectionOperationName string
	ItemOperationName       string
}

// UpstreamPropertyResolver produces the base property metadata a
// PropertyResolver decorates. Stages compose into a pipeline, each supplied
// its upstream at construction time.
type UpstreamPropertyResolver interface {
	Create(resourceClass, property string, opts PropertyOptions) (PropertyMetadata, error)
}

// RegistryPropertyResolver is the base pipeline stage: it materializes
// property metadata straight from the registry's property definition, with
// readability and writability left unknown.
type RegistryPropertyResolver struct {
	resources ResourceLookup
}

// NewRegistryPropertyResolver creates the base resolver stage.
func NewRegistryPropertyResolver(resources ResourceLookup) *RegistryPropertyResolver {
	return &RegistryPropertyResolver{resources: resources}
}

// Create builds base metadata for the property from its registry
// definition.
func (r *RegistryPropertyResolver) Create(resourceClass, property string, _ PropertyOptions) (PropertyMetadata, error) {
	res, err := r.resources.Resource(resourceClass)
	if err != nil {
		return PropertyMetadata{}, err
	}

	def := res.Property(property)
	if def == nil {
		return PropertyMetadata{}, fmt.Errorf("resource %q declares no property %q", resourceClass, property)
	}

	pm := PropertyMetadata{}.
		WithGroups(def.Groups).
		WithDescription(def.Description).
		WithRequired(def.Required).
		WithIdentifier(def.Identifier).
		WithChildResource(def.ChildResource)
	if !def.Type.IsZero() {
		t := def.Type
		pm = pm.WithType(&t)
	}
	return pm, nil
}

// PropertyResolver decorates upstream property metadata with group-driven
// read/write flags and link-embedding status.
type PropertyResolver struct {
	upstream  UpstreamPropertyResolver
	resources ResourceLookup
	filter    *GroupFilter
	logger    *zap.Logger
}

// NewPropertyResolver creates the group-filtering decorator stage.
// logger may be nil.
func NewPropertyResolver(upstream UpstreamPropertyResolver, resources ResourceLookup, filter *GroupFilter, logger *zap.Logger) *PropertyResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyResolver{upstream: upstream, resources: resources, filter: filter, logger: logger}
}

// Resolve returns the property's effective serialization policy for the
// current caller.
func (pr *PropertyResolver) Resolve(ctx context.Context, resourceClass, property string, opts PropertyOptions) (PropertyMetadata, error) {
	pm, err := pr.upstream.Create(resourceClass, property, opts)
	if err != nil {
		return PropertyMetadata{}, err
	}

	// A property inherited from a child class resolves its groups against
	// that class, not the queried one.
	effectiveClass := resourceClass
	if child := pm.ChildResource(); child != "" {
		effectiveClass = child
	}

	res, err := pr.resources.Resource(effectiveClass)
	if err != nil {
		return PropertyMetadata{}, err
	}

	normDecls, normSet := effectiveGroups(res, opts, Normalization)
	denormDecls, denormSet := effectiveGroups(res, opts, Denormalization)

	var normGroups, denormGroups []string
	if normSet {
		if normGroups, err = pr.filter.Filter(ctx, normDecls, effectiveClass); err != nil {
			return PropertyMetadata{}, err
		}
	}
	if denormSet {
		if denormGroups, err = pr.filter.Filter(ctx, denormDecls, effectiveClass); err != nil {
			return PropertyMetadata{}, err
		}
	}

	pm = transformReadWrite(pm, normSet, normGroups, denormSet, denormGroups)
	pm, err = pr.transformLinkStatus(pm, normSet, normGroups, denormSet, denormGroups)
	if err != nil {
		return PropertyMetadata{}, err
	}

	pr.logger.Debug("resolved property metadata",
		zap.String("resource", resourceClass),
		zap.String("property", property),
		zap.String("readable", pm.Readable().String()),
		zap.String("writable", pm.Writable().String()))
	return pm, nil
}

// effectiveGroups resolves the group constraint for one direction.
// Precedence: explicit serializer-groups override (both directions), then
// the named operation's declared context, then the resource-level context.
// The second return value distinguishes "no constraint" from an empty one.
func effectiveGroups(res *metadata.ResourceMetadata, opts PropertyOptions, direction Direction) ([]GroupDeclaration, bool) {
	if opts.SerializerGroups != nil {
		decls := make([]GroupDeclaration, 0, len(opts.SerializerGroups))
		for _, name := range opts.SerializerGroups {
			decls = append(decls, GroupDeclaration{Name: name})
		}
		return decls, true
	}

	key := direction.ContextKey()
	var raw any
	switch {
	case opts.CollectionOperationName != "":
		raw = res.CollectionOperationAttribute(opts.CollectionOperationName, key, nil, true)
	case opts.ItemOperationName != "":
		raw = res.ItemOperationAttribute(opts.ItemOperationName, key, nil, true)
	default:
		raw = res.Attribute(key, nil)
	}

	declared, _ := raw.(map[string]any)
	groupsRaw, ok := declared["groups"]
	if !ok {
		return nil, false
	}
	return ParseGroupDeclarations(groupsRaw), true
}

// transformReadWrite sets the readable/writable flags from the active
// groups. A flag already resolved to false upstream is never raised; no
// constraint means unconditionally included.
func transformReadWrite(pm PropertyMetadata, normSet bool, norm []string, denormSet bool, denorm []string) PropertyMetadata {
	own := pm.Groups()
	if pm.Readable() != FlagFalse {
		pm = pm.WithReadable(FlagOf(!normSet || intersects(own, norm)))
	}
	if pm.Writable() != FlagFalse {
		pm = pm.WithWritable(FlagOf(!denormSet || intersects(own, denorm)))
	}
	return pm
}

// transformLinkStatus decides whether related resources are embedded by
// value. Unlike read/write, absence of a group constraint means "reference,
// do not embed". The default (true) survives only on the skip paths: no
// resolvable related class, or a related class that is not a registered
// resource.
func (pr *PropertyResolver) transformLinkStatus(pm PropertyMetadata, normSet bool, norm []string, denormSet bool, denorm []string) (PropertyMetadata, error) {
	pm = pm.WithReadableLink(true).WithWritableLink(true)

	if pm.Readable() == FlagFalse && pm.Writable() == FlagFalse {
		return pm, nil
	}

	t := pm.Type()
	if t == nil {
		return pm, nil
	}
	related := t
	if t.Kind == metadata.KindCollection {
		if t.Element == nil {
			return pm, nil
		}
		related = t.Element
	}
	if related.ClassName == "" {
		return pm, nil
	}

	res, err := pr.resources.Resource(related.ClassName)
	if err != nil {
		if errors.Is(err, metadata.ErrResourceNotFound) {
			// Not a resource at all; plain embedded value, no link policy.
			return pm, nil
		}
		return PropertyMetadata{}, err
	}

	relatedGroups := res.AllGroups()
	pm = pm.WithReadableLink(normSet && intersects(norm, relatedGroups))
	pm = pm.WithWritableLink(denormSet && intersects(denorm, relatedGroups))
	return pm, nil
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
