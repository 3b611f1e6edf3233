package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrResourceNotFound is returned when a queried class is not a registered
// resource. Callers probing whether a class is a resource at all should
// match it with errors.Is and treat it as a negative answer, not a failure.
var ErrResourceNotFound = errors.New("resource not found")

// ErrRegistryNotInitialized is returned when the registry is queried before
// RegisterMetadata has run.
var ErrRegistryNotInitialized = errors.New("registry not initialized")

// Registry holds the runtime metadata for serialization policy queries.
// It is initialized at application startup via RegisterMetadata and
// provides fast indexed access afterwards.
type Registry struct {
	mu       sync.RWMutex
	metadata *Metadata

	// Pre-computed indexes for fast queries (built at registration)
	resourcesByName map[string]*ResourceMetadata
	routesByKey     map[string]*RouteMetadata // "METHOD path" -> route

	initialized atomic.Bool
}

// Global registry instance
var globalRegistry = &Registry{
	resourcesByName: make(map[string]*ResourceMetadata),
	routesByKey:     make(map[string]*RouteMetadata),
}

// RegisterMetadata registers metadata in the global registry.
// This is called once at application startup, usually with an embedded
// JSON document generated at build time.
func RegisterMetadata(data []byte) error {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.metadata = &meta
	globalRegistry.buildIndexes()
	globalRegistry.initialized.Store(true)

	return nil
}

// buildIndexes builds all pre-computed indexes for fast queries.
// Called once during RegisterMetadata, under the write lock.
func (r *Registry) buildIndexes() {
	r.resourcesByName = make(map[string]*ResourceMetadata)
	r.routesByKey = make(map[string]*RouteMetadata)
	if r.metadata == nil {
		return
	}

	for i := range r.metadata.Resources {
		res := &r.metadata.Resources[i]
		r.resourcesByName[res.Name] = res
	}

	for i := range r.metadata.Routes {
		route := &r.metadata.Routes[i]
		r.routesByKey[routeKey(route.Method, route.Path)] = route
	}
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// GetMetadata returns the registered metadata.
// Returns nil if no metadata has been registered.
func GetMetadata() *Metadata {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return globalRegistry.metadata
}

// QueryResources returns all registered resources.
// Returns a copy to prevent external mutation.
func QueryResources() []ResourceMetadata {
	meta := GetMetadata()
	if meta == nil {
		return nil
	}
	resources := make([]ResourceMetadata, len(meta.Resources))
	copy(resources, meta.Resources)
	return resources
}

// QueryResource finds a resource by class name using the pre-computed index.
// Returns ErrRegistryNotInitialized before registration and
// ErrResourceNotFound for unregistered classes.
func QueryResource(name string) (*ResourceMetadata, error) {
	if !globalRegistry.initialized.Load() {
		return nil, ErrRegistryNotInitialized
	}

	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	if res, ok := globalRegistry.resourcesByName[name]; ok {
		// Return a copy to prevent external mutation
		resCopy := *res
		return &resCopy, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
}

// QueryRoutes returns all registered routes.
// Returns a copy to prevent external mutation.
func QueryRoutes() []RouteMetadata {
	meta := GetMetadata()
	if meta == nil {
		return nil
	}
	routes := make([]RouteMetadata, len(meta.Routes))
	copy(routes, meta.Routes)
	return routes
}

// QueryRoute finds the route registered for a method and path pattern.
// Uses the pre-computed index for O(1) lookup.
func QueryRoute(method, path string) (*RouteMetadata, error) {
	if !globalRegistry.initialized.Load() {
		return nil, ErrRegistryNotInitialized
	}

	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	if route, ok := globalRegistry.routesByKey[routeKey(method, path)]; ok {
		routeCopy := *route
		return &routeCopy, nil
	}

	return nil, fmt.Errorf("no route for %s %s", strings.ToUpper(method), path)
}

// Reset clears the registry (used for testing).
func Reset() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.metadata = nil
	globalRegistry.resourcesByName = make(map[string]*ResourceMetadata)
	globalRegistry.routesByKey = make(map[string]*RouteMetadata)
	globalRegistry.initialized.Store(false)
}
