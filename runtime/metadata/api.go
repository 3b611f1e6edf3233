package metadata

// GetRegistry returns the global registry handle.
// This is the primary entry point for the serializer's metadata lookups.
//
// Example usage:
//
//	registry := metadata.GetRegistry()
//	book, err := registry.Resource("Book")
//	if err != nil {
//		log.Fatal(err)
//	}
func GetRegistry() *RegistryAPI {
	return &RegistryAPI{}
}

// RegistryAPI provides an ergonomic public API over the global registry.
// It satisfies the serializer's ResourceLookup and RouteLookup interfaces.
//
// All query methods read from pre-computed indexes and return copies;
// the underlying metadata never changes after registration.
type RegistryAPI struct{}

// Resources returns all registered resources.
func (r *RegistryAPI) Resources() []ResourceMetadata {
	return QueryResources()
}

// Resource returns metadata for a single resource by class name.
// Returns an error wrapping ErrResourceNotFound for unregistered classes.
func (r *RegistryAPI) Resource(name string) (*ResourceMetadata, error) {
	return QueryResource(name)
}

// Routes returns all registered routes.
func (r *RegistryAPI) Routes() []RouteMetadata {
	return QueryRoutes()
}

// Route returns the route registered for a method and path pattern.
func (r *RegistryAPI) Route(method, path string) (*RouteMetadata, error) {
	return QueryRoute(method, path)
}
