package serializer

import "errors"

// ErrInvalidRequest is returned when a request carries no resolvable
// resource or operation attributes. The request is rejected; retrying
// without changing the request cannot succeed.
var ErrInvalidRequest = errors.New("invalid request")

// ErrSecurityIntegration is returned when a group declares an
// access_control expression but the expression evaluator or identity
// provider is not wired, or no principal is authenticated. This is a
// configuration fault and is never downgraded to excluding the group.
var ErrSecurityIntegration = errors.New("security integration unavailable")
