package serializer

// Direction selects which serialization context an operation declares:
// normalization (read path) or denormalization (write path).
type Direction int

const (
	Normalization Direction = iota
	Denormalization
)

// ContextKey returns the operation attribute key holding the
// direction-specific context.
func (d Direction) ContextKey() string {
	if d == Denormalization {
		return "denormalization_context"
	}
	return "normalization_context"
}

func (d Direction) String() string {
	if d == Denormalization {
		return "denormalization"
	}
	return "normalization"
}

// ExecutionMode tells the group filter whether a caller identity is
// available. Batch mode (offline tooling, schema exports) has no request
// identity and includes access-controlled groups unconditionally.
type ExecutionMode int

const (
	ModeInteractive ExecutionMode = iota
	ModeBatch
)

func (m ExecutionMode) String() string {
	if m == ModeBatch {
		return "batch"
	}
	return "interactive"
}
