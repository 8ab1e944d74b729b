package bvh

// Error types returned by the store, the builder and the session. They are
// checked with errors.IsType from github.com/aukilabs/go-tooling/pkg/errors.
const (
	ErrTypeStoreFrozen     = "store_frozen"
	ErrTypeInvalidCapacity = "invalid_capacity"
	ErrTypeInvariant       = "invariant_violation"
	ErrTypeEmptySession    = "empty_session"
)
