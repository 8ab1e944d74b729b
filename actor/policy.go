package actor

import (
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const ErrTypeUnknownPolicy = "unknown_policy"

// IntersectionPolicy decides whether boxes that only touch along an edge
// count as intersecting.
type IntersectionPolicy uint8

const (
	// OpenInterval treats boxes as open rectangles: touching edges do not
	// intersect.
	OpenInterval IntersectionPolicy = iota
	// ClosedInterval treats boxes as closed rectangles: touching edges
	// intersect.
	ClosedInterval
)

// DefaultPolicy is used by every query path unless configured otherwise.
const DefaultPolicy = OpenInterval

// Intersects applies the policy to a pair of boxes.
func (p IntersectionPolicy) Intersects(a, b AABB) bool {
	if p == ClosedInterval {
		return a.Overlaps(b)
	}
	return a.Intersects(b)
}

func (p IntersectionPolicy) String() string {
	switch p {
	case OpenInterval:
		return "open"
	case ClosedInterval:
		return "closed"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "open" or "closed".
func ParsePolicy(s string) (IntersectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "open":
		return OpenInterval, nil
	case "closed":
		return ClosedInterval, nil
	default:
		return DefaultPolicy, errors.New("unknown intersection policy").
			WithType(ErrTypeUnknownPolicy).
			WithTag("policy", s)
	}
}
