package actor

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrTypeInvalidGeometry is the error type returned when a box has a negative
// width or height, or a coordinate that is not a finite number.
const ErrTypeInvalidGeometry = "invalid_geometry"

// AABB represents an axis-aligned rectangle covering
// [Left, Left+Width) x [Top, Top+Height).
type AABB struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FromMinMax builds an AABB from its top-left and bottom-right corners. The
// returned box always reaches max: Right() >= max.X() and Bottom() >= max.Y().
func FromMinMax(min, max mgl64.Vec2) AABB {
	return AABB{
		Left:   min.X(),
		Top:    min.Y(),
		Width:  extent(min.X(), max.X()),
		Height: extent(min.Y(), max.Y()),
	}
}

// extent returns hi-lo, widened by as many ulps as needed for lo+extent to
// round to at least hi.
func extent(lo, hi float64) float64 {
	w := hi - lo
	for lo+w < hi {
		w = math.Nextafter(w, math.Inf(1))
	}
	return w
}

// Right returns the x coordinate of the right edge
func (a AABB) Right() float64 {
	return a.Left + a.Width
}

// Bottom returns the y coordinate of the bottom edge
func (a AABB) Bottom() float64 {
	return a.Top + a.Height
}

// Min returns the top-left corner
func (a AABB) Min() mgl64.Vec2 {
	return mgl64.Vec2{a.Left, a.Top}
}

// Max returns the bottom-right corner
func (a AABB) Max() mgl64.Vec2 {
	return mgl64.Vec2{a.Right(), a.Bottom()}
}

// Validate checks every coordinate is finite and the width and height are not
// negative.
func (a AABB) Validate() error {
	for _, v := range [...]float64{a.Left, a.Top, a.Width, a.Height, a.Right(), a.Bottom()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("bounding box is not finite").
				WithType(ErrTypeInvalidGeometry).
				WithTag("box", a)
		}
	}
	if a.Width < 0 || a.Height < 0 {
		return errors.New("bounding box has a negative size").
			WithType(ErrTypeInvalidGeometry).
			WithTag("width", a.Width).
			WithTag("height", a.Height)
	}
	return nil
}

// ContainsPoint checks if a point is inside the AABB, edges included
func (a AABB) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= a.Left && point.X() <= a.Right() &&
		point.Y() >= a.Top && point.Y() <= a.Bottom()
}

// Contains checks if other lies inside the AABB, edges included
func (a AABB) Contains(other AABB) bool {
	return a.ContainsPoint(other.Min()) && a.ContainsPoint(other.Max())
}

// Intersects reports whether the interiors of two AABBs overlap. Boxes that
// only share an edge do not intersect.
func (a AABB) Intersects(other AABB) bool {
	return a.Left < other.Right() &&
		a.Right() > other.Left &&
		a.Bottom() > other.Top &&
		a.Top < other.Bottom()
}

// Overlaps checks if two AABBs overlap, touching edges included
func (a AABB) Overlaps(other AABB) bool {
	return a.Left <= other.Right() &&
		a.Right() >= other.Left &&
		a.Bottom() >= other.Top &&
		a.Top <= other.Bottom()
}

// Union returns the smallest AABB enclosing both boxes.
func (a AABB) Union(other AABB) AABB {
	min := mgl64.Vec2{math.Min(a.Left, other.Left), math.Min(a.Top, other.Top)}
	max := mgl64.Vec2{math.Max(a.Right(), other.Right()), math.Max(a.Bottom(), other.Bottom())}
	return FromMinMax(min, max)
}
