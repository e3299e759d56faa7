// Package touchzone implements the read-mostly 2-D spatial index described
// in spec.md §4.3: it maps a touch coordinate to the abstract button or
// D-pad action bound to whichever configured rectangle contains it.
//
// All four presets in spec.md §4.4 use at most four zones per surface, so
// per spec.md's own allowance ("for <=8 zones a linear scan is acceptable")
// this is a linear scan over the zones in insertion order rather than an R-tree — no spatial
// index library appeared anywhere in the retrieved example corpus, so this
// is documented in DESIGN.md as a standard-library component.
package touchzone

// Point is an integer 2-D touch coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle, inclusive of both corners.
type Rect struct {
	Min, Max Point
}

// Contains reports whether p falls within r (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Dpad is a D-pad direction, including the 8-compass directions and None.
type Dpad int

const (
	DpadNone Dpad = iota
	DpadUp
	DpadUpRight
	DpadRight
	DpadDownRight
	DpadDown
	DpadDownLeft
	DpadLeft
	DpadUpLeft
)

// Button is an abstract button, independent of the DS4 bit layout (that
// mapping lives in package sink).
type Button int

const (
	ButtonThumbRight Button = iota
	ButtonThumbLeft
	ButtonTriggerRight
	ButtonTriggerLeft
	ButtonShoulderRight
	ButtonShoulderLeft
)

// ActionKind discriminates the two TouchAction variants in spec.md §3.
type ActionKind int

const (
	ActionButton ActionKind = iota
	ActionDpad
)

// Action is the union `TouchAction ∈ {Button(B), Dpad(D)}` from spec.md §3.
type Action struct {
	Kind   ActionKind
	Button Button
	Dpad   Dpad
}

// Zone is an axis-aligned rectangle plus an optional bound action.
type Zone struct {
	Rect   Rect
	Action Action
}

// Index is a read-mostly spatial index over a fixed set of zones, built
// once at config construction.
type Index struct {
	zones []Zone
}

// NewIndex constructs an index from a set of zones. Construction is O(n)
// (linear-scan backing), matching spec.md's O(n log n) budget trivially.
func NewIndex(zones []Zone) *Index {
	cp := make([]Zone, len(zones))
	copy(cp, zones)
	return &Index{zones: cp}
}

// LocateAtPoint returns the zone containing p, if any. If multiple zones
// contain p, the first one added wins (spec.md notes zones in practice
// partition the surface, so any answer is valid).
func (idx *Index) LocateAtPoint(p Point) (Zone, bool) {
	for _, z := range idx.zones {
		if z.Rect.Contains(p) {
			return z, true
		}
	}
	return Zone{}, false
}
