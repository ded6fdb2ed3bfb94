package gesture

// Binding is one user-declared rule mapping a gesture shape to commands.
type Binding struct {
	Kind    Kind
	Fingers int

	// Swipe-only.
	Direction        Direction
	MouseUpDelayMs   *int
	Acceleration     *int

	// Pinch-only.
	PinchDirection PinchDirection

	// Swipe/Pinch commands. Hold uses Action instead.
	StartCmd  string
	UpdateCmd string
	EndCmd    string

	// Hold-only.
	Action string
}

// IsDirectDrag reports whether b is the one triple that activates the drag
// engine: a Swipe binding with direction Any, and both
// MouseUpDelayMs and Acceleration set.
func (b Binding) IsDirectDrag() bool {
	return b.Kind == Swipe && b.Direction == DirAny &&
		b.MouseUpDelayMs != nil && b.Acceleration != nil
}

// MatchesSwipeDirection reports whether b's direction matches the current
// accumulated vector: Any always matches; otherwise the vector's 8-sector
// direction must equal b.Direction.
func (b Binding) MatchesSwipeDirection(dx, dy float64) bool {
	if b.Direction == DirAny {
		return true
	}
	if !HasMagnitude(dx, dy) {
		return false
	}
	return DirectionOf(dx, dy) == b.Direction
}

// MatchesPinchDirection reports whether b's pinch direction matches scale.
func (b Binding) MatchesPinchDirection(scale float64) bool {
	if b.PinchDirection == PinchAny {
		return true
	}
	return b.PinchDirection == PinchDirectionOf(scale)
}
