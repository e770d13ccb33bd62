package constraints

// Gesture gates live validation during a drag. The first MoveGrace movement
// events after pickup are not judged so a freshly dropped element can land;
// release is always judged.
type Gesture struct {
	grace int
	moves int
}

// Move records a movement event and reports whether it should be validated.
func (g *Gesture) Move() bool {
	if g == nil {
		return true
	}
	g.moves++
	return g.moves > g.grace
}

// Moves returns how many movement events the gesture has seen.
func (g *Gesture) Moves() int {
	if g == nil {
		return 0
	}
	return g.moves
}
