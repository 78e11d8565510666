package component

// LevelBounds stores the world-space bounds of the current level. Instances
// marked DehydrateOutOfBounds are removed once they leave it by more than
// Margin.
type LevelBounds struct {
	Width  float64
	Height float64
	Margin float64
}

// Contains reports whether (x, y) lies inside the bounds grown by Margin.
func (b LevelBounds) Contains(x, y float64) bool {
	return x >= -b.Margin && y >= -b.Margin && x <= b.Width+b.Margin && y <= b.Height+b.Margin
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
