package component

// Transform is the world placement of an entity. Y grows downward and Z is
// the render depth.
type Transform struct {
	X        float64
	Y        float64
	Z        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

// NewTransform places an entity at (x, y) with unit scale.
func NewTransform(x, y float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

var TransformComponent = NewComponent[Transform]()
