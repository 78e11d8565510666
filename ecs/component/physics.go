package component

import "github.com/jakecoffman/cp"

type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRectangle
)

// ColliderShape is the collision footprint of a kinematic body, centred on
// the entity transform.
type ColliderShape struct {
	Kind     ShapeKind
	Diameter float64
	Size     cp.Vector
}

func CircleShape(diameter float64) ColliderShape {
	return ColliderShape{Kind: ShapeCircle, Diameter: diameter}
}

func RectShape(w, h float64) ColliderShape {
	return ColliderShape{Kind: ShapeRectangle, Size: cp.Vector{X: w, Y: h}}
}

// HalfExtents returns half the width and height of the shape's bounds.
func (s ColliderShape) HalfExtents() (float64, float64) {
	if s.Kind == ShapeCircle {
		return s.Diameter / 2, s.Diameter / 2
	}
	return s.Size.X / 2, s.Size.Y / 2
}

// KinematicBody is the simulated motion state of an actor. A deactivated
// body is skipped by physics integration and collision queries.
type KinematicBody struct {
	Shape           ColliderShape
	Velocity        cp.Vector
	AngularVelocity float64
	Gravity         float64
	HasMass         bool
	HasFriction     bool
	CanRotate       bool
	Bounciness      float64
	IsDeactivated   bool
	IsOnGround      bool
	WasOnGround     bool
}

var KinematicBodyComponent = NewComponent[KinematicBody]()

// Solid is a static level rectangle. X and Y are the top-left corner.
type Solid struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

var SolidComponent = NewComponent[Solid]()
