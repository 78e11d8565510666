package component

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// ElementHandle points a placement marker or a runtime instance at its
// element metadata in the prefab store.
type ElementHandle struct {
	Path string
}

var ElementHandleComponent = NewComponent[ElementHandle]()

// MapElementHydrated is set on a marker while it owns a live instance, and on
// the instance itself.
type MapElementHydrated struct{}

var MapElementHydratedComponent = NewComponent[MapElementHydrated]()

// DehydrateOutOfBounds links an instance back to the marker that spawned it.
type DehydrateOutOfBounds struct {
	Spawner uint64
}

var DehydrateOutOfBoundsComponent = NewComponent[DehydrateOutOfBounds]()

// Decoration is a hydrated decoration instance. Tint is nil when the element
// leaves the atlas colors untouched.
type Decoration struct {
	Size cp.Vector
	Tint color.Color
}

var DecorationComponent = NewComponent[Decoration]()
