package component

import "github.com/jakecoffman/cp"

// DamageRegion hurts players overlapping its rectangle, centred on the
// entity transform.
type DamageRegion struct {
	Size cp.Vector
	Hit  map[uint64]struct{}
}

var DamageRegionComponent = NewComponent[DamageRegion]()

// Lifetime destroys its entity when the timer finishes.
type Lifetime struct {
	Timer Timer
}

var LifetimeComponent = NewComponent[Lifetime]()
