package component

import "github.com/jakecoffman/cp"

// Item marks an entity players can pick up.
type Item struct{}

var ItemComponent = NewComponent[Item]()

// ItemThrow configures the launch applied when a holder throws the item.
type ItemThrow struct {
	Strength cp.Vector
	Spin     float64
}

var ItemThrowComponent = NewComponent[ItemThrow]()

// ItemGrab configures how a held item is shown on its holder.
type ItemGrab struct {
	FinAnim       string
	SyncAnimation bool
	GrabOffset    cp.Vector
}

var ItemGrabComponent = NewComponent[ItemGrab]()

// ItemUsed is the one-shot trigger set when a holder activates the item.
type ItemUsed struct{}

var ItemUsedComponent = NewComponent[ItemUsed]()

// ItemDropped is set for one tick after an item leaves an inventory.
type ItemDropped struct {
	Player uint64
}

var ItemDroppedComponent = NewComponent[ItemDropped]()

// ReleasedBy names the player that last dropped or threw the item. That
// player cannot kick it until the two stop overlapping.
type ReleasedBy struct {
	Player uint64
}

var ReleasedByComponent = NewComponent[ReleasedBy]()
