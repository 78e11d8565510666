package component

import "github.com/jakecoffman/cp"

// PlayerIdx is the player slot number.
type PlayerIdx struct {
	Index int
}

var PlayerIdxComponent = NewComponent[PlayerIdx]()

// PlayerLayers mirrors what a player shows on top of its own sprite.
type PlayerLayers struct {
	FinAnim string
}

var PlayerLayersComponent = NewComponent[PlayerLayers]()

// PlayerControl carries the intents for the current tick. Grab, Use and
// Throw are edge triggered and cleared after they are consumed.
type PlayerControl struct {
	MoveX float64
	Jump  bool
	Grab  bool
	Use   bool
	Throw bool
}

var PlayerControlComponent = NewComponent[PlayerControl]()

// PlayerMovement holds the tuning PlayerControlSystem drives the body with.
type PlayerMovement struct {
	Speed     float64
	JumpSpeed float64
}

var PlayerMovementComponent = NewComponent[PlayerMovement]()

// Inventory holds at most one item. Held is zero when empty.
type Inventory struct {
	Held uint64
}

var InventoryComponent = NewComponent[Inventory]()

// Invincibility shields a player from kicks and damage until the timer ends.
type Invincibility struct {
	Timer Timer
}

var InvincibilityComponent = NewComponent[Invincibility]()

// PlayerBodyAttachment pins an entity to a player's body.
type PlayerBodyAttachment struct {
	Player        uint64
	Offset        cp.Vector
	Z             float64
	SyncColor     bool
	SyncAnimation bool
	Head          bool
}

var PlayerBodyAttachmentComponent = NewComponent[PlayerBodyAttachment]()
