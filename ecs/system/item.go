package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// ItemSystem applies the grab, use and throw intents of players.
type ItemSystem struct {
	collisions *CollisionWorld
}

func NewItemSystem(collisions *CollisionWorld) *ItemSystem {
	return &ItemSystem{collisions: collisions}
}

func (s *ItemSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	// One-shot markers left over from the previous tick.
	clearAll(w, component.ItemDroppedComponent.Kind())
	clearAll(w, component.ItemUsedComponent.Kind())

	ecs.ForEach3(w, component.PlayerControlComponent.Kind(), component.InventoryComponent.Kind(), component.TransformComponent.Kind(), func(player ecs.Entity, ctl *component.PlayerControl, inv *component.Inventory, pt *component.Transform) {
		if inv.Held != 0 && !ecs.IsAlive(w, ecs.Entity(inv.Held)) {
			inv.Held = 0
			clearFinAnim(w, player)
		}

		switch {
		case ctl.Throw && inv.Held != 0:
			s.throw(w, player, inv, pt)
		case ctl.Grab && inv.Held != 0:
			s.release(w, player, inv, pt)
		case ctl.Grab:
			if item, ok := s.nearestItem(w, player); ok {
				s.grab(w, player, inv, item)
			}
		}

		if ctl.Use {
			target := ecs.Entity(inv.Held)
			if inv.Held == 0 {
				target, _ = s.nearestItem(w, player)
			}
			if target != 0 {
				_ = ecs.Add(w, target, component.ItemUsedComponent.Kind(), &component.ItemUsed{})
			}
		}

		ctl.Grab = false
		ctl.Use = false
		ctl.Throw = false
	})
}

func (s *ItemSystem) nearestItem(w *ecs.World, player ecs.Entity) (ecs.Entity, bool) {
	if s.collisions == nil {
		return 0, false
	}
	free := func(e ecs.Entity) bool {
		return ecs.Has(w, e, component.ItemComponent.Kind()) && !IsHeld(w, e)
	}
	items := s.collisions.ActorCollisionsFiltered(w, player, free)
	if len(items) == 0 {
		return 0, false
	}
	return items[0], true
}

func (s *ItemSystem) grab(w *ecs.World, player ecs.Entity, inv *component.Inventory, item ecs.Entity) {
	inv.Held = uint64(item)
	ecs.Remove(w, item, component.ReleasedByComponent.Kind())
	if body, ok := ecs.Get(w, item, component.KinematicBodyComponent.Kind()); ok {
		body.IsDeactivated = true
		body.Velocity = cp.Vector{}
		body.AngularVelocity = 0
	}
	if grab, ok := ecs.Get(w, item, component.ItemGrabComponent.Kind()); ok {
		if layers, ok := ecs.Get(w, player, component.PlayerLayersComponent.Kind()); ok {
			layers.FinAnim = grab.FinAnim
		}
		ecs.Insert(w.Commands(), item, component.PlayerBodyAttachmentComponent.Kind(), &component.PlayerBodyAttachment{
			Player: uint64(player),
			Offset: grab.GrabOffset,
		})
	}
}

// release drops the held item at the holder's hand position.
func (s *ItemSystem) release(w *ecs.World, player ecs.Entity, inv *component.Inventory, pt *component.Transform) ecs.Entity {
	item := ecs.Entity(inv.Held)
	inv.Held = 0
	clearFinAnim(w, player)

	if t, ok := ecs.Get(w, item, component.TransformComponent.Kind()); ok {
		offset := cp.Vector{}
		if grab, ok := ecs.Get(w, item, component.ItemGrabComponent.Kind()); ok {
			offset = grab.GrabOffset
		}
		if facingLeft(w, player) {
			offset.X = -offset.X
		}
		t.X = pt.X + offset.X
		t.Y = pt.Y + offset.Y
	}
	if body, ok := ecs.Get(w, item, component.KinematicBodyComponent.Kind()); ok {
		body.IsDeactivated = false
		body.Velocity = cp.Vector{}
	}
	ecs.RemoveLater(w.Commands(), item, component.PlayerBodyAttachmentComponent.Kind())
	// Added directly so the passes later this tick see who let go.
	_ = ecs.Add(w, item, component.ItemDroppedComponent.Kind(), &component.ItemDropped{Player: uint64(player)})
	_ = ecs.Add(w, item, component.ReleasedByComponent.Kind(), &component.ReleasedBy{Player: uint64(player)})
	return item
}

func (s *ItemSystem) throw(w *ecs.World, player ecs.Entity, inv *component.Inventory, pt *component.Transform) {
	item := s.release(w, player, inv, pt)
	throw, ok := ecs.Get(w, item, component.ItemThrowComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, item, component.KinematicBodyComponent.Kind())
	if !ok {
		return
	}
	body.Velocity = throw.Strength
	body.AngularVelocity = throw.Spin
	if facingLeft(w, player) {
		body.Velocity.X = -body.Velocity.X
		body.AngularVelocity = -body.AngularVelocity
	}
}

func clearFinAnim(w *ecs.World, player ecs.Entity) {
	if layers, ok := ecs.Get(w, player, component.PlayerLayersComponent.Kind()); ok {
		layers.FinAnim = ""
	}
}

func facingLeft(w *ecs.World, player ecs.Entity) bool {
	sprite, ok := ecs.Get(w, player, component.AtlasSpriteComponent.Kind())
	return ok && sprite.FlipX
}

func clearAll[T any](w *ecs.World, kind component.ComponentKind[T]) {
	q := ecs.NewQuery(w)
	ecs.Require(q, kind)
	for _, e := range q.Entities() {
		ecs.Remove(w, e, kind)
	}
}
