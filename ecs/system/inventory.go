package system

import (
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// Holder is the player carrying an item and its inventory slot.
type Holder struct {
	Player ecs.Entity
	Slot   int
}

// FindHolder returns the player whose inventory holds item.
func FindHolder(w *ecs.World, item ecs.Entity) (Holder, bool) {
	var (
		found Holder
		ok    bool
	)
	ecs.ForEach2(w, component.InventoryComponent.Kind(), component.PlayerIdxComponent.Kind(), func(e ecs.Entity, inv *component.Inventory, idx *component.PlayerIdx) {
		if ok || inv == nil || idx == nil || inv.Held == 0 {
			return
		}
		if ecs.Entity(inv.Held) == item {
			found = Holder{Player: e, Slot: idx.Index}
			ok = true
		}
	})
	return found, ok
}

// IsHeld reports whether any inventory holds item.
func IsHeld(w *ecs.World, item ecs.Entity) bool {
	_, ok := FindHolder(w, item)
	return ok
}
