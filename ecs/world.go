package ecs

import (
	"time"

	"github.com/milk9111/kickbomb/ecs/component"
)

// Time is the clock every system reads. Delta is the elapsed time of the
// current tick.
type Time struct {
	Delta   time.Duration
	Elapsed time.Duration
	Tick    uint64
}

// World owns entities, component stores and the deferred command bus.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]componentStore
	commands Commands
	time     Time
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	w := &World{stores: make(map[component.ComponentID]componentStore)}
	w.commands.world = w
	return w
}

// CreateEntity allocates a new live entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle. It
// refuses while any store holding e is being iterated; use the command bus
// from inside a ForEach.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		if store.has(e) && store.isLocked() {
			return false
		}
	}
	for _, store := range w.stores {
		_ = store.remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	w.entities.each(func(e Entity) { out = append(out, e) })
	return out
}

// EntityCount returns the number of live entities.
func EntityCount(w *World) int {
	if w == nil {
		return 0
	}
	return w.entities.count
}

// Commands returns the world's deferred command bus.
func (w *World) Commands() *Commands {
	if w == nil {
		return nil
	}
	return &w.commands
}

// Time returns the clock for the current tick.
func (w *World) Time() Time {
	if w == nil {
		return Time{}
	}
	return w.time
}

// Advance moves the world clock forward by dt and starts a new tick.
func (w *World) Advance(dt time.Duration) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.time.Delta = dt
	w.time.Elapsed += dt
	w.time.Tick++
}

func (s *SparseSet[T]) isLocked() bool {
	return s.locked > 0
}
