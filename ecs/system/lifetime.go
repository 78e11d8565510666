package system

import (
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// LifetimeSystem ticks Lifetime timers and queues the destruction of
// entities whose timer finished.
type LifetimeSystem struct{}

func NewLifetimeSystem() *LifetimeSystem {
	return &LifetimeSystem{}
}

func (s *LifetimeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	delta := w.Time().Delta
	ecs.ForEach(w, component.LifetimeComponent.Kind(), func(e ecs.Entity, lifetime *component.Lifetime) {
		if lifetime.Timer.Tick(delta).Finished() {
			w.Commands().Despawn(e)
		}
	})
}
