package system

import (
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// DehydrateSystem removes spawned instances that left the level bounds and
// un-hydrates their markers so they respawn.
type DehydrateSystem struct{}

func NewDehydrateSystem() *DehydrateSystem {
	return &DehydrateSystem{}
}

func (s *DehydrateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, _ := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	cmds := w.Commands()

	ecs.ForEach2(w, component.DehydrateOutOfBoundsComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, d *component.DehydrateOutOfBounds, t *component.Transform) {
		if bounds.Contains(t.X, t.Y) {
			return
		}
		ecs.RemoveLater(cmds, ecs.Entity(d.Spawner), component.MapElementHydratedComponent.Kind())
		cmds.Despawn(e)
	})
}
