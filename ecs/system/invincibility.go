package system

import (
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

type InvincibilitySystem struct{}

func NewInvincibilitySystem() *InvincibilitySystem {
	return &InvincibilitySystem{}
}

func (s *InvincibilitySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	delta := w.Time().Delta
	ecs.ForEach(w, component.InvincibilityComponent.Kind(), func(e ecs.Entity, inv *component.Invincibility) {
		if inv.Timer.Tick(delta).Finished() {
			ecs.RemoveLater(w.Commands(), e, component.InvincibilityComponent.Kind())
		}
	})
}
