package system

import (
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// DamageSystem reports every non-invincible player inside a live damage
// region, once per region, and grants the player a short invincibility.
type DamageSystem struct {
	cfg        Config
	collisions *CollisionWorld
	events     *Events
}

func NewDamageSystem(cfg Config, collisions *CollisionWorld, events *Events) *DamageSystem {
	return &DamageSystem{cfg: cfg, collisions: collisions, events: events}
}

func (s *DamageSystem) Update(w *ecs.World) {
	if w == nil || s.collisions == nil {
		return
	}
	cmds := w.Commands()
	ecs.ForEach2(w, component.DamageRegionComponent.Kind(), component.TransformComponent.Kind(), func(region ecs.Entity, dr *component.DamageRegion, t *component.Transform) {
		eligible := func(e ecs.Entity) bool {
			if !ecs.Has(w, e, component.PlayerIdxComponent.Kind()) || ecs.Has(w, e, component.InvincibilityComponent.Kind()) {
				return false
			}
			_, hit := dr.Hit[uint64(e)]
			return !hit
		}
		for _, player := range s.collisions.ActorsInBox(w, t.X, t.Y, dr.Size.X/2, dr.Size.Y/2, eligible) {
			if dr.Hit == nil {
				dr.Hit = make(map[uint64]struct{})
			}
			dr.Hit[uint64(player)] = struct{}{}

			idx, _ := ecs.Get(w, player, component.PlayerIdxComponent.Kind())
			if s.events != nil {
				s.events.Damage.Push(component.PlayerDamaged{Player: uint64(player), Index: idx.Index, Region: uint64(region)})
			}
			if s.cfg.PlayerInvincibility > 0 {
				ecs.Insert(cmds, player, component.InvincibilityComponent.Kind(), &component.Invincibility{
					Timer: component.NewTimer(s.cfg.PlayerInvincibility, component.TimerOnce),
				})
			}
		}
	})
}
