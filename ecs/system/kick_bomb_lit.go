package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// KickBombLitSystem runs the lit bomb state machine: both timers tick every
// tick, then exactly one of the held, kicked or free branches applies. Every
// structural effect of an explosion is queued on the command bus.
type KickBombLitSystem struct {
	cfg        Config
	collisions *CollisionWorld
	audio      AudioSink
	trauma     TraumaSink
	events     *Events
}

func NewKickBombLitSystem(cfg Config, collisions *CollisionWorld, events *Events) *KickBombLitSystem {
	return &KickBombLitSystem{
		cfg:        cfg,
		collisions: collisions,
		audio:      events,
		trauma:     events,
		events:     events,
	}
}

func (s *KickBombLitSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	delta := w.Time().Delta

	ecs.ForEach3(w, component.LitKickBombComponent.Kind(), component.ElementHandleComponent.Kind(), component.DehydrateOutOfBoundsComponent.Kind(), func(e ecs.Entity, bomb *component.LitKickBomb, handle *component.ElementHandle, spawner *component.DehydrateOutOfBounds) {
		settings := mustKickBomb(w, e, handle)

		bomb.FuseTime.Tick(delta)
		bomb.ArmDelay.Tick(delta)

		shouldExplode := false
		if holder, ok := FindHolder(w, e); ok {
			s.hold(w, e, holder, settings)
		} else if player, ok := s.kicker(w, e); ok {
			shouldExplode = s.kick(w, e, player, bomb, settings)
		}

		if bomb.FuseTime.Finished() || shouldExplode {
			cause := component.ExplosionFuse
			if !bomb.FuseTime.Finished() {
				cause = component.ExplosionKick
			}
			s.explode(w, e, ecs.Entity(spawner.Spawner), settings, cause)
		}
	})
}

func (s *KickBombLitSystem) hold(w *ecs.World, e ecs.Entity, holder Holder, settings *component.KickBombSettings) {
	if layers, ok := ecs.Get(w, holder.Player, component.PlayerLayersComponent.Kind()); ok {
		layers.FinAnim = settings.FinAnim
	}
	if body, ok := ecs.Get(w, e, component.KinematicBodyComponent.Kind()); ok {
		body.IsDeactivated = true
	}
	ecs.Insert(w.Commands(), e, component.PlayerBodyAttachmentComponent.Kind(), &component.PlayerBodyAttachment{
		Player:        uint64(holder.Player),
		Offset:        settings.GrabOffset,
		Z:             s.cfg.AttachmentDepth,
		SyncColor:     false,
		SyncAnimation: false,
		Head:          false,
	})
}

// kicker returns the first non-invincible player overlapping the bomb. The
// player that released the bomb is skipped until it no longer overlaps, at
// which point the release is forgotten.
func (s *KickBombLitSystem) kicker(w *ecs.World, e ecs.Entity) (ecs.Entity, bool) {
	if s.collisions == nil {
		return 0, false
	}
	var releasedBy ecs.Entity
	if r, ok := ecs.Get(w, e, component.ReleasedByComponent.Kind()); ok {
		releasedBy = ecs.Entity(r.Player)
	}
	isPlayer := func(other ecs.Entity) bool {
		return ecs.Has(w, other, component.PlayerIdxComponent.Kind())
	}

	var kicker ecs.Entity
	found, separated := false, true
	for _, other := range s.collisions.ActorCollisionsFiltered(w, e, isPlayer) {
		if other == releasedBy {
			separated = false
			continue
		}
		if !found && !ecs.Has(w, other, component.InvincibilityComponent.Kind()) {
			kicker, found = other, true
		}
	}
	if releasedBy != 0 && separated {
		ecs.RemoveLater(w.Commands(), e, component.ReleasedByComponent.Kind())
	}
	return kicker, found
}

// kick applies the kick rules and reports whether the bomb should explode
// instead.
func (s *KickBombLitSystem) kick(w *ecs.World, e, player ecs.Entity, bomb *component.LitKickBomb, settings *component.KickBombSettings) bool {
	body, ok := ecs.Get(w, e, component.KinematicBodyComponent.Kind())
	if !ok {
		return false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	pt, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	facingLeft := false
	if sprite, ok := ecs.Get(w, player, component.AtlasSpriteComponent.Kind()); ok {
		facingLeft = sprite.FlipX
	}
	standingLeft := pt.X <= t.X

	switch {
	case body.Velocity.X == 0:
		body.Velocity = settings.KickVelocity
		if facingLeft {
			body.Velocity.X = -body.Velocity.X
		}
	case standingLeft && !facingLeft:
		body.Velocity = settings.KickVelocity
	case !standingLeft && facingLeft:
		body.Velocity = cp.Vector{X: -settings.KickVelocity.X, Y: settings.KickVelocity.Y}
	case bomb.ArmDelay.Finished():
		return true
	}
	return false
}

func (s *KickBombLitSystem) explode(w *ecs.World, e, spawner ecs.Entity, settings *component.KickBombSettings, cause component.ExplosionCause) {
	cmds := w.Commands()

	if s.audio != nil {
		s.audio.Play(settings.ExplosionSound, settings.ExplosionVolume)
	}
	if s.trauma != nil {
		s.trauma.Send(s.cfg.ExplosionTrauma)
	}

	// Un-hydrate the marker so it respawns a fresh bomb.
	ecs.RemoveLater(cmds, spawner, component.MapElementHydratedComponent.Kind())

	explosionTransform := component.NewTransform(0, 0)
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		explosionTransform = *t
	}
	explosionTransform.Z = s.cfg.ExplosionDepth
	explosionTransform.Rotation = 0

	if s.events != nil {
		s.events.Explosions.Push(component.Explosion{
			Bomb:    uint64(e),
			Spawner: uint64(spawner),
			X:       explosionTransform.X,
			Y:       explosionTransform.Y,
			Cause:   cause,
		})
	}

	cmds.Despawn(e)

	region := cmds.Spawn()
	regionTransform := explosionTransform
	ecs.Insert(cmds, region, component.TransformComponent.Kind(), &regionTransform)
	ecs.Insert(cmds, region, component.DamageRegionComponent.Kind(), &component.DamageRegion{Size: settings.DamageRegionSize})
	ecs.Insert(cmds, region, component.LifetimeComponent.Kind(), &component.Lifetime{
		Timer: component.NewTimer(settings.DamageRegionLifetime, component.TimerOnce),
	})

	visual := cmds.Spawn()
	visualTransform := explosionTransform
	ecs.Insert(cmds, visual, component.TransformComponent.Kind(), &visualTransform)
	ecs.Insert(cmds, visual, component.AtlasSpriteComponent.Kind(), &component.AtlasSprite{Atlas: settings.ExplosionAtlas})
	anim := &component.AnimatedSprite{}
	anim.Play(component.FrameRange(0, settings.ExplosionFrames), settings.ExplosionFPS, false)
	ecs.Insert(cmds, visual, component.AnimatedSpriteComponent.Kind(), anim)
	ecs.Insert(cmds, visual, component.LifetimeComponent.Kind(), &component.Lifetime{
		Timer: component.NewTimer(settings.ExplosionLifetime, component.TimerOnce),
	})
}
