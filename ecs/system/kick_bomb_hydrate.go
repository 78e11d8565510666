package system

import (
	"log"

	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
	"github.com/milk9111/kickbomb/prefabs"
)

// KickBombHydrateSystem turns unhydrated kick bomb markers into live bombs.
// Markers whose metadata is not loaded yet are retried next tick.
type KickBombHydrateSystem struct {
	cfg      Config
	elements ElementSource
	spawners *SpawnerManager
	Debug    bool
}

func NewKickBombHydrateSystem(cfg Config, elements ElementSource, spawners *SpawnerManager) *KickBombHydrateSystem {
	return &KickBombHydrateSystem{cfg: cfg, elements: elements, spawners: spawners}
}

func (s *KickBombHydrateSystem) Update(w *ecs.World) {
	if w == nil || s.elements == nil {
		return
	}
	s.spawners.Prune(w)

	for _, marker := range unhydratedMarkers(w) {
		handle, _ := ecs.Get(w, marker, component.ElementHandleComponent.Kind())
		meta, ok := s.elements.KickBomb(handle.Path)
		if !ok {
			if s.Debug {
				log.Printf("hydrate: kick bomb %q not loaded yet", handle.Path)
			}
			continue
		}
		markerTransform, ok := ecs.Get(w, marker, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		_ = ecs.Add(w, marker, component.MapElementHydratedComponent.Kind(), &component.MapElementHydrated{})

		e := ecs.CreateEntity(w)
		transform := *markerTransform
		handleCopy := *handle
		add(w, e, component.ItemComponent.Kind(), &component.Item{})
		add(w, e, component.ItemThrowComponent.Kind(), &component.ItemThrow{Strength: meta.ThrowVelocity, Spin: meta.AngularVelocity})
		add(w, e, component.ItemGrabComponent.Kind(), &component.ItemGrab{FinAnim: meta.FinAnim, SyncAnimation: false, GrabOffset: meta.GrabOffset})
		add(w, e, component.IdleKickBombComponent.Kind(), &component.IdleKickBomb{})
		add(w, e, component.KickBombSettingsComponent.Kind(), kickBombSettings(meta))
		add(w, e, component.AtlasSpriteComponent.Kind(), &component.AtlasSprite{Atlas: meta.Atlas})
		add(w, e, component.DehydrateOutOfBoundsComponent.Kind(), &component.DehydrateOutOfBounds{Spawner: uint64(marker)})
		add(w, e, component.TransformComponent.Kind(), &transform)
		add(w, e, component.ElementHandleComponent.Kind(), &handleCopy)
		add(w, e, component.MapElementHydratedComponent.Kind(), &component.MapElementHydrated{})
		add(w, e, component.AnimatedSpriteComponent.Kind(), &component.AnimatedSprite{})
		add(w, e, component.KinematicBodyComponent.Kind(), &component.KinematicBody{
			Shape:       component.CircleShape(meta.BodyDiameter),
			Gravity:     s.cfg.Gravity,
			HasMass:     true,
			HasFriction: true,
			CanRotate:   meta.CanRotate,
			Bounciness:  meta.Bounciness,
		})

		s.spawners.CreateSpawner(marker, []ecs.Entity{e})
	}
}

func kickBombSettings(meta *prefabs.KickBombMeta) *component.KickBombSettings {
	return &component.KickBombSettings{
		FinAnim:              meta.FinAnim,
		GrabOffset:           meta.GrabOffset,
		KickVelocity:         meta.KickVelocity,
		ArmDelay:             meta.ArmDelay.Duration,
		FuseTime:             meta.FuseTime.Duration,
		FuseSound:            meta.FuseSound,
		FuseSoundVolume:      meta.FuseSoundVolume,
		DamageRegionSize:     meta.DamageRegionSize,
		DamageRegionLifetime: meta.DamageRegionLifetime.Duration,
		ExplosionAtlas:       meta.ExplosionAtlas,
		ExplosionLifetime:    meta.ExplosionLifetime.Duration,
		ExplosionFrames:      meta.ExplosionFrames,
		ExplosionFPS:         meta.ExplosionFPS,
		ExplosionSound:       meta.ExplosionSound,
		ExplosionVolume:      meta.ExplosionVolume,
	}
}

// unhydratedMarkers returns entities with an element handle that are not
// hydrated, in slot order.
func unhydratedMarkers(w *ecs.World) []ecs.Entity {
	q := ecs.NewQuery(w)
	ecs.Require(q, component.ElementHandleComponent.Kind())
	ecs.Exclude(q, component.MapElementHydratedComponent.Kind())
	return q.Entities()
}

// add inserts a component on an entity this system just created. Failure
// means the world is inconsistent.
func add[T any](w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], value *T) {
	if err := ecs.Add(w, e, kind, value); err != nil {
		panic("hydrate: add component: " + err.Error())
	}
}
