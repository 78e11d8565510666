package system

import (
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// DecorationHydrateSystem spawns the visual instance of decoration markers.
type DecorationHydrateSystem struct {
	elements ElementSource
	spawners *SpawnerManager
}

func NewDecorationHydrateSystem(elements ElementSource, spawners *SpawnerManager) *DecorationHydrateSystem {
	return &DecorationHydrateSystem{elements: elements, spawners: spawners}
}

func (s *DecorationHydrateSystem) Update(w *ecs.World) {
	if w == nil || s.elements == nil {
		return
	}
	for _, marker := range unhydratedMarkers(w) {
		handle, _ := ecs.Get(w, marker, component.ElementHandleComponent.Kind())
		meta, ok := s.elements.Decoration(handle.Path)
		if !ok {
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
		deco := &component.Decoration{Size: meta.Size}
		if meta.Tint != nil {
			deco.Tint = meta.Tint.Color
		}
		add(w, e, component.DecorationComponent.Kind(), deco)
		add(w, e, component.TransformComponent.Kind(), &transform)
		add(w, e, component.ElementHandleComponent.Kind(), &handleCopy)
		add(w, e, component.MapElementHydratedComponent.Kind(), &component.MapElementHydrated{})
		add(w, e, component.DehydrateOutOfBoundsComponent.Kind(), &component.DehydrateOutOfBounds{Spawner: uint64(marker)})
		add(w, e, component.AtlasSpriteComponent.Kind(), &component.AtlasSprite{Atlas: meta.Atlas})
		anim := &component.AnimatedSprite{}
		anim.Play(meta.Frames, meta.FPS, true)
		add(w, e, component.AnimatedSpriteComponent.Kind(), anim)

		s.spawners.CreateSpawner(marker, []ecs.Entity{e})
	}
}
