package system

import (
	"fmt"

	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

var burningFrames = []int{3, 4, 5}

const burningFPS = 8

// KickBombIdleSystem lights idle bombs that were used this tick. The
// Idle to Lit swap is queued because the pass iterates the idle store.
type KickBombIdleSystem struct {
	audio AudioSink
}

func NewKickBombIdleSystem(audio AudioSink) *KickBombIdleSystem {
	return &KickBombIdleSystem{audio: audio}
}

func (s *KickBombIdleSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	cmds := w.Commands()

	ecs.ForEach2(w, component.IdleKickBombComponent.Kind(), component.ElementHandleComponent.Kind(), func(e ecs.Entity, _ *component.IdleKickBomb, handle *component.ElementHandle) {
		settings := mustKickBomb(w, e, handle)
		if !ecs.Has(w, e, component.ItemUsedComponent.Kind()) {
			return
		}

		if s.audio != nil {
			s.audio.Play(settings.FuseSound, settings.FuseSoundVolume)
		}
		ecs.Remove(w, e, component.ItemUsedComponent.Kind())
		if anim, ok := ecs.Get(w, e, component.AnimatedSpriteComponent.Kind()); ok {
			anim.Play(burningFrames, burningFPS, true)
		}

		ecs.RemoveLater(cmds, e, component.IdleKickBombComponent.Kind())
		ecs.Insert(cmds, e, component.LitKickBombComponent.Kind(), &component.LitKickBomb{
			ArmDelay: component.NewTimer(settings.ArmDelay, component.TimerOnce),
			FuseTime: component.NewTimer(settings.FuseTime, component.TimerOnce),
		})
	})
}

// mustKickBomb returns the settings resolved for e at hydration. A hydrated
// bomb without them is a broken world.
func mustKickBomb(w *ecs.World, e ecs.Entity, handle *component.ElementHandle) *component.KickBombSettings {
	settings, ok := ecs.Get(w, e, component.KickBombSettingsComponent.Kind())
	if !ok {
		path := ""
		if handle != nil {
			path = handle.Path
		}
		panic(fmt.Errorf("kick bomb %s (%q): %w", e, path, ErrMetadataMissing))
	}
	return settings
}
