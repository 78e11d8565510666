package system

import (
	"time"

	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// AnimationSystem advances frame sequences and writes the current frame to
// the atlas sprite.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (s *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	delta := w.Time().Delta
	ecs.ForEach2(w, component.AnimatedSpriteComponent.Kind(), component.AtlasSpriteComponent.Kind(), func(e ecs.Entity, anim *component.AnimatedSprite, sprite *component.AtlasSprite) {
		step(anim, delta)
		if frame, ok := anim.Frame(); ok {
			sprite.Index = frame
		}
	})
}

func step(anim *component.AnimatedSprite, delta time.Duration) {
	if anim.FPS <= 0 || len(anim.Frames) == 0 || anim.Finished {
		return
	}
	frame := time.Duration(float64(time.Second) / anim.FPS)
	if frame <= 0 {
		return
	}
	anim.Elapsed += delta
	for anim.Elapsed >= frame {
		anim.Elapsed -= frame
		anim.Index++
		if anim.Index < len(anim.Frames) {
			continue
		}
		if anim.Repeat {
			anim.Index = 0
			continue
		}
		anim.Index = len(anim.Frames) - 1
		anim.Finished = true
		anim.Elapsed = 0
		return
	}
}
