package system

import (
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// PlayerControlSystem turns movement intents into body velocity and facing.
type PlayerControlSystem struct{}

func NewPlayerControlSystem() *PlayerControlSystem {
	return &PlayerControlSystem{}
}

func (s *PlayerControlSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach3(w, component.PlayerControlComponent.Kind(), component.KinematicBodyComponent.Kind(), component.PlayerMovementComponent.Kind(), func(e ecs.Entity, ctl *component.PlayerControl, body *component.KinematicBody, move *component.PlayerMovement) {
		dir := ctl.MoveX
		if dir > 1 {
			dir = 1
		} else if dir < -1 {
			dir = -1
		}
		body.Velocity.X = dir * move.Speed

		if sprite, ok := ecs.Get(w, e, component.AtlasSpriteComponent.Kind()); ok {
			if dir < 0 {
				sprite.FlipX = true
			} else if dir > 0 {
				sprite.FlipX = false
			}
		}

		if ctl.Jump && body.IsOnGround {
			body.Velocity.Y = -move.JumpSpeed
			body.IsOnGround = false
		}
		ctl.Jump = false
	})
}
