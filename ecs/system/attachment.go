package system

import (
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// AttachmentSystem moves attached entities with the player they hang off.
// The offset is mirrored when the player faces left.
type AttachmentSystem struct{}

func NewAttachmentSystem() *AttachmentSystem {
	return &AttachmentSystem{}
}

func (s *AttachmentSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.PlayerBodyAttachmentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, att *component.PlayerBodyAttachment, t *component.Transform) {
		player := ecs.Entity(att.Player)
		pt, ok := ecs.Get(w, player, component.TransformComponent.Kind())
		if !ok {
			// Holder is gone: let the item fall again.
			if body, ok := ecs.Get(w, e, component.KinematicBodyComponent.Kind()); ok {
				body.IsDeactivated = false
			}
			ecs.RemoveLater(w.Commands(), e, component.PlayerBodyAttachmentComponent.Kind())
			return
		}

		offsetX := att.Offset.X
		sprite, hasSprite := ecs.Get(w, e, component.AtlasSpriteComponent.Kind())
		if facingLeft(w, player) {
			offsetX = -offsetX
		}
		t.X = pt.X + offsetX
		t.Y = pt.Y + att.Offset.Y
		t.Z = pt.Z + att.Z
		if hasSprite {
			sprite.FlipX = facingLeft(w, player)
		}
		if att.SyncAnimation {
			if anim, ok := ecs.Get(w, e, component.AnimatedSpriteComponent.Kind()); ok {
				if panim, ok := ecs.Get(w, player, component.AnimatedSpriteComponent.Kind()); ok {
					anim.Index = panim.Index
				}
			}
		}
	})
}
