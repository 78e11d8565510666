package system

import (
	"math"

	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// PhysicsSystem integrates kinematic bodies in screen space (y down) and
// resolves them against the static solids of the collision world, one axis
// at a time.
type PhysicsSystem struct {
	cfg        Config
	collisions *CollisionWorld
}

func NewPhysicsSystem(cfg Config, collisions *CollisionWorld) *PhysicsSystem {
	return &PhysicsSystem{cfg: cfg, collisions: collisions}
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if w == nil || s.collisions == nil {
		return
	}
	dt := deltaSeconds(w)
	if dt <= 0 {
		s.collisions.Sync(w)
		return
	}
	// Friction is tuned per 60 Hz frame.
	friction := math.Pow(clamp01(s.cfg.GroundFriction), dt*60)

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.KinematicBodyComponent.Kind(), func(e ecs.Entity, t *component.Transform, body *component.KinematicBody) {
		if body.IsDeactivated {
			body.IsOnGround = false
			body.WasOnGround = false
			return
		}
		body.WasOnGround = body.IsOnGround
		body.IsOnGround = false

		if body.HasMass {
			body.Velocity.Y += body.Gravity * dt
			if s.cfg.MaxFallSpeed > 0 && body.Velocity.Y > s.cfg.MaxFallSpeed {
				body.Velocity.Y = s.cfg.MaxFallSpeed
			}
		}

		hw, hh := body.Shape.HalfExtents()

		t.X += body.Velocity.X * dt
		for _, solid := range s.collisions.SolidsIn(BoxBB(t.X, t.Y, hw, hh)) {
			if body.Velocity.X > 0 {
				t.X = solid.L - hw
			} else if body.Velocity.X < 0 {
				t.X = solid.R + hw
			} else {
				continue
			}
			body.Velocity.X = -body.Velocity.X * body.Bounciness
		}

		t.Y += body.Velocity.Y * dt
		for _, solid := range s.collisions.SolidsIn(BoxBB(t.X, t.Y, hw, hh)) {
			if body.Velocity.Y > 0 {
				t.Y = solid.B - hh
				body.IsOnGround = true
			} else if body.Velocity.Y < 0 {
				t.Y = solid.T + hh
			} else {
				continue
			}
			// Impacts no faster than two ticks of gravity are resting contact.
			if math.Abs(body.Velocity.Y) <= body.Gravity*dt*2+s.cfg.RestSpeed {
				body.Velocity.Y = 0
			} else {
				body.Velocity.Y = -body.Velocity.Y * body.Bounciness
			}
		}

		if !body.IsOnGround && body.Velocity.Y >= 0 && s.cfg.GroundSnap > 0 {
			below := BoxBB(t.X, t.Y+s.cfg.GroundSnap, hw, hh)
			if len(s.collisions.SolidsIn(below)) > 0 {
				body.IsOnGround = true
			}
		}

		if body.IsOnGround && body.HasFriction {
			body.Velocity.X *= friction
			if math.Abs(body.Velocity.X) < s.cfg.RestSpeed {
				body.Velocity.X = 0
			}
		}

		if body.CanRotate {
			if body.IsOnGround && body.HasFriction {
				body.AngularVelocity *= friction
				if body.Velocity.X == 0 {
					body.AngularVelocity = 0
				}
			}
			t.Rotation += body.AngularVelocity * dt
		}
	})

	s.collisions.Sync(w)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
