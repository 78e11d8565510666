package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

// CollisionWorld mirrors level solids and actor bodies into Chipmunk shapes.
// Solids live in the space's static index. Actor shapes hang off standalone
// kinematic bodies that are repositioned from their transforms before every
// query, so no space step is needed to keep them current.
type CollisionWorld struct {
	space  *cp.Space
	solids []*cp.Shape
	actors map[ecs.Entity]*actorShape
}

type actorShape struct {
	body     *cp.Body
	shape    *cp.Shape
	collider component.ColliderShape
}

func NewCollisionWorld() *CollisionWorld {
	return &CollisionWorld{
		space:  cp.NewSpace(),
		actors: make(map[ecs.Entity]*actorShape),
	}
}

func (c *CollisionWorld) Space() *cp.Space {
	return c.space
}

// Reset drops every solid and actor.
func (c *CollisionWorld) Reset() {
	c.space = cp.NewSpace()
	c.solids = nil
	clear(c.actors)
}

// AddSolid adds a static rectangle with its top-left corner at (x, y).
func (c *CollisionWorld) AddSolid(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	shape := cp.NewBox2(c.space.StaticBody, cp.BB{L: x, B: y, R: x + w, T: y + h}, 0)
	c.space.AddShape(shape)
	c.solids = append(c.solids, shape)
}

// Solids returns the bounds of every static solid. B is the top edge and T
// the bottom edge in screen space.
func (c *CollisionWorld) Solids() []cp.BB {
	out := make([]cp.BB, 0, len(c.solids))
	for _, s := range c.solids {
		out = append(out, s.BB())
	}
	return out
}

// SolidsIn returns the static solids touching bb.
func (c *CollisionWorld) SolidsIn(bb cp.BB) []cp.BB {
	var out []cp.BB
	c.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if shape.Body().GetType() != cp.BODY_STATIC {
			return
		}
		sb := shape.BB()
		// Touching edges do not count as overlap.
		if sb.L < bb.R && sb.R > bb.L && sb.B < bb.T && sb.T > bb.B {
			out = append(out, sb)
		}
	}, nil)
	return out
}

// BoxBB returns the bounds of a box centred on (x, y).
func BoxBB(x, y, halfW, halfH float64) cp.BB {
	return cp.BB{L: x - halfW, B: y - halfH, R: x + halfW, T: y + halfH}
}

// sync places the actor shape of e at its transform, rebuilding the shape
// when the collider changed.
func (c *CollisionWorld) sync(e ecs.Entity, t *component.Transform, body *component.KinematicBody) *actorShape {
	a, ok := c.actors[e]
	if !ok || a.collider != body.Shape {
		a = &actorShape{body: cp.NewKinematicBody(), collider: body.Shape}
		switch body.Shape.Kind {
		case component.ShapeRectangle:
			a.shape = cp.NewBox(a.body, body.Shape.Size.X, body.Shape.Size.Y, 0)
		default:
			a.shape = cp.NewCircle(a.body, body.Shape.Diameter/2, cp.Vector{})
		}
		a.shape.UserData = e
		c.actors[e] = a
	}
	a.body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
	a.shape.CacheBB()
	return a
}

// Sync refreshes every actor from the world and drops actors whose entity or
// body is gone.
func (c *CollisionWorld) Sync(w *ecs.World) {
	seen := make(map[ecs.Entity]struct{}, len(c.actors))
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.KinematicBodyComponent.Kind(), func(e ecs.Entity, t *component.Transform, body *component.KinematicBody) {
		c.sync(e, t, body)
		seen[e] = struct{}{}
	})
	for e := range c.actors {
		if _, ok := seen[e]; !ok {
			delete(c.actors, e)
		}
	}
}

// ActorCollisionsFiltered returns the active actors overlapping e for which
// keep returns true, in slot order. Deactivated bodies never collide.
func (c *CollisionWorld) ActorCollisionsFiltered(w *ecs.World, e ecs.Entity, keep func(ecs.Entity) bool) []ecs.Entity {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil
	}
	body, ok := ecs.Get(w, e, component.KinematicBodyComponent.Kind())
	if !ok || body.IsDeactivated {
		return nil
	}
	self := c.sync(e, t, body)

	var out []ecs.Entity
	for _, other := range actorEntities(w) {
		if other == e {
			continue
		}
		ot, _ := ecs.Get(w, other, component.TransformComponent.Kind())
		ob, _ := ecs.Get(w, other, component.KinematicBodyComponent.Kind())
		if ob.IsDeactivated {
			continue
		}
		a := c.sync(other, ot, ob)
		if !self.shape.BB().Intersects(a.shape.BB()) {
			continue
		}
		if cp.ShapesCollide(self.shape, a.shape).Count == 0 {
			continue
		}
		if keep != nil && !keep(other) {
			continue
		}
		out = append(out, other)
	}
	return out
}

// ActorsInBox returns the active actors overlapping the box centred on
// (x, y), in slot order.
func (c *CollisionWorld) ActorsInBox(w *ecs.World, x, y, halfW, halfH float64, keep func(ecs.Entity) bool) []ecs.Entity {
	box := cp.NewBox(cp.NewKinematicBody(), halfW*2, halfH*2, 0)
	box.Body().SetPosition(cp.Vector{X: x, Y: y})
	bb := box.CacheBB()

	var out []ecs.Entity
	for _, e := range actorEntities(w) {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		body, _ := ecs.Get(w, e, component.KinematicBodyComponent.Kind())
		if body.IsDeactivated {
			continue
		}
		a := c.sync(e, t, body)
		if !bb.Intersects(a.shape.BB()) || cp.ShapesCollide(box, a.shape).Count == 0 {
			continue
		}
		if keep != nil && !keep(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// EachActor calls fn with the cached bounds of every actor shape.
func (c *CollisionWorld) EachActor(fn func(e ecs.Entity, bb cp.BB, shape component.ColliderShape)) {
	for e, a := range c.actors {
		fn(e, a.shape.BB(), a.collider)
	}
}

func actorEntities(w *ecs.World) []ecs.Entity {
	q := ecs.NewQuery(w)
	ecs.Require(q, component.TransformComponent.Kind())
	ecs.Require(q, component.KinematicBodyComponent.Kind())
	return q.Entities()
}
