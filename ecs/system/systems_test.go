package system

import (
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
)

func addBody(w *ecs.World, x, y float64, body component.KinematicBody) ecs.Entity {
	e := ecs.CreateEntity(w)
	t := component.NewTransform(x, y)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &t)
	_ = ecs.Add(w, e, component.KinematicBodyComponent.Kind(), &body)
	return e
}

func TestPhysicsLandsAndSettles(t *testing.T) {
	cfg := DefaultConfig()
	collisions := NewCollisionWorld()
	collisions.AddSolid(0, 200, 400, 32)
	physics := NewPhysicsSystem(cfg, collisions)

	w := ecs.NewWorld()
	e := addBody(w, 100, 100, component.KinematicBody{
		Shape:       component.CircleShape(26),
		Gravity:     cfg.Gravity,
		HasMass:     true,
		HasFriction: true,
		CanRotate:   true,
		Bounciness:  0.5,
		Velocity:    cp.Vector{X: 120},
	})

	for i := 0; i < 240; i++ {
		runTick(w, physics)
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	body, _ := ecs.Get(w, e, component.KinematicBodyComponent.Kind())
	if math.Abs(tr.Y-187) > 1e-6 {
		t.Fatalf("expected to rest on the floor at y=187, got %v", tr.Y)
	}
	if !body.IsOnGround {
		t.Fatalf("body not grounded")
	}
	if body.Velocity != (cp.Vector{}) || body.AngularVelocity != 0 {
		t.Fatalf("body still moving: %+v", body)
	}
	if body.IsDeactivated {
		t.Fatalf("resting body must stay active so it can be kicked")
	}
}

func TestPhysicsRestingBombTakesZeroVelocityKick(t *testing.T) {
	cfg := DefaultConfig()
	collisions := NewCollisionWorld()
	collisions.AddSolid(0, 200, 400, 32)
	physics := NewPhysicsSystem(cfg, collisions)
	lit := NewKickBombLitSystem(cfg, collisions, &Events{})

	w := ecs.NewWorld()
	bomb, _ := addLitBomb(w, 100, 150, 0, 100*time.Second, cp.Vector{X: 120})
	body, _ := ecs.Get(w, bomb, component.KinematicBodyComponent.Kind())
	body.Gravity = cfg.Gravity
	body.HasFriction = true
	body.Bounciness = 0.5

	for i := 0; i < 240; i++ {
		runTick(w, physics)
	}
	if body.Velocity.X != 0 {
		t.Fatalf("friction left residual velocity %v", body.Velocity.X)
	}

	bt, _ := ecs.Get(w, bomb, component.TransformComponent.Kind())
	addPlayer(w, 0, bt.X-15, bt.Y, true)
	runTick(w, lit)

	body, _ = ecs.Get(w, bomb, component.KinematicBodyComponent.Kind())
	if body.Velocity != (cp.Vector{X: -300, Y: -100}) {
		t.Fatalf("expected mirrored kick from rest, got %+v", body.Velocity)
	}
}

func TestPhysicsWallBounce(t *testing.T) {
	cfg := DefaultConfig()
	collisions := NewCollisionWorld()
	collisions.AddSolid(200, 0, 32, 400)
	physics := NewPhysicsSystem(cfg, collisions)

	w := ecs.NewWorld()
	e := addBody(w, 185, 100, component.KinematicBody{
		Shape:      component.CircleShape(20),
		Bounciness: 0.5,
		Velocity:   cp.Vector{X: 600},
	})
	runTick(w, physics)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	body, _ := ecs.Get(w, e, component.KinematicBodyComponent.Kind())
	if tr.X != 190 {
		t.Fatalf("expected to be pushed out to x=190, got %v", tr.X)
	}
	if body.Velocity.X != -300 {
		t.Fatalf("expected reflected velocity -300, got %v", body.Velocity.X)
	}
}

func TestPhysicsSkipsDeactivatedBodies(t *testing.T) {
	cfg := DefaultConfig()
	physics := NewPhysicsSystem(cfg, NewCollisionWorld())
	w := ecs.NewWorld()
	e := addBody(w, 10, 10, component.KinematicBody{
		Shape:         component.CircleShape(10),
		Gravity:       cfg.Gravity,
		HasMass:       true,
		IsDeactivated: true,
		Velocity:      cp.Vector{X: 50},
	})
	runTick(w, physics)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 10 || tr.Y != 10 {
		t.Fatalf("deactivated body moved to %v,%v", tr.X, tr.Y)
	}
}

func TestItemGrabUseThrow(t *testing.T) {
	w := ecs.NewWorld()
	store := testStore()
	collisions := NewCollisionWorld()
	items := NewItemSystem(collisions)
	events := &Events{}
	idle := NewKickBombIdleSystem(events)

	addMarker(w, bombPath, 100, 100)
	NewKickBombHydrateSystem(DefaultConfig(), store, NewSpawnerManager()).Update(w)
	bomb, _ := ecs.First(w, component.IdleKickBombComponent.Kind())
	player := addPlayer(w, 0, 95, 100, true)
	ctl, _ := ecs.Get(w, player, component.PlayerControlComponent.Kind())
	inv, _ := ecs.Get(w, player, component.InventoryComponent.Kind())

	ctl.Grab = true
	runTick(w, items, idle)
	if ecs.Entity(inv.Held) != bomb {
		t.Fatalf("bomb not grabbed")
	}
	body, _ := ecs.Get(w, bomb, component.KinematicBodyComponent.Kind())
	if !body.IsDeactivated {
		t.Fatalf("held body still active")
	}
	att, ok := ecs.Get(w, bomb, component.PlayerBodyAttachmentComponent.Kind())
	if !ok || ecs.Entity(att.Player) != player {
		t.Fatalf("attachment missing")
	}
	if ctl.Grab {
		t.Fatalf("grab trigger not cleared")
	}

	ctl.Use = true
	runTick(w, items, idle)
	if !ecs.Has(w, bomb, component.LitKickBombComponent.Kind()) {
		t.Fatalf("using the held bomb did not light it")
	}

	ctl.Throw = true
	runTick(w, items)
	if inv.Held != 0 {
		t.Fatalf("bomb still held after throw")
	}
	if body.IsDeactivated {
		t.Fatalf("thrown body still deactivated")
	}
	// Facing left mirrors the throw.
	if body.Velocity != (cp.Vector{X: -400, Y: -150}) || body.AngularVelocity != -6 {
		t.Fatalf("unexpected throw velocity %+v spin %v", body.Velocity, body.AngularVelocity)
	}
	if ecs.Has(w, bomb, component.PlayerBodyAttachmentComponent.Kind()) {
		t.Fatalf("attachment kept after throw")
	}
	dropped, ok := ecs.Get(w, bomb, component.ItemDroppedComponent.Kind())
	if !ok || ecs.Entity(dropped.Player) != player {
		t.Fatalf("dropped marker missing")
	}

	runTick(w, items)
	if ecs.Has(w, bomb, component.ItemDroppedComponent.Kind()) {
		t.Fatalf("dropped marker outlived its tick")
	}
}

func TestItemHolderForgetsDestroyedItem(t *testing.T) {
	w := ecs.NewWorld()
	items := NewItemSystem(NewCollisionWorld())
	player := addPlayer(w, 0, 0, 0, false)
	gone := ecs.CreateEntity(w)
	ecs.DestroyEntity(w, gone)
	inv, _ := ecs.Get(w, player, component.InventoryComponent.Kind())
	inv.Held = uint64(gone)
	layers, _ := ecs.Get(w, player, component.PlayerLayersComponent.Kind())
	layers.FinAnim = "grab_2"

	runTick(w, items)
	if inv.Held != 0 {
		t.Fatalf("inventory still references a dead item")
	}
	if layers.FinAnim != "" {
		t.Fatalf("holding animation %q kept after the item died", layers.FinAnim)
	}
	if _, ok := FindHolder(w, gone); ok {
		t.Fatalf("dead item still has a holder")
	}
}

func TestAttachmentFollowsHolder(t *testing.T) {
	tests := []struct {
		name       string
		facingLeft bool
		wantX      float64
	}{
		{"facing_right", false, 112},
		{"facing_left", true, 88},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			player := addPlayer(w, 0, 100, 50, tc.facingLeft)
			item := addBody(w, 0, 0, component.KinematicBody{Shape: component.CircleShape(10), IsDeactivated: true})
			_ = ecs.Add(w, item, component.AtlasSpriteComponent.Kind(), &component.AtlasSprite{})
			_ = ecs.Add(w, item, component.PlayerBodyAttachmentComponent.Kind(), &component.PlayerBodyAttachment{
				Player: uint64(player),
				Offset: cp.Vector{X: 12, Y: -4},
				Z:      1,
			})

			runTick(w, NewAttachmentSystem())

			tr, _ := ecs.Get(w, item, component.TransformComponent.Kind())
			if tr.X != tc.wantX || tr.Y != 46 || tr.Z != 1 {
				t.Fatalf("unexpected transform %+v", tr)
			}
			sprite, _ := ecs.Get(w, item, component.AtlasSpriteComponent.Kind())
			if sprite.FlipX != tc.facingLeft {
				t.Fatalf("sprite flip %v, want %v", sprite.FlipX, tc.facingLeft)
			}
		})
	}
}

func TestAttachmentReleasedWhenHolderDies(t *testing.T) {
	w := ecs.NewWorld()
	player := addPlayer(w, 0, 100, 50, false)
	item := addBody(w, 0, 0, component.KinematicBody{Shape: component.CircleShape(10), IsDeactivated: true})
	_ = ecs.Add(w, item, component.PlayerBodyAttachmentComponent.Kind(), &component.PlayerBodyAttachment{Player: uint64(player)})
	ecs.DestroyEntity(w, player)

	runTick(w, NewAttachmentSystem())

	body, _ := ecs.Get(w, item, component.KinematicBodyComponent.Kind())
	if body.IsDeactivated || ecs.Has(w, item, component.PlayerBodyAttachmentComponent.Kind()) {
		t.Fatalf("orphaned item not released")
	}
}

func TestDehydrateRespawnsFromMarker(t *testing.T) {
	w := ecs.NewWorld()
	store := testStore()
	spawners := NewSpawnerManager()
	hydrate := NewKickBombHydrateSystem(DefaultConfig(), store, spawners)
	dehydrate := NewDehydrateSystem()

	bounds := ecs.CreateEntity(w)
	_ = ecs.Add(w, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: 640, Height: 384, Margin: 64})
	marker := addMarker(w, bombPath, 100, 100)

	runTick(w, hydrate, dehydrate)
	first := spawners.Instances(marker)[0]

	// Still inside the margin.
	tr, _ := ecs.Get(w, first, component.TransformComponent.Kind())
	tr.Y = 384 + 60
	runTick(w, dehydrate)
	if !ecs.IsAlive(w, first) {
		t.Fatalf("instance inside the margin was removed")
	}

	tr.Y = 384 + 65
	runTick(w, dehydrate)
	if ecs.IsAlive(w, first) {
		t.Fatalf("out of bounds instance survived")
	}
	if ecs.Has(w, marker, component.MapElementHydratedComponent.Kind()) {
		t.Fatalf("marker still hydrated")
	}

	runTick(w, hydrate)
	respawned := spawners.Instances(marker)
	if len(respawned) != 1 || respawned[0] == first {
		t.Fatalf("expected a fresh instance, got %v", respawned)
	}
	rt, _ := ecs.Get(w, respawned[0], component.TransformComponent.Kind())
	if rt.X != 100 || rt.Y != 100 {
		t.Fatalf("respawned at %v,%v", rt.X, rt.Y)
	}
	if !ecs.Has(w, respawned[0], component.IdleKickBombComponent.Kind()) {
		t.Fatalf("respawned bomb is not idle")
	}
}

func TestSpawnerManagerPrune(t *testing.T) {
	w := ecs.NewWorld()
	m := NewSpawnerManager()
	marker := ecs.CreateEntity(w)
	a := ecs.CreateEntity(w)
	b := ecs.CreateEntity(w)
	m.CreateSpawner(marker, []ecs.Entity{a, b})

	ecs.DestroyEntity(w, a)
	m.Prune(w)
	if got := m.Instances(marker); len(got) != 1 || got[0] != b {
		t.Fatalf("unexpected instances %v", got)
	}
	if _, ok := m.Spawner(a); ok {
		t.Fatalf("dead instance still mapped")
	}
	if s, ok := m.Spawner(b); !ok || s != marker {
		t.Fatalf("live instance lost its marker")
	}

	ecs.DestroyEntity(w, b)
	m.Prune(w)
	if len(m.Markers()) != 0 {
		t.Fatalf("marker with no instances kept: %v", m.Markers())
	}
}

func TestLifetimeDespawnsAfterTimer(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.LifetimeComponent.Kind(), &component.Lifetime{Timer: component.NewTimer(90*time.Millisecond, component.TimerOnce)})
	lifetime := NewLifetimeSystem()

	for i := 0; i < 5; i++ {
		runTick(w, lifetime)
	}
	if !ecs.IsAlive(w, e) {
		t.Fatalf("despawned early")
	}
	runTick(w, lifetime)
	if ecs.IsAlive(w, e) {
		t.Fatalf("still alive after its lifetime")
	}
}

func TestAnimationStep(t *testing.T) {
	tests := []struct {
		name      string
		repeat    bool
		ticks     int
		wantIndex int
		wantDone  bool
	}{
		{"mid_sequence", false, 20, 1, false},
		{"once_clamps_on_last", false, 100, 2, true},
		{"repeat_wraps", true, 46, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			anim := &component.AnimatedSprite{}
			anim.Play([]int{7, 8, 9}, 4, tc.repeat)
			for i := 0; i < tc.ticks; i++ {
				step(anim, 250*time.Millisecond/15)
			}
			if anim.Index != tc.wantIndex || anim.Finished != tc.wantDone {
				t.Fatalf("index=%d finished=%v, want %d %v", anim.Index, anim.Finished, tc.wantIndex, tc.wantDone)
			}
		})
	}
}

func TestDamageHitsOncePerRegion(t *testing.T) {
	w := ecs.NewWorld()
	events := &Events{}
	cfg := DefaultConfig()
	damage := NewDamageSystem(cfg, NewCollisionWorld(), events)

	near := addPlayer(w, 0, 120, 100, false)
	addPlayer(w, 1, 400, 100, false)
	shielded := addPlayer(w, 2, 80, 100, false)
	_ = ecs.Add(w, shielded, component.InvincibilityComponent.Kind(), &component.Invincibility{Timer: component.NewTimer(time.Second, component.TimerOnce)})

	region := ecs.CreateEntity(w)
	rt := component.NewTransform(100, 100)
	_ = ecs.Add(w, region, component.TransformComponent.Kind(), &rt)
	_ = ecs.Add(w, region, component.DamageRegionComponent.Kind(), &component.DamageRegion{Size: cp.Vector{X: 96, Y: 96}})

	runTick(w, damage)
	got := events.Damage.Drain()
	if len(got) != 1 || ecs.Entity(got[0].Player) != near || ecs.Entity(got[0].Region) != region {
		t.Fatalf("unexpected damage events %v", got)
	}
	inv, ok := ecs.Get(w, near, component.InvincibilityComponent.Kind())
	if !ok || inv.Timer.Duration() != cfg.PlayerInvincibility {
		t.Fatalf("damaged player not made invincible")
	}

	ecs.Remove(w, near, component.InvincibilityComponent.Kind())
	runTick(w, damage)
	if events.Damage.Len() != 0 {
		t.Fatalf("region hit the same player twice")
	}
}

func TestInvincibilityExpires(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.InvincibilityComponent.Kind(), &component.Invincibility{Timer: component.NewTimer(40*time.Millisecond, component.TimerOnce)})
	sys := NewInvincibilitySystem()

	runTick(w, sys)
	runTick(w, sys)
	if !ecs.Has(w, e, component.InvincibilityComponent.Kind()) {
		t.Fatalf("expired early")
	}
	runTick(w, sys)
	if ecs.Has(w, e, component.InvincibilityComponent.Kind()) {
		t.Fatalf("invincibility not removed")
	}
}

func TestPlayerControlMovesAndFaces(t *testing.T) {
	w := ecs.NewWorld()
	player := addPlayer(w, 0, 0, 0, false)
	ctl, _ := ecs.Get(w, player, component.PlayerControlComponent.Kind())
	body, _ := ecs.Get(w, player, component.KinematicBodyComponent.Kind())
	sprite, _ := ecs.Get(w, player, component.AtlasSpriteComponent.Kind())
	sys := NewPlayerControlSystem()

	ctl.MoveX = -3
	runTick(w, sys)
	if body.Velocity.X != -100 || !sprite.FlipX {
		t.Fatalf("expected clamped leftward move, got vx=%v flip=%v", body.Velocity.X, sprite.FlipX)
	}

	ctl.MoveX = 0
	ctl.Jump = true
	runTick(w, sys)
	if body.Velocity.Y != 0 || ctl.Jump {
		t.Fatalf("airborne jump applied or trigger kept")
	}
	if !sprite.FlipX {
		t.Fatalf("facing reset while idle")
	}

	body.IsOnGround = true
	ctl.Jump = true
	runTick(w, sys)
	if body.Velocity.Y != -300 {
		t.Fatalf("grounded jump not applied: %v", body.Velocity.Y)
	}
}
