package system

import (
	"image/color"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
	"github.com/milk9111/kickbomb/prefabs"
)

const (
	bombPath  = "elements/test_bomb.yaml"
	decorPath = "elements/test_decor.yaml"
	tick      = time.Second / 60
)

func testBombMeta() *prefabs.KickBombMeta {
	return &prefabs.KickBombMeta{
		Atlas:                "bomb.atlas",
		ExplosionAtlas:       "explosion.atlas",
		BodyDiameter:         26,
		CanRotate:            true,
		Bounciness:           0.5,
		FinAnim:              "grab_2",
		GrabOffset:           cp.Vector{X: 12, Y: -4},
		ThrowVelocity:        cp.Vector{X: 400, Y: -150},
		AngularVelocity:      6,
		KickVelocity:         cp.Vector{X: 300, Y: -100},
		ArmDelay:             prefabs.Seconds(0.5),
		FuseTime:             prefabs.Seconds(3),
		FuseSound:            "fuse.ogg",
		FuseSoundVolume:      0.1,
		DamageRegionSize:     cp.Vector{X: 96, Y: 96},
		DamageRegionLifetime: prefabs.Seconds(0.5),
		ExplosionLifetime:    prefabs.Seconds(0.75),
		ExplosionFrames:      12,
		ExplosionFPS:         16,
		ExplosionSound:       "explosion.ogg",
		ExplosionVolume:      0.25,
	}
}

var decorTint = color.NRGBA{R: 120, G: 200, B: 90, A: 255}

func testStore() *prefabs.Store {
	store := &prefabs.Store{}
	store.Put(bombPath, &prefabs.ElementSpec{Name: "Bomb", Builtin: testBombMeta()})
	store.Put(decorPath, &prefabs.ElementSpec{Name: "Decor", Builtin: &prefabs.DecorationMeta{
		Atlas:  "decor.atlas",
		Size:   cp.Vector{X: 16, Y: 16},
		Frames: []int{0, 1},
		FPS:    2,
		Tint:   &prefabs.YAMLColor{Color: decorTint},
	}})
	return store
}

func addMarker(w *ecs.World, path string, x, y float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	t := component.NewTransform(x, y)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &t)
	_ = ecs.Add(w, e, component.ElementHandleComponent.Kind(), &component.ElementHandle{Path: path})
	return e
}

// addLitBomb creates a hydrated marker and a lit bomb spawned from it.
func addLitBomb(w *ecs.World, x, y float64, arm, fuse time.Duration, vel cp.Vector) (bomb, marker ecs.Entity) {
	marker = addMarker(w, bombPath, x, y)
	_ = ecs.Add(w, marker, component.MapElementHydratedComponent.Kind(), &component.MapElementHydrated{})

	bomb = ecs.CreateEntity(w)
	t := component.NewTransform(x, y)
	_ = ecs.Add(w, bomb, component.TransformComponent.Kind(), &t)
	_ = ecs.Add(w, bomb, component.ElementHandleComponent.Kind(), &component.ElementHandle{Path: bombPath})
	_ = ecs.Add(w, bomb, component.MapElementHydratedComponent.Kind(), &component.MapElementHydrated{})
	_ = ecs.Add(w, bomb, component.DehydrateOutOfBoundsComponent.Kind(), &component.DehydrateOutOfBounds{Spawner: uint64(marker)})
	_ = ecs.Add(w, bomb, component.ItemComponent.Kind(), &component.Item{})
	_ = ecs.Add(w, bomb, component.KinematicBodyComponent.Kind(), &component.KinematicBody{
		Shape:    component.CircleShape(26),
		Velocity: vel,
		HasMass:  true,
	})
	_ = ecs.Add(w, bomb, component.KickBombSettingsComponent.Kind(), kickBombSettings(testBombMeta()))
	_ = ecs.Add(w, bomb, component.LitKickBombComponent.Kind(), &component.LitKickBomb{
		ArmDelay: component.NewTimer(arm, component.TimerOnce),
		FuseTime: component.NewTimer(fuse, component.TimerOnce),
	})
	return bomb, marker
}

func addPlayer(w *ecs.World, idx int, x, y float64, facingLeft bool) ecs.Entity {
	e := ecs.CreateEntity(w)
	t := component.NewTransform(x, y)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &t)
	_ = ecs.Add(w, e, component.PlayerIdxComponent.Kind(), &component.PlayerIdx{Index: idx})
	_ = ecs.Add(w, e, component.KinematicBodyComponent.Kind(), &component.KinematicBody{Shape: component.RectShape(24, 32)})
	_ = ecs.Add(w, e, component.AtlasSpriteComponent.Kind(), &component.AtlasSprite{FlipX: facingLeft})
	_ = ecs.Add(w, e, component.InventoryComponent.Kind(), &component.Inventory{})
	_ = ecs.Add(w, e, component.PlayerLayersComponent.Kind(), &component.PlayerLayers{})
	_ = ecs.Add(w, e, component.PlayerControlComponent.Kind(), &component.PlayerControl{})
	_ = ecs.Add(w, e, component.PlayerMovementComponent.Kind(), &component.PlayerMovement{Speed: 100, JumpSpeed: 300})
	return e
}

// runTick advances the clock, runs systems in order and flushes.
func runTick(w *ecs.World, systems ...ecs.System) {
	w.Advance(tick)
	for _, s := range systems {
		s.Update(w)
	}
	w.Commands().Flush()
}

