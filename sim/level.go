package sim

import (
	"fmt"
	"strings"

	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
	"github.com/milk9111/kickbomb/levels"
)

// LoadLevel replaces the current level: solids go into the collision world,
// element placements become unhydrated markers and player spawns become
// players. Existing players are kept.
func (s *Simulation) LoadLevel(lvl *levels.Level) error {
	if lvl == nil {
		return fmt.Errorf("sim: nil level")
	}
	s.clearNonPlayers()
	s.collisions.Reset()
	s.level = lvl

	for _, r := range lvl.Solids() {
		s.collisions.AddSolid(r.X, r.Y, r.W, r.H)
		e := ecs.CreateEntity(s.world)
		if err := ecs.Add(s.world, e, component.SolidComponent.Kind(), &component.Solid{X: r.X, Y: r.Y, Width: r.W, Height: r.H}); err != nil {
			return err
		}
	}
	if err := s.placeMarkers(); err != nil {
		return err
	}

	spawnIdx := 0
	for _, ent := range lvl.Entities {
		if strings.ToLower(ent.Type) != levels.EntityPlayerSpawn {
			continue
		}
		x, y := float64(ent.X), float64(ent.Y)
		if spawnIdx < len(s.players) {
			s.movePlayer(s.players[spawnIdx], x, y)
		} else if _, err := s.SpawnPlayer(x, y); err != nil {
			return err
		}
		spawnIdx++
	}
	return nil
}

// placeMarkers creates the level bounds and one marker per element
// placement.
func (s *Simulation) placeMarkers() error {
	width, height := s.level.PixelSize()
	bounds := ecs.CreateEntity(s.world)
	if err := ecs.Add(s.world, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  width,
		Height: height,
		Margin: s.spec.LevelMargin,
	}); err != nil {
		return err
	}

	for _, ent := range s.level.Entities {
		path, ok := ent.Element()
		if !ok {
			continue
		}
		if _, err := s.AddMarker(path, float64(ent.X), float64(ent.Y)); err != nil {
			return err
		}
	}
	return nil
}

// AddMarker places an unhydrated element marker. It is hydrated on the next
// Step once its metadata resolves.
func (s *Simulation) AddMarker(path string, x, y float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(s.world)
	t := component.NewTransform(x, y)
	if err := ecs.Add(s.world, e, component.TransformComponent.Kind(), &t); err != nil {
		return 0, err
	}
	if err := ecs.Add(s.world, e, component.ElementHandleComponent.Kind(), &component.ElementHandle{Path: path}); err != nil {
		return 0, err
	}
	return e, nil
}

// SpawnPlayer builds a player from player.yaml at (x, y). Player indices
// follow spawn order.
func (s *Simulation) SpawnPlayer(x, y float64) (ecs.Entity, error) {
	w := s.world
	e := ecs.CreateEntity(w)
	t := component.NewTransform(x, y)
	spec := s.player

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
		return 0, fmt.Errorf("player: transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerIdxComponent.Kind(), &component.PlayerIdx{Index: len(s.players)}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.PlayerControlComponent.Kind(), &component.PlayerControl{}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.PlayerMovementComponent.Kind(), &component.PlayerMovement{
		Speed:     spec.Movement.Speed,
		JumpSpeed: spec.Movement.JumpSpeed,
	}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.KinematicBodyComponent.Kind(), &component.KinematicBody{
		Shape:       component.RectShape(spec.Body.Width, spec.Body.Height),
		Gravity:     s.cfg.Gravity,
		HasMass:     spec.Body.HasMass,
		HasFriction: spec.Body.HasFriction,
	}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.AtlasSpriteComponent.Kind(), &component.AtlasSprite{Atlas: spec.Sprite.Atlas}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.PlayerLayersComponent.Kind(), &component.PlayerLayers{FinAnim: spec.Sprite.FinAnim}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.InventoryComponent.Kind(), &component.Inventory{}); err != nil {
		return 0, err
	}

	s.players = append(s.players, e)
	return e, nil
}

func (s *Simulation) movePlayer(e ecs.Entity, x, y float64) {
	if t, ok := ecs.Get(s.world, e, component.TransformComponent.Kind()); ok {
		t.X, t.Y = x, y
	}
	if body, ok := ecs.Get(s.world, e, component.KinematicBodyComponent.Kind()); ok {
		body.Velocity.X, body.Velocity.Y = 0, 0
		body.IsDeactivated = false
	}
}

// Players returns the player entities in index order.
func (s *Simulation) Players() []ecs.Entity {
	return append([]ecs.Entity(nil), s.players...)
}

// Player returns the entity of player idx.
func (s *Simulation) Player(idx int) (ecs.Entity, bool) {
	if idx < 0 || idx >= len(s.players) {
		return 0, false
	}
	return s.players[idx], true
}

// Control returns the intent component of player idx, or nil.
func (s *Simulation) Control(idx int) *component.PlayerControl {
	e, ok := s.Player(idx)
	if !ok {
		return nil
	}
	ctl, _ := ecs.Get(s.world, e, component.PlayerControlComponent.Kind())
	return ctl
}

// Reset destroys every non-player entity and places the level markers again,
// so every element respawns fresh on the next Step. Players go back to their
// spawns with empty hands.
func (s *Simulation) Reset() error {
	s.clearNonPlayers()
	if s.level == nil {
		return nil
	}
	for _, e := range s.players {
		if inv, ok := ecs.Get(s.world, e, component.InventoryComponent.Kind()); ok {
			inv.Held = 0
		}
		if layers, ok := ecs.Get(s.world, e, component.PlayerLayersComponent.Kind()); ok {
			layers.FinAnim = s.player.Sprite.FinAnim
		}
		ecs.Remove(s.world, e, component.InvincibilityComponent.Kind())
	}
	spawnIdx := 0
	for _, ent := range s.level.Entities {
		if strings.ToLower(ent.Type) != levels.EntityPlayerSpawn || spawnIdx >= len(s.players) {
			continue
		}
		s.movePlayer(s.players[spawnIdx], float64(ent.X), float64(ent.Y))
		spawnIdx++
	}
	for _, r := range s.level.Solids() {
		e := ecs.CreateEntity(s.world)
		_ = ecs.Add(s.world, e, component.SolidComponent.Kind(), &component.Solid{X: r.X, Y: r.Y, Width: r.W, Height: r.H})
	}
	return s.placeMarkers()
}

func (s *Simulation) clearNonPlayers() {
	for _, e := range ecs.Entities(s.world) {
		if ecs.Has(s.world, e, component.PlayerIdxComponent.Kind()) {
			continue
		}
		ecs.DestroyEntity(s.world, e)
	}
	s.spawners.Clear()
}
