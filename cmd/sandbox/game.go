package main

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
	"github.com/milk9111/kickbomb/sim"
	"golang.org/x/image/colornames"
)

const (
	windowScale = 2
	// Trauma decays by this much per second; shake offset is trauma squared.
	traumaDecay = 12
	maxShake    = 8
)

type Game struct {
	sim    *sim.Simulation
	paused bool

	trauma     float64
	explosions int
	damage     int
	lastSound  string
}

func NewGame(s *sim.Simulation) *Game {
	return &Game{sim: s}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.sim.Reset(); err != nil {
			return err
		}
	}
	stepOnce := g.paused && inpututil.IsKeyJustPressed(ebiten.KeyPeriod)
	if g.paused && !stepOnce {
		return nil
	}

	g.readControls(0, ebiten.KeyA, ebiten.KeyD, ebiten.KeyW, ebiten.KeyE, ebiten.KeyF, ebiten.KeyQ)
	g.readControls(1, ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyArrowUp, ebiten.KeyShiftRight, ebiten.KeyEnter, ebiten.KeyControlRight)

	dt := g.sim.TickDuration()
	report := g.sim.Step(dt)
	for _, tr := range report.Trauma {
		g.trauma += float64(tr.Magnitude)
	}
	g.trauma = math.Max(0, g.trauma-traumaDecay*dt.Seconds())
	g.explosions += len(report.Explosions)
	g.damage += len(report.Damage)
	if n := len(report.Audio); n > 0 {
		g.lastSound = report.Audio[n-1].Sound
	}
	return nil
}

func (g *Game) readControls(idx int, left, right, jump, grab, use, throw ebiten.Key) {
	ctl := g.sim.Control(idx)
	if ctl == nil {
		return
	}
	ctl.MoveX = 0
	if ebiten.IsKeyPressed(left) {
		ctl.MoveX--
	}
	if ebiten.IsKeyPressed(right) {
		ctl.MoveX++
	}
	ctl.Jump = ctl.Jump || inpututil.IsKeyJustPressed(jump)
	ctl.Grab = ctl.Grab || inpututil.IsKeyJustPressed(grab)
	ctl.Use = ctl.Use || inpututil.IsKeyJustPressed(use)
	ctl.Throw = ctl.Throw || inpututil.IsKeyJustPressed(throw)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	shake := math.Min(g.trauma*g.trauma/10, maxShake)
	d := &debugDrawer{
		screen: screen,
		camX:   (rand.Float64()*2 - 1) * shake,
		camY:   (rand.Float64()*2 - 1) * shake,
		zoom:   1,
	}
	w := g.sim.World()
	d.drawSpace(g.sim.Collisions().Space())

	ecs.ForEach2(w, component.DamageRegionComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, dr *component.DamageRegion, t *component.Transform) {
		d.fillRect(t.X-dr.Size.X/2, t.Y-dr.Size.Y/2, dr.Size.X, dr.Size.Y, color.NRGBA{R: 255, G: 80, B: 0, A: 70})
	})
	ecs.ForEach2(w, component.DecorationComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, deco *component.Decoration, t *component.Transform) {
		clr := color.Color(colornames.Sandybrown)
		if deco.Tint != nil {
			clr = deco.Tint
		}
		if deco.Size.X <= 0 || deco.Size.Y <= 0 {
			d.cross(t.X, t.Y, 6, clr)
			return
		}
		d.fillRect(t.X-deco.Size.X/2, t.Y-deco.Size.Y/2, deco.Size.X, deco.Size.Y, clr)
	})
	spawners := g.sim.Spawners()
	for _, marker := range spawners.Markers() {
		mt, ok := ecs.Get(w, marker, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		d.cross(mt.X, mt.Y, 3, colornames.Gray)
		for _, inst := range spawners.Instances(marker) {
			if it, ok := ecs.Get(w, inst, component.TransformComponent.Kind()); ok {
				d.line(cp.Vector{X: mt.X, Y: mt.Y}, cp.Vector{X: it.X, Y: it.Y}, colornames.Dimgray)
			}
		}
	}
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.KinematicBodyComponent.Kind(), func(e ecs.Entity, t *component.Transform, body *component.KinematicBody) {
		d.drawBody(t, body, bodyColor(w, e, body))
	})
	ecs.ForEach3(w, component.AnimatedSpriteComponent.Kind(), component.LifetimeComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, anim *component.AnimatedSprite, _ *component.Lifetime, t *component.Transform) {
		if len(anim.Frames) == 0 {
			return
		}
		r := 6 + 4*float64(anim.Index)
		d.circle(t.X, t.Y, r, colornames.Orange)
	})

	now := w.Time()
	hud := fmt.Sprintf("tick %d  t=%.2fs  entities %d\nexplosions %d  hits %d  trauma %.1f\nsound %s",
		now.Tick, now.Elapsed.Seconds(), ecs.EntityCount(w), g.explosions, g.damage, g.trauma, g.lastSound)
	for _, b := range g.sim.Bombs() {
		if b.Lit {
			hud += fmt.Sprintf("\nbomb %d fuse %.2fs", b.Entity, b.Fuse)
		}
	}
	if g.paused {
		hud += "\n[paused: . to step]"
	}
	ebitenutil.DebugPrint(screen, hud)
}

func bodyColor(w *ecs.World, e ecs.Entity, body *component.KinematicBody) color.Color {
	switch {
	case body.IsDeactivated:
		return colornames.Gray
	case ecs.Has(w, e, component.LitKickBombComponent.Kind()):
		return colornames.Red
	case ecs.Has(w, e, component.IdleKickBombComponent.Kind()):
		return colornames.Yellow
	case ecs.Has(w, e, component.InvincibilityComponent.Kind()):
		return colornames.Lightblue
	case ecs.Has(w, e, component.PlayerIdxComponent.Kind()):
		return colornames.Lime
	}
	return colornames.White
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	lvl := g.sim.Level()
	if lvl == nil {
		return outsideWidth / windowScale, outsideHeight / windowScale
	}
	width, height := lvl.PixelSize()
	return int(width), int(height)
}
