package sim

import (
	"fmt"
	"log"
	"time"

	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
	"github.com/milk9111/kickbomb/ecs/system"
	"github.com/milk9111/kickbomb/levels"
	"github.com/milk9111/kickbomb/prefabs"
	"github.com/milk9111/kickbomb/replay"
)

// Config wires a Simulation. Nil fields fall back to the embedded prefabs.
type Config struct {
	Elements system.ElementSource
	Sim      *prefabs.SimSpec
	Player   *prefabs.PlayerSpec
	Recorder *replay.Recorder
	Debug    bool
}

// TickReport is what one Step produced once the command bus was flushed.
type TickReport struct {
	Tick       uint64
	Elapsed    time.Duration
	Commands   int
	Audio      []component.AudioEvent
	Trauma     []component.CameraTrauma
	Damage     []component.PlayerDamaged
	Explosions []component.Explosion
}

// Simulation owns the world and runs the systems in a fixed order.
type Simulation struct {
	world      *ecs.World
	scheduler  *ecs.Scheduler
	collisions *system.CollisionWorld
	spawners   *system.SpawnerManager
	events     *system.Events
	elements   system.ElementSource

	spec     *prefabs.SimSpec
	player   *prefabs.PlayerSpec
	cfg      system.Config
	recorder *replay.Recorder

	level   *levels.Level
	players []ecs.Entity
}

func New(cfg Config) (*Simulation, error) {
	elements := cfg.Elements
	if elements == nil {
		store, err := prefabs.NewStore()
		if err != nil {
			return nil, fmt.Errorf("sim: element store: %w", err)
		}
		if err := store.LoadAll(); err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		elements = store
	}
	spec := cfg.Sim
	if spec == nil {
		loaded, err := prefabs.LoadSimSpec()
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		spec = loaded
	}
	player := cfg.Player
	if player == nil {
		loaded, err := prefabs.LoadPlayerSpec()
		if err != nil {
			return nil, fmt.Errorf("sim: player spec: %w", err)
		}
		player = loaded
	}

	s := &Simulation{
		world:      ecs.NewWorld(),
		scheduler:  ecs.NewScheduler(),
		collisions: system.NewCollisionWorld(),
		spawners:   system.NewSpawnerManager(),
		events:     &system.Events{},
		elements:   elements,
		spec:       spec,
		player:     player,
		cfg:        system.ConfigFromSpec(spec),
		recorder:   cfg.Recorder,
	}

	hydrate := system.NewKickBombHydrateSystem(s.cfg, elements, s.spawners)
	hydrate.Debug = cfg.Debug
	s.scheduler.Add(ecs.PreUpdate, hydrate)
	s.scheduler.Add(ecs.PreUpdate, system.NewDecorationHydrateSystem(elements, s.spawners))

	s.scheduler.Add(ecs.Update, system.NewPlayerControlSystem())
	s.scheduler.Add(ecs.Update, system.NewItemSystem(s.collisions))
	s.scheduler.Add(ecs.Update, system.NewPhysicsSystem(s.cfg, s.collisions))
	s.scheduler.Add(ecs.Update, system.NewDehydrateSystem())
	s.scheduler.Add(ecs.Update, system.NewInvincibilitySystem())

	s.scheduler.Add(ecs.PostUpdate, system.NewKickBombIdleSystem(s.events))
	s.scheduler.Add(ecs.PostUpdate, system.NewKickBombLitSystem(s.cfg, s.collisions, s.events))
	s.scheduler.Add(ecs.PostUpdate, system.NewAttachmentSystem())
	s.scheduler.Add(ecs.PostUpdate, system.NewDamageSystem(s.cfg, s.collisions, s.events))
	s.scheduler.Add(ecs.PostUpdate, system.NewLifetimeSystem())
	s.scheduler.Add(ecs.PostUpdate, system.NewAnimationSystem())

	return s, nil
}

func (s *Simulation) World() *ecs.World                     { return s.world }
func (s *Simulation) Collisions() *system.CollisionWorld    { return s.collisions }
func (s *Simulation) Spawners() *system.SpawnerManager      { return s.spawners }
func (s *Simulation) Level() *levels.Level                  { return s.level }
func (s *Simulation) SystemConfig() system.Config           { return s.cfg }
func (s *Simulation) Scheduler() *ecs.Scheduler             { return s.scheduler }
func (s *Simulation) Elements() system.ElementSource        { return s.elements }
func (s *Simulation) SetRecorder(recorder *replay.Recorder) { s.recorder = recorder }

// TickDuration is the fixed step configured in sim.yaml.
func (s *Simulation) TickDuration() time.Duration {
	return s.spec.TickDuration()
}

// Step runs one tick of dt: every stage in order, one command flush, then
// the tick's events are handed off in the report.
func (s *Simulation) Step(dt time.Duration) TickReport {
	applied := s.scheduler.Run(s.world, dt)
	now := s.world.Time()

	report := TickReport{
		Tick:       now.Tick,
		Elapsed:    now.Elapsed,
		Commands:   applied,
		Audio:      s.events.Audio.Drain(),
		Trauma:     s.events.Trauma.Drain(),
		Damage:     s.events.Damage.Drain(),
		Explosions: s.events.Explosions.Drain(),
	}

	if s.recorder != nil {
		if err := s.recorder.Record(s.frame(report)); err != nil {
			log.Printf("sim: record tick %d: %v", report.Tick, err)
		}
	}
	return report
}

// Run steps n fixed ticks and returns their reports.
func (s *Simulation) Run(n int) []TickReport {
	reports := make([]TickReport, 0, n)
	for i := 0; i < n; i++ {
		reports = append(reports, s.Step(s.TickDuration()))
	}
	return reports
}

func (s *Simulation) frame(report TickReport) replay.Frame {
	return replay.Frame{
		Tick:       report.Tick,
		Elapsed:    report.Elapsed.Seconds(),
		Entities:   ecs.EntityCount(s.world),
		Commands:   report.Commands,
		Audio:      report.Audio,
		Trauma:     report.Trauma,
		Damage:     report.Damage,
		Explosions: report.Explosions,
		Bombs:      s.Bombs(),
	}
}

// Bombs snapshots every kick bomb in slot order.
func (s *Simulation) Bombs() []replay.BombState {
	q := ecs.NewQuery(s.world)
	ecs.Require(q, component.ElementHandleComponent.Kind())
	ecs.Require(q, component.KinematicBodyComponent.Kind())
	ecs.Require(q, component.TransformComponent.Kind())

	var out []replay.BombState
	for _, e := range q.Entities() {
		idle := ecs.Has(s.world, e, component.IdleKickBombComponent.Kind())
		lit, isLit := ecs.Get(s.world, e, component.LitKickBombComponent.Kind())
		if !idle && !isLit {
			continue
		}
		t, _ := ecs.Get(s.world, e, component.TransformComponent.Kind())
		body, _ := ecs.Get(s.world, e, component.KinematicBodyComponent.Kind())
		state := replay.BombState{
			Entity: uint64(e),
			X:      t.X,
			Y:      t.Y,
			VX:     body.Velocity.X,
			VY:     body.Velocity.Y,
			Lit:    isLit,
			Held:   system.IsHeld(s.world, e),
		}
		if isLit {
			state.Fuse = lit.FuseTime.Remaining().Seconds()
		}
		if marker, ok := s.spawners.Spawner(e); ok {
			state.Spawner = uint64(marker)
		}
		out = append(out, state)
	}
	return out
}
