package system

import (
	"errors"
	"time"

	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
	"github.com/milk9111/kickbomb/prefabs"
)

// ErrMetadataMissing is wrapped by the panic raised when a hydrated instance
// lacks the metadata resolved for it at hydration.
var ErrMetadataMissing = errors.New("system: element metadata missing for hydrated instance")

// Config is the tuning shared by the simulation systems.
type Config struct {
	Gravity             float64
	GroundFriction      float64
	RestSpeed           float64
	GroundSnap          float64
	MaxFallSpeed        float64
	ExplosionTrauma     float32
	ExplosionDepth      float64
	AttachmentDepth     float64
	PlayerInvincibility time.Duration
}

// DefaultConfig matches the shipped sim.yaml.
func DefaultConfig() Config {
	return Config{
		Gravity:             900,
		GroundFriction:      0.85,
		RestSpeed:           4,
		GroundSnap:          1,
		MaxFallSpeed:        900,
		ExplosionTrauma:     7.5,
		ExplosionDepth:      -10,
		AttachmentDepth:     1,
		PlayerInvincibility: 1500 * time.Millisecond,
	}
}

func ConfigFromSpec(spec *prefabs.SimSpec) Config {
	if spec == nil {
		return DefaultConfig()
	}
	return Config{
		Gravity:             spec.Gravity,
		GroundFriction:      spec.GroundFriction,
		RestSpeed:           spec.RestSpeed,
		GroundSnap:          spec.GroundSnap,
		MaxFallSpeed:        spec.MaxFallSpeed,
		ExplosionTrauma:     spec.ExplosionTrauma,
		ExplosionDepth:      spec.ExplosionDepth,
		AttachmentDepth:     spec.AttachmentDepth,
		PlayerInvincibility: spec.PlayerInvincibility.Duration,
	}
}

// ElementSource resolves element metadata by path. *prefabs.Store satisfies
// it.
type ElementSource interface {
	KickBomb(path string) (*prefabs.KickBombMeta, bool)
	Decoration(path string) (*prefabs.DecorationMeta, bool)
}

type AudioSink interface {
	Play(sound string, volume float64)
}

type TraumaSink interface {
	Send(magnitude float32)
}

// Events collects everything the systems report during a tick.
type Events struct {
	Audio      ecs.EventQueue[component.AudioEvent]
	Trauma     ecs.EventQueue[component.CameraTrauma]
	Damage     ecs.EventQueue[component.PlayerDamaged]
	Explosions ecs.EventQueue[component.Explosion]
}

func (e *Events) Play(sound string, volume float64) {
	if e == nil {
		return
	}
	e.Audio.Push(component.AudioEvent{Sound: sound, Volume: volume})
}

func (e *Events) Send(magnitude float32) {
	if e == nil {
		return
	}
	e.Trauma.Push(component.CameraTrauma{Magnitude: magnitude})
}

func deltaSeconds(w *ecs.World) float64 {
	return w.Time().Delta.Seconds()
}
