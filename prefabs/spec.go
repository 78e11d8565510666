package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ElementKind names the builtin behavior of a map element.
type ElementKind string

const (
	ElementKickBomb   ElementKind = "kick_bomb"
	ElementDecoration ElementKind = "decoration"
)

// BuiltinElement is the kind-specific part of element metadata. Exactly one
// concrete type exists per ElementKind.
type BuiltinElement interface {
	Kind() ElementKind
}

// ElementSpec is one map element metadata file.
type ElementSpec struct {
	Name     string         `yaml:"name"`
	Category string         `yaml:"category"`
	Builtin  BuiltinElement `yaml:"-"`
}

func (e *ElementSpec) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name     string    `yaml:"name"`
		Category string    `yaml:"category"`
		Builtin  yaml.Node `yaml:"builtin"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	e.Name = raw.Name
	e.Category = raw.Category
	e.Builtin = nil
	if raw.Builtin.Kind == 0 {
		return nil
	}

	var tag struct {
		Kind ElementKind `yaml:"kind"`
	}
	if err := raw.Builtin.Decode(&tag); err != nil {
		return err
	}
	switch tag.Kind {
	case ElementKickBomb:
		meta := &KickBombMeta{}
		if err := raw.Builtin.Decode(meta); err != nil {
			return fmt.Errorf("kick_bomb: %w", err)
		}
		e.Builtin = meta
	case ElementDecoration:
		meta := &DecorationMeta{}
		if err := raw.Builtin.Decode(meta); err != nil {
			return fmt.Errorf("decoration: %w", err)
		}
		e.Builtin = meta
	default:
		return fmt.Errorf("unknown builtin element kind %q", tag.Kind)
	}
	return nil
}

// KickBombMeta configures a kick bomb. Velocities use y-down screen space.
type KickBombMeta struct {
	Atlas          string `yaml:"atlas"`
	ExplosionAtlas string `yaml:"explosion_atlas"`

	BodyDiameter    float64   `yaml:"body_diameter"`
	CanRotate       bool      `yaml:"can_rotate"`
	Bounciness      float64   `yaml:"bounciness"`
	FinAnim         string    `yaml:"fin_anim"`
	GrabOffset      cp.Vector `yaml:"grab_offset"`
	ThrowVelocity   cp.Vector `yaml:"throw_velocity"`
	AngularVelocity float64   `yaml:"angular_velocity"`
	KickVelocity    cp.Vector `yaml:"kick_velocity"`

	ArmDelay        Duration `yaml:"arm_delay"`
	FuseTime        Duration `yaml:"fuse_time"`
	FuseSound       string   `yaml:"fuse_sound"`
	FuseSoundVolume float64  `yaml:"fuse_sound_volume"`

	DamageRegionSize     cp.Vector `yaml:"damage_region_size"`
	DamageRegionLifetime Duration  `yaml:"damage_region_lifetime"`
	ExplosionLifetime    Duration  `yaml:"explosion_lifetime"`
	ExplosionFrames      int       `yaml:"explosion_frames"`
	ExplosionFPS         float64   `yaml:"explosion_fps"`
	ExplosionSound       string    `yaml:"explosion_sound"`
	ExplosionVolume      float64   `yaml:"explosion_volume"`
}

func (*KickBombMeta) Kind() ElementKind { return ElementKickBomb }

// DecorationMeta configures a purely visual element.
type DecorationMeta struct {
	Atlas  string     `yaml:"atlas"`
	Size   cp.Vector  `yaml:"size"`
	Frames []int      `yaml:"frames"`
	FPS    float64    `yaml:"fps"`
	Tint   *YAMLColor `yaml:"tint"`
}

func (*DecorationMeta) Kind() ElementKind { return ElementDecoration }

// Duration decodes either a Go duration string ("1.5s") or a number of
// seconds.
type Duration struct {
	time.Duration
}

func Seconds(s float64) Duration {
	return Duration{Duration: time.Duration(s * float64(time.Second))}
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}
	if f, err := strconv.ParseFloat(value.Value, 64); err == nil {
		if f < 0 {
			return fmt.Errorf("negative duration %s", value.Value)
		}
		*d = Seconds(f)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %s", value.Value)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// SimSpec is the physics and presentation tuning in sim.yaml.
type SimSpec struct {
	TickRate            int      `yaml:"tick_rate"`
	Gravity             float64  `yaml:"gravity"`
	GroundFriction      float64  `yaml:"ground_friction"`
	RestSpeed           float64  `yaml:"rest_speed"`
	GroundSnap          float64  `yaml:"ground_snap"`
	MaxFallSpeed        float64  `yaml:"max_fall_speed"`
	ExplosionTrauma     float32  `yaml:"explosion_trauma"`
	ExplosionDepth      float64  `yaml:"explosion_depth"`
	AttachmentDepth     float64  `yaml:"attachment_depth"`
	LevelMargin         float64  `yaml:"level_margin"`
	PlayerInvincibility Duration `yaml:"player_invincibility"`
}

func LoadSimSpec() (*SimSpec, error) {
	spec, err := LoadSpec[SimSpec]("sim.yaml")
	if err != nil {
		return nil, err
	}
	if spec.TickRate <= 0 {
		return nil, fmt.Errorf("prefabs: sim.yaml: tick_rate must be positive")
	}
	return &spec, nil
}

// TickDuration is the fixed step implied by TickRate.
func (s *SimSpec) TickDuration() time.Duration {
	if s == nil || s.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(s.TickRate)
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
