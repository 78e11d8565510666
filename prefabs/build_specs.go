package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a named bag of component specs decoded lazily with
// DecodeComponentSpec.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type PlayerMovementComponentSpec struct {
	Speed     float64 `yaml:"speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
}

type KinematicBodyComponentSpec struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	HasMass     bool    `yaml:"has_mass"`
	HasFriction bool    `yaml:"has_friction"`
}

type SpriteComponentSpec struct {
	Atlas   string `yaml:"atlas"`
	FinAnim string `yaml:"fin_anim"`
}

// PlayerSpec is the decoded player.yaml.
type PlayerSpec struct {
	Name     string
	Movement PlayerMovementComponentSpec
	Body     KinematicBodyComponentSpec
	Sprite   SpriteComponentSpec
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	build, err := LoadEntityBuildSpec("player.yaml")
	if err != nil {
		return nil, err
	}
	spec := &PlayerSpec{Name: build.Name}
	if spec.Movement, err = DecodeComponentSpec[PlayerMovementComponentSpec](build.Components["player_movement"]); err != nil {
		return nil, err
	}
	if spec.Body, err = DecodeComponentSpec[KinematicBodyComponentSpec](build.Components["kinematic_body"]); err != nil {
		return nil, err
	}
	if spec.Sprite, err = DecodeComponentSpec[SpriteComponentSpec](build.Components["sprite"]); err != nil {
		return nil, err
	}
	return spec, nil
}
