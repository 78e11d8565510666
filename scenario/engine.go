package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/kickbomb/ecs"
	"github.com/milk9111/kickbomb/ecs/component"
	"github.com/milk9111/kickbomb/levels"
	"github.com/milk9111/kickbomb/sim"
)

type runner struct {
	sim    *sim.Simulation
	result *Result
}

func (r *runner) engine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	fn := func(name string, f tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("load_level", func(args ...tengo.Object) (tengo.Object, error) {
		name := argString(args, 0)
		if name == "" {
			return nil, tengo.ErrWrongNumArguments
		}
		if !strings.HasSuffix(name, ".json") {
			name += ".json"
		}
		lvl, err := levels.LoadLevelFromFS(name)
		if err != nil {
			return nil, err
		}
		if err := r.sim.LoadLevel(lvl); err != nil {
			return nil, err
		}
		return tengo.TrueValue, nil
	})

	fn("step", func(args ...tengo.Object) (tengo.Object, error) {
		n := 1
		if len(args) > 0 {
			n = argInt(args, 0)
		}
		explosions, damage := 0, 0
		for i := 0; i < n; i++ {
			report := r.sim.Step(r.sim.TickDuration())
			explosions += len(report.Explosions)
			damage += len(report.Damage)
			r.result.Explosions = append(r.result.Explosions, report.Explosions...)
			r.result.Damage = append(r.result.Damage, report.Damage...)
		}
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"explosions": &tengo.Int{Value: int64(explosions)},
			"damage":     &tengo.Int{Value: int64(damage)},
		}}, nil
	})

	fn("tick", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(r.sim.World().Time().Tick)}, nil
	})

	fn("elapsed", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: r.sim.World().Time().Elapsed.Seconds()}, nil
	})

	fn("explosions", func(args ...tengo.Object) (tengo.Object, error) {
		out := make([]tengo.Object, 0, len(r.result.Explosions))
		for _, ex := range r.result.Explosions {
			out = append(out, &tengo.ImmutableMap{Value: map[string]tengo.Object{
				"x":     &tengo.Float{Value: ex.X},
				"y":     &tengo.Float{Value: ex.Y},
				"cause": &tengo.String{Value: string(ex.Cause)},
			}})
		}
		return &tengo.Array{Value: out}, nil
	})

	fn("damage_count", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(len(r.result.Damage))}, nil
	})

	fn("spawn_player", func(args ...tengo.Object) (tengo.Object, error) {
		if _, err := r.sim.SpawnPlayer(argFloat(args, 0), argFloat(args, 1)); err != nil {
			return nil, err
		}
		return &tengo.Int{Value: int64(len(r.sim.Players()) - 1)}, nil
	})

	fn("add_element", func(args ...tengo.Object) (tengo.Object, error) {
		path := argString(args, 0)
		if path == "" {
			return nil, tengo.ErrWrongNumArguments
		}
		if _, err := r.sim.AddMarker(path, argFloat(args, 1), argFloat(args, 2)); err != nil {
			return nil, err
		}
		return tengo.TrueValue, nil
	})

	fn("move", func(args ...tengo.Object) (tengo.Object, error) {
		ctl, err := r.control(args)
		if err != nil {
			return nil, err
		}
		ctl.MoveX = argFloat(args, 1)
		return tengo.TrueValue, nil
	})

	for _, name := range []string{"jump", "grab", "use", "throw"} {
		intent := name
		fn(intent, func(args ...tengo.Object) (tengo.Object, error) {
			ctl, err := r.control(args)
			if err != nil {
				return nil, err
			}
			switch intent {
			case "jump":
				ctl.Jump = true
			case "grab":
				ctl.Grab = true
			case "use":
				ctl.Use = true
			case "throw":
				ctl.Throw = true
			}
			return tengo.TrueValue, nil
		})
	}

	fn("set_invincible", func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := r.sim.Player(argInt(args, 0))
		if !ok {
			return nil, fmt.Errorf("no player %d", argInt(args, 0))
		}
		d := time.Duration(argFloat(args, 1) * float64(time.Second))
		w := r.sim.World()
		if d <= 0 {
			ecs.Remove(w, e, component.InvincibilityComponent.Kind())
			return tengo.TrueValue, nil
		}
		if err := ecs.Add(w, e, component.InvincibilityComponent.Kind(), &component.Invincibility{
			Timer: component.NewTimer(d, component.TimerOnce),
		}); err != nil {
			return nil, err
		}
		return tengo.TrueValue, nil
	})

	fn("player", func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := r.sim.Player(argInt(args, 0))
		if !ok {
			return tengo.UndefinedValue, nil
		}
		w := r.sim.World()
		out := map[string]tengo.Object{
			"x":          &tengo.Float{},
			"y":          &tengo.Float{},
			"held":       tengo.FalseValue,
			"invincible": boolObject(ecs.Has(w, e, component.InvincibilityComponent.Kind())),
			"grounded":   tengo.FalseValue,
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			out["x"] = &tengo.Float{Value: t.X}
			out["y"] = &tengo.Float{Value: t.Y}
		}
		if inv, ok := ecs.Get(w, e, component.InventoryComponent.Kind()); ok {
			out["held"] = boolObject(inv.Held != 0)
		}
		if body, ok := ecs.Get(w, e, component.KinematicBodyComponent.Kind()); ok {
			out["grounded"] = boolObject(body.IsOnGround)
		}
		return &tengo.ImmutableMap{Value: out}, nil
	})

	fn("bombs", func(args ...tengo.Object) (tengo.Object, error) {
		bombs := r.sim.Bombs()
		out := make([]tengo.Object, 0, len(bombs))
		for _, b := range bombs {
			out = append(out, &tengo.ImmutableMap{Value: map[string]tengo.Object{
				"x":    &tengo.Float{Value: b.X},
				"y":    &tengo.Float{Value: b.Y},
				"vx":   &tengo.Float{Value: b.VX},
				"vy":   &tengo.Float{Value: b.VY},
				"lit":  boolObject(b.Lit),
				"fuse": &tengo.Float{Value: b.Fuse},
				"held": boolObject(b.Held),
			}})
		}
		return &tengo.Array{Value: out}, nil
	})

	fn("log", func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		r.result.Logs = append(r.result.Logs, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	})

	fn("assert", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) == 0 {
			return nil, tengo.ErrWrongNumArguments
		}
		if !args[0].IsFalsy() {
			return tengo.TrueValue, nil
		}
		msg := "assertion failed"
		if len(args) > 1 {
			msg = objectAsString(args[1])
		}
		r.result.Failures = append(r.result.Failures, fmt.Sprintf("tick %d: %s", r.sim.World().Time().Tick, msg))
		return tengo.FalseValue, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

func (r *runner) control(args []tengo.Object) (*component.PlayerControl, error) {
	idx := argInt(args, 0)
	ctl := r.sim.Control(idx)
	if ctl == nil {
		return nil, fmt.Errorf("no player %d", idx)
	}
	return ctl, nil
}

func argString(args []tengo.Object, i int) string {
	if i >= len(args) {
		return ""
	}
	return strings.TrimSpace(objectAsString(args[i]))
}

func argInt(args []tengo.Object, i int) int {
	if i >= len(args) {
		return 0
	}
	v, _ := tengo.ToInt(args[i])
	return v
}

func argFloat(args []tengo.Object, i int) float64 {
	if i >= len(args) {
		return 0
	}
	v, _ := tengo.ToFloat64(args[i])
	return v
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
