package scenario

import (
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/kickbomb/ecs/component"
	"github.com/milk9111/kickbomb/prefabs"
	"github.com/milk9111/kickbomb/sim"
)

var ErrAssertion = errors.New("scenario: assertion failed")

// Result summarises one scenario run.
type Result struct {
	Name       string
	Ticks      uint64
	Explosions []component.Explosion
	Damage     []component.PlayerDamaged
	Logs       []string
	Failures   []string
}

func (r *Result) Passed() bool {
	return r != nil && len(r.Failures) == 0
}

// Load reads a scenario script from prefabs/scripts, on disk first.
func Load(name string) ([]byte, error) {
	if !strings.HasSuffix(name, ".tengo") {
		name += ".tengo"
	}
	return prefabs.LoadScript(name)
}

// Names lists the embedded scenario scripts without extension.
func Names() ([]string, error) {
	entries, err := prefabs.ScriptsFS.ReadDir("scripts")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".tengo" {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".tengo"))
	}
	return out, nil
}

// Run executes src against s. The script sees the simulation as the global
// `sim`. A failed sim.assert does not stop the script; Run reports it by
// returning an error wrapping ErrAssertion.
func Run(s *sim.Simulation, name string, src []byte) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("scenario %s: nil simulation", name)
	}
	r := &runner{sim: s, result: &Result{Name: name}}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add("sim", r.engine()); err != nil {
		return nil, err
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: compile: %w", name, err)
	}
	if err := compiled.Run(); err != nil {
		return r.result, fmt.Errorf("scenario %s: %w", name, err)
	}

	r.result.Ticks = s.World().Time().Tick
	if len(r.result.Failures) > 0 {
		return r.result, fmt.Errorf("%w: %s: %s", ErrAssertion, name, strings.Join(r.result.Failures, "; "))
	}
	return r.result, nil
}

// RunNamed loads and runs an embedded scenario.
func RunNamed(s *sim.Simulation, name string) (*Result, error) {
	src, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", name, err)
	}
	res, err := Run(s, name, src)
	if res != nil {
		for _, line := range res.Logs {
			log.Printf("scenario %s: %s", name, line)
		}
	}
	return res, err
}
