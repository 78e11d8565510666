package system

import (
	"sort"

	"github.com/milk9111/kickbomb/ecs"
)

// SpawnerManager remembers which instances each placement marker spawned.
type SpawnerManager struct {
	instances map[ecs.Entity][]ecs.Entity
	owner     map[ecs.Entity]ecs.Entity
}

func NewSpawnerManager() *SpawnerManager {
	return &SpawnerManager{
		instances: make(map[ecs.Entity][]ecs.Entity),
		owner:     make(map[ecs.Entity]ecs.Entity),
	}
}

// CreateSpawner records instances as spawned by marker, replacing any
// previous set.
func (m *SpawnerManager) CreateSpawner(marker ecs.Entity, instances []ecs.Entity) {
	if m == nil {
		return
	}
	for _, old := range m.instances[marker] {
		delete(m.owner, old)
	}
	m.instances[marker] = append([]ecs.Entity(nil), instances...)
	for _, e := range instances {
		m.owner[e] = marker
	}
}

func (m *SpawnerManager) Instances(marker ecs.Entity) []ecs.Entity {
	if m == nil {
		return nil
	}
	return append([]ecs.Entity(nil), m.instances[marker]...)
}

// Spawner returns the marker that spawned instance.
func (m *SpawnerManager) Spawner(instance ecs.Entity) (ecs.Entity, bool) {
	if m == nil {
		return 0, false
	}
	marker, ok := m.owner[instance]
	return marker, ok
}

// Prune forgets instances that are no longer alive and markers left with
// none.
func (m *SpawnerManager) Prune(w *ecs.World) {
	if m == nil {
		return
	}
	for marker, list := range m.instances {
		kept := list[:0]
		for _, e := range list {
			if ecs.IsAlive(w, e) {
				kept = append(kept, e)
				continue
			}
			delete(m.owner, e)
		}
		if len(kept) == 0 || !ecs.IsAlive(w, marker) {
			for _, e := range kept {
				delete(m.owner, e)
			}
			delete(m.instances, marker)
			continue
		}
		m.instances[marker] = kept
	}
}

// Markers returns every marker with live bookkeeping, in slot order.
func (m *SpawnerManager) Markers() []ecs.Entity {
	if m == nil {
		return nil
	}
	out := make([]ecs.Entity, 0, len(m.instances))
	for marker := range m.instances {
		out = append(out, marker)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *SpawnerManager) Clear() {
	if m == nil {
		return
	}
	clear(m.instances)
	clear(m.owner)
}
