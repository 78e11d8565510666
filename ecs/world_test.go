package ecs

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/kickbomb/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if got := len(Entities(w)); got != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, got)
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("second DestroyEntity should return false")
			}
			if EntityCount(w) != c.create-1 {
				t.Fatalf("expected %d live entities, got %d", c.create-1, EntityCount(w))
			}
		})
	}
}

func TestSlotReuseBumpsGeneration(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot %d to be reused, got %d", old.id(), fresh.id())
	}
	if fresh == old {
		t.Fatalf("reused slot must not produce an equal handle")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle reported alive")
	}
	if Has(w, fresh, kind) {
		t.Fatalf("fresh entity inherited a component from the destroyed one")
	}
	if err := Add(w, old, kind, intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestComponentsTable(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int",
			setup: func() error { return Add(w, e1, ints.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, ints.Kind()) },
		},
		{
			name:  "replace_int",
			setup: func() error {
				if err := Add(w, e1, ints.Kind(), intPtr(1)); err != nil {
					return err
				}
				return Add(w, e1, ints.Kind(), intPtr(2))
			},
			check: func(t *testing.T) {
				if v, _ := Get(w, e1, ints.Kind()); v == nil || *v != 2 {
					t.Fatalf("expected replaced value 2, got %v", v)
				}
				if Count(w, ints.Kind()) != 1 {
					t.Fatalf("replace must not duplicate the entry")
				}
			},
			teardown: func() bool { return Remove(w, e1, ints.Kind()) },
		},
		{
			name: "add_string_to_both",
			setup: func() error {
				if err := Add(w, e1, strs.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, strs.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, strs.Kind()) || !Has(w, e2, strs.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
			},
			teardown: func() bool { return Remove(w, e1, strs.Kind()) && Remove(w, e2, strs.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := Add[int](w, e1, ints.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := Add(w, e1, component.ComponentKind[int]{}, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestForEachVisitsOnlyHolders(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	_ = Add(w, e1, h.Kind(), intPtr(1))
	_ = Add(w, e3, h.Kind(), intPtr(3))

	var ents []Entity
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		ents = append(ents, e)
		*v *= 10
	})
	set := toSet(ents)
	if _, ok := set[e2]; ok || len(set) != 2 {
		t.Fatalf("expected e1 and e3 only, got %v", ents)
	}
	if v, _ := Get(w, e3, h.Kind()); *v != 30 {
		t.Fatalf("mutation through ForEach pointer was lost: %d", *v)
	}
}

func TestForEachIntersections(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "three_way",
			run: func(t *testing.T) {
				w := NewWorld()
				e1, e2, e3 := CreateEntity(w), CreateEntity(w), CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				_ = Add(w, e1, ka, intPtr(1))
				_ = Add(w, e2, ka, intPtr(2))
				_ = Add(w, e2, kb, intPtr(3))
				_ = Add(w, e2, kc, intPtr(4))
				_ = Add(w, e3, kb, intPtr(5))

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "four_way_ignores_dead",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				kd := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, intPtr(2))
				_ = Add(w, e, kc, intPtr(3))
				_ = Add(w, e, kd, intPtr(4))

				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}
				var res []Entity
				ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))

				called := false
				ForEach2(w, ka, kb, func(Entity, *int, *int) { called = true })
				if called {
					t.Fatalf("expected no visits when a store is missing")
				}
			},
		},
		{
			name: "ascending_slot_order",
			run: func(t *testing.T) {
				w := NewWorld()
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				var want []Entity
				for i := 0; i < 5; i++ {
					e := CreateEntity(w)
					want = append(want, e)
				}
				// Insert in reverse so dense order differs from slot order.
				for i := len(want) - 1; i >= 0; i-- {
					_ = Add(w, want[i], ka, intPtr(i))
					_ = Add(w, want[i], kb, intPtr(i))
				}
				var got []Entity
				ForEach2(w, ka, kb, func(e Entity, _, _ *int) { got = append(got, e) })
				for i := range want {
					if got[i] != want[i] {
						t.Fatalf("expected %v, got %v", want, got)
					}
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestStoreLockedDuringIteration(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	_ = Add(w, e1, kind, intPtr(1))

	ForEach(w, kind, func(e Entity, _ *int) {
		if err := Add(w, e2, kind, intPtr(2)); !errors.Is(err, component.ErrStoreLocked) {
			t.Fatalf("insert during iteration: expected ErrStoreLocked, got %v", err)
		}
		if err := Add(w, e, kind, intPtr(5)); err != nil {
			t.Fatalf("replace during iteration should succeed, got %v", err)
		}
		if Remove(w, e, kind) {
			t.Fatalf("remove during iteration should be rejected")
		}
		if DestroyEntity(w, e) {
			t.Fatalf("destroy during iteration should be rejected")
		}
	})

	if err := Add(w, e2, kind, intPtr(2)); err != nil {
		t.Fatalf("insert after iteration failed: %v", err)
	}
	if v, _ := Get(w, e1, kind); *v != 5 {
		t.Fatalf("expected replaced value 5, got %d", *v)
	}
}

func TestQueryRequireExclude(t *testing.T) {
	w := NewWorld()
	handle := component.NewComponentKind[string]()
	hydrated := component.NewComponentKind[struct{}]()

	a := CreateEntity(w)
	b := CreateEntity(w)
	c := CreateEntity(w)
	_ = Add(w, a, handle, stringPtr("x"))
	_ = Add(w, b, handle, stringPtr("y"))
	_ = Add(w, b, hydrated, &struct{}{})
	_ = Add(w, c, hydrated, &struct{}{})

	got := Exclude(Require(NewQuery(w), handle), hydrated).Entities()
	if len(got) != 1 || got[0] != a {
		t.Fatalf("expected only %v, got %v", a, got)
	}

	missing := component.NewComponentKind[float64]()
	if got := Require(Require(NewQuery(w), handle), missing).Entities(); len(got) != 0 {
		t.Fatalf("require on an unused kind should match nothing, got %v", got)
	}
}

func TestSchedulerStagesAndFlush(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	var order []string

	s := NewScheduler()
	s.Add(PostUpdate, SystemFunc(func(w *World) { order = append(order, "post") }))
	s.Add(PreUpdate, SystemFunc(func(w *World) {
		order = append(order, "pre")
		e := w.Commands().Spawn()
		Insert(w.Commands(), e, kind, intPtr(7))
	}))
	s.Add(Update, SystemFunc(func(w *World) {
		order = append(order, "update")
		if Count(w, kind) != 0 {
			t.Fatalf("queued insert became visible before the flush")
		}
	}))

	applied := s.Run(w, 16*time.Millisecond)
	if applied != 2 {
		t.Fatalf("expected 2 applied commands, got %d", applied)
	}
	if len(order) != 3 || order[0] != "pre" || order[1] != "update" || order[2] != "post" {
		t.Fatalf("unexpected stage order %v", order)
	}
	if Count(w, kind) != 1 {
		t.Fatalf("expected spawned entity after flush")
	}
	if tm := w.Time(); tm.Tick != 1 || tm.Delta != 16*time.Millisecond {
		t.Fatalf("unexpected clock %+v", tm)
	}
}
