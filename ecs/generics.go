package ecs

import "github.com/milk9111/kickbomb/ecs/component"

func storeOf[T any](w *World, kind component.ComponentKind[T], create bool) *SparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if raw, ok := w.stores[kind.ID()]; ok {
		store, _ := raw.(*SparseSet[T])
		return store
	}
	if !create {
		return nil
	}
	store := &SparseSet[T]{}
	w.stores[kind.ID()] = store
	return store
}

// Add inserts or replaces the component of kind on e.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	if value == nil {
		return component.ErrNilComponent
	}
	return storeOf(w, kind, true).set(e, value)
}

// Remove deletes the component of kind from e and reports whether it existed.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	store := storeOf(w, kind, false)
	if store == nil || !store.has(e) {
		return false
	}
	return store.remove(e) == nil
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	store := storeOf(w, kind, false)
	return store != nil && store.has(e)
}

// Get returns the stored pointer; mutations through it are visible to every
// later reader without a write back.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	store := storeOf(w, kind, false)
	if store == nil {
		return nil, false
	}
	return store.get(e)
}

// First returns the first entity holding kind, in dense order.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	store := storeOf(w, kind, false)
	if store == nil || len(store.denseEntities) == 0 {
		return 0, false
	}
	return store.denseEntities[0], true
}

// Count returns how many entities hold kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	store := storeOf(w, kind, false)
	if store == nil {
		return 0
	}
	return store.len()
}

// Bits returns a copy of the presence bitset of kind.
func Bits[T any](w *World, kind component.ComponentKind[T]) *Bitset {
	store := storeOf(w, kind, false)
	if store == nil {
		return &Bitset{}
	}
	return store.present.Clone()
}

// ForEach visits every entity holding kind. Structural edits to the iterated
// store are rejected until the iteration returns; enqueue them on the world's
// Commands instead.
func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	sa := storeOf(w, ka, false)
	if sa == nil || fn == nil {
		return
	}
	sa.locked++
	defer func() { sa.locked-- }()
	for i := 0; i < len(sa.denseEntities); i++ {
		fn(sa.denseEntities[i], sa.denseValues[i])
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, sb := storeOf(w, ka, false), storeOf(w, kb, false)
	if sa == nil || sb == nil || fn == nil {
		return
	}
	sa.locked++
	sb.locked++
	defer func() { sa.locked--; sb.locked-- }()
	for _, e := range intersect(sa, sb) {
		a, _ := sa.get(e)
		b, _ := sb.get(e)
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := storeOf(w, ka, false), storeOf(w, kb, false), storeOf(w, kc, false)
	if sa == nil || sb == nil || sc == nil || fn == nil {
		return
	}
	sa.locked++
	sb.locked++
	sc.locked++
	defer func() { sa.locked--; sb.locked--; sc.locked-- }()
	for _, e := range intersect(sa, sb, sc) {
		a, _ := sa.get(e)
		b, _ := sb.get(e)
		c, _ := sc.get(e)
		fn(e, a, b, c)
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sa, sb, sc, sd := storeOf(w, ka, false), storeOf(w, kb, false), storeOf(w, kc, false), storeOf(w, kd, false)
	if sa == nil || sb == nil || sc == nil || sd == nil || fn == nil {
		return
	}
	sa.locked++
	sb.locked++
	sc.locked++
	sd.locked++
	defer func() { sa.locked--; sb.locked--; sc.locked--; sd.locked-- }()
	for _, e := range intersect(sa, sb, sc, sd) {
		a, _ := sa.get(e)
		b, _ := sb.get(e)
		c, _ := sc.get(e)
		d, _ := sd.get(e)
		fn(e, a, b, c, d)
	}
}
