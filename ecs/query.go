package ecs

import "github.com/milk9111/kickbomb/ecs/component"

// intersect returns the entities present in every store, ordered by slot id.
func intersect(stores ...componentStore) []Entity {
	if len(stores) == 0 {
		return nil
	}
	smallest := stores[0]
	for _, s := range stores[1:] {
		if s.len() < smallest.len() {
			smallest = s
		}
	}
	bits := smallest.bitset().Clone()
	for _, s := range stores {
		if s != smallest {
			bits.And(s.bitset())
		}
	}
	out := make([]Entity, 0, bits.Count())
	bits.Each(func(i uint32) {
		if e, ok := smallest.entityFor(entityID(i)); ok {
			out = append(out, e)
		}
	})
	return out
}

func (s *SparseSet[T]) entityFor(id entityID) (Entity, bool) {
	if id == 0 || int(id) > len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.denseEntities) {
		return 0, false
	}
	return s.denseEntities[idx], true
}

// Query is a set expression over component presence bitsets. Require
// narrows the result to entities holding a component, Exclude drops entities
// holding one.
type Query struct {
	w       *World
	with    []*Bitset
	without []*Bitset
	empty   bool
}

// NewQuery starts an empty query against w.
func NewQuery(w *World) *Query {
	return &Query{w: w}
}

func Require[T any](q *Query, kind component.ComponentKind[T]) *Query {
	if q == nil {
		return nil
	}
	store := storeOf(q.w, kind, false)
	if store == nil {
		q.empty = true
		return q
	}
	q.with = append(q.with, store.bitset())
	return q
}

func Exclude[T any](q *Query, kind component.ComponentKind[T]) *Query {
	if q == nil {
		return nil
	}
	if store := storeOf(q.w, kind, false); store != nil {
		q.without = append(q.without, store.bitset())
	}
	return q
}

// Entities evaluates the query and returns matching live entities ordered by
// slot id. The result is a snapshot, so stores may be mutated while walking
// it.
func (q *Query) Entities() []Entity {
	if q == nil || q.w == nil || q.empty || len(q.with) == 0 {
		return nil
	}
	bits := q.with[0].Clone()
	for _, b := range q.with[1:] {
		bits.And(b)
	}
	for _, b := range q.without {
		bits.AndNot(b)
	}
	out := make([]Entity, 0, bits.Count())
	bits.Each(func(i uint32) {
		if e, ok := q.w.entities.current(entityID(i)); ok {
			out = append(out, e)
		}
	})
	return out
}
