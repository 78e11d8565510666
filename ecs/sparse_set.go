package ecs

import "github.com/milk9111/kickbomb/ecs/component"

// componentStore is the type-erased view of a SparseSet used by the world and
// the command bus.
type componentStore interface {
	has(e Entity) bool
	setAny(e Entity, v any) error
	remove(e Entity) error
	bitset() *Bitset
	len() int
	entityFor(id entityID) (Entity, bool)
	isLocked() bool
}

// SparseSet stores one component type. Values live behind pointers in a dense
// array; a sparse index maps slot ids to dense positions and a parallel bitset
// records presence for set-intersection queries.
type SparseSet[T any] struct {
	denseEntities []Entity
	denseValues   []*T
	sparse        []int
	present       Bitset

	// locked counts active iterations. While locked, inserting a new entity
	// or removing one would reorder the dense arrays under the iterator.
	locked int
}

func (s *SparseSet[T]) index(e Entity) (int, bool) {
	id := int(e.id())
	if id <= 0 || id-1 >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.denseEntities) || s.denseEntities[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *SparseSet[T]) has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

func (s *SparseSet[T]) get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return s.denseValues[idx], true
}

func (s *SparseSet[T]) set(e Entity, v *T) error {
	if v == nil {
		return component.ErrNilComponent
	}
	if idx, ok := s.index(e); ok {
		s.denseValues[idx] = v
		return nil
	}
	if s.locked > 0 {
		return component.ErrStoreLocked
	}
	id := int(e.id())
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseEntities) - 1
	s.present.Set(uint32(id))
	return nil
}

func (s *SparseSet[T]) setAny(e Entity, v any) error {
	typed, ok := v.(*T)
	if !ok {
		return component.ErrComponentType
	}
	return s.set(e, typed)
}

func (s *SparseSet[T]) remove(e Entity) error {
	idx, ok := s.index(e)
	if !ok {
		return nil
	}
	if s.locked > 0 {
		return component.ErrStoreLocked
	}
	last := len(s.denseEntities) - 1
	lastEntity := s.denseEntities[last]

	s.denseEntities[idx] = lastEntity
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastEntity.id()-1] = idx

	s.denseValues[last] = nil
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[e.id()-1] = -1
	s.present.Clear(uint32(e.id()))
	return nil
}

func (s *SparseSet[T]) bitset() *Bitset {
	return &s.present
}

func (s *SparseSet[T]) len() int {
	return len(s.denseEntities)
}
