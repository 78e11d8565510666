package ecs

// entityStore tracks entity generations and free ids. Slot ids start at 1 so
// the zero Entity is never valid.
type entityStore struct {
	gen      []generation
	alive    []bool
	reserved []bool
	free     []entityID
	count    int
}

func (s *entityStore) allocate() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
		s.reserved = append(s.reserved, false)
		id = entityID(len(s.gen))
	}
	return makeEntity(id, s.gen[id-1])
}

func (s *entityStore) create() Entity {
	e := s.allocate()
	s.alive[e.id()-1] = true
	s.count++
	return e
}

// reserve hands out a handle that only becomes alive once commit is called.
// The command bus uses it so a pass can refer to an entity it asked to spawn.
func (s *entityStore) reserve() Entity {
	e := s.allocate()
	s.reserved[e.id()-1] = true
	return e
}

func (s *entityStore) commit(e Entity) bool {
	if !s.valid(e) {
		return false
	}
	idx := e.id() - 1
	if !s.reserved[idx] {
		return false
	}
	s.reserved[idx] = false
	s.alive[idx] = true
	s.count++
	return true
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.id() - 1
	s.gen[idx]++
	s.alive[idx] = false
	s.free = append(s.free, e.id())
	s.count--
	return true
}

func (s *entityStore) valid(e Entity) bool {
	id := e.id()
	return id > 0 && int(id) <= len(s.gen) && s.gen[id-1] == e.generation()
}

func (s *entityStore) isAlive(e Entity) bool {
	return s.valid(e) && s.alive[e.id()-1]
}

func (s *entityStore) each(fn func(Entity)) {
	for i, ok := range s.alive {
		if ok {
			fn(makeEntity(entityID(i+1), s.gen[i]))
		}
	}
}

// current returns the live handle occupying slot id, if any.
func (s *entityStore) current(id entityID) (Entity, bool) {
	if id == 0 || int(id) > len(s.gen) || !s.alive[id-1] {
		return 0, false
	}
	return makeEntity(id, s.gen[id-1]), true
}
