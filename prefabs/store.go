package prefabs

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var ErrElementNotFound = errors.New("prefabs: element not loaded")

// Store holds element metadata keyed by path. It is safe for concurrent use
// so the file watcher can swap entries while the simulation reads them.
type Store struct {
	mu       sync.RWMutex
	elements map[string]*ElementSpec
	schema   *jsonschema.Schema
}

// NewStore returns an empty store that validates files against the embedded
// element schema.
func NewStore() (*Store, error) {
	schema, err := CompileElementSchema()
	if err != nil {
		return nil, err
	}
	return &Store{elements: make(map[string]*ElementSpec), schema: schema}, nil
}

// LoadAll loads every embedded element file, preferring disk copies.
func (s *Store) LoadAll() error {
	paths, err := ElementPaths()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := s.LoadElement(path); err != nil {
			return err
		}
	}
	return nil
}

// LoadElement reads, validates and decodes one element file and replaces the
// stored entry. On failure the previous entry is kept.
func (s *Store) LoadElement(path string) error {
	key := cleanPrefabPath(path)
	data, err := Load(key)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", key, err)
	}
	spec, err := s.decode(data)
	if err != nil {
		return fmt.Errorf("prefabs: %s: %w", key, err)
	}
	s.Put(key, spec)
	return nil
}

func (s *Store) decode(data []byte) (*ElementSpec, error) {
	if err := ValidateYAML(s.schema, data); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	var spec ElementSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if spec.Builtin == nil {
		return nil, fmt.Errorf("missing builtin")
	}
	return &spec, nil
}

// Put stores spec under path, replacing any previous entry.
func (s *Store) Put(path string, spec *ElementSpec) {
	if s == nil || spec == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.elements == nil {
		s.elements = make(map[string]*ElementSpec)
	}
	s.elements[cleanPrefabPath(path)] = spec
}

// Delete drops the entry for path.
func (s *Store) Delete(path string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.elements, cleanPrefabPath(path))
}

func (s *Store) Element(path string) (*ElementSpec, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec, ok := s.elements[cleanPrefabPath(path)]
	return spec, ok
}

// Builtin resolves the kind-specific metadata of path.
func (s *Store) Builtin(path string) (BuiltinElement, error) {
	spec, ok := s.Element(path)
	if !ok || spec.Builtin == nil {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, path)
	}
	return spec.Builtin, nil
}

// KickBomb resolves path and reports whether it is a kick bomb.
func (s *Store) KickBomb(path string) (*KickBombMeta, bool) {
	builtin, err := s.Builtin(path)
	if err != nil {
		return nil, false
	}
	meta, ok := builtin.(*KickBombMeta)
	return meta, ok
}

// Decoration resolves path and reports whether it is a decoration.
func (s *Store) Decoration(path string) (*DecorationMeta, bool) {
	builtin, err := s.Builtin(path)
	if err != nil {
		return nil, false
	}
	meta, ok := builtin.(*DecorationMeta)
	return meta, ok
}

// Paths returns every loaded element path, sorted.
func (s *Store) Paths() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.elements))
	for path := range s.elements {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
