package ecs

import "reflect"

// anyStore provides type-erased operations the World needs for
// lifecycle management without knowing the component type.
type anyStore interface {
	remove(id EntityID)
	has(id EntityID) bool
	count() int
}

// store is a sparse set of components of type T.
// Values are packed for iteration; index maps an entity to its slot.
type store[T any] struct {
	index  map[EntityID]int
	ids    []EntityID
	values []T
}

func newStore[T any]() *store[T] {
	return &store[T]{
		index:  make(map[EntityID]int),
		ids:    make([]EntityID, 0, 64),
		values: make([]T, 0, 64),
	}
}

func (s *store[T]) set(id EntityID, v T) {
	if i, ok := s.index[id]; ok {
		s.values[i] = v
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.values = append(s.values, v)
}

func (s *store[T]) get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.values[i], true
}

// remove swaps the last slot into the removed one
func (s *store[T]) remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	last := len(s.ids) - 1
	if i != last {
		s.ids[i] = s.ids[last]
		s.values[i] = s.values[last]
		s.index[s.ids[i]] = i
	}
	var zero T
	s.values[last] = zero
	s.ids = s.ids[:last]
	s.values = s.values[:last]
	delete(s.index, id)
}

func (s *store[T]) has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *store[T]) count() int {
	return len(s.ids)
}

// storeFor returns the store for T, creating it when create is set
func storeFor[T any](w *World, create bool) *store[T] {
	t := reflect.TypeFor[T]()

	w.mu.RLock()
	s, ok := w.stores[t]
	w.mu.RUnlock()
	if ok {
		return s.(*store[T])
	}
	if !create {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.stores[t]; ok {
		return s.(*store[T])
	}
	ns := newStore[T]()
	w.stores[t] = ns
	return ns
}

// Set adds or replaces component v on entity id.
// Setting a component on a destroyed entity is ignored.
func Set[T any](w *World, id EntityID, v T) {
	if !w.Exists(id) {
		return
	}
	storeFor[T](w, true).set(id, v)
}

// Get returns a pointer to the component of type T on entity id.
// The pointer is valid until the next structural change to the store.
func Get[T any](w *World, id EntityID) (*T, bool) {
	s := storeFor[T](w, false)
	if s == nil {
		return nil, false
	}
	return s.get(id)
}

// Has checks if entity id has a component of type T
func Has[T any](w *World, id EntityID) bool {
	s := storeFor[T](w, false)
	return s != nil && s.has(id)
}

// Unset removes the component of type T from entity id
func Unset[T any](w *World, id EntityID) {
	if s := storeFor[T](w, false); s != nil {
		s.remove(id)
	}
}

// Count returns the number of entities with a component of type T
func Count[T any](w *World) int {
	s := storeFor[T](w, false)
	if s == nil {
		return 0
	}
	return s.count()
}

// Query calls fn for every entity with a component of type A,
// in insertion order (modulo removals).
func Query[A any](w *World, fn func(id EntityID, a *A)) {
	s := storeFor[A](w, false)
	if s == nil {
		return
	}
	for i := range s.ids {
		fn(s.ids[i], &s.values[i])
	}
}

// Query2 calls fn for every entity having both an A and a B.
// Iteration is driven by the A store.
func Query2[A, B any](w *World, fn func(id EntityID, a *A, b *B)) {
	sa := storeFor[A](w, false)
	sb := storeFor[B](w, false)
	if sa == nil || sb == nil {
		return
	}
	for i, id := range sa.ids {
		b, ok := sb.get(id)
		if !ok {
			continue
		}
		fn(id, &sa.values[i], b)
	}
}
