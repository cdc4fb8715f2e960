// Package ecs implements the shared store the runtime lends to scenes and
// systems: typed resources plus entities with generic component stores.
//
// The World guards its tables (which stores and resources exist) with a
// lock. The values inside are not locked: concurrent systems are kept apart
// by the access sets they declare, checked through Context.
package ecs

import (
	"fmt"
	"reflect"
	"sync"
)

// EntityID is a unique identifier for an entity (never recycled)
type EntityID uint64

// World holds all resources, component stores and the next entity ID
type World struct {
	mu     sync.RWMutex
	nextID EntityID

	resources map[reflect.Type]any // values are *T
	stores    map[reflect.Type]anyStore
	alive     map[EntityID]struct{}
}

// NewWorld creates a new empty world
func NewWorld() *World {
	return &World{
		nextID:    1, // 0 is "nil"
		resources: make(map[reflect.Type]any),
		stores:    make(map[reflect.Type]anyStore),
		alive:     make(map[EntityID]struct{}),
	}
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() EntityID {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.alive[id] = struct{}{}
	return id
}

// DestroyEntity removes all components for an entity.
// Requires exclusive access to the world.
func (w *World) DestroyEntity(id EntityID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, s := range w.stores {
		s.remove(id)
	}
	delete(w.alive, id)
}

// Exists checks if an entity was created and not destroyed
func (w *World) Exists(id EntityID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.alive[id]
	return ok
}

// EntityCount returns the number of live entities
func (w *World) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.alive)
}

// InsertValue inserts v as a resource keyed by its dynamic type,
// replacing any previous resource of that type.
func (w *World) InsertValue(v any) {
	if v == nil {
		panic("ecs: cannot insert nil resource")
	}
	t := reflect.TypeOf(v)
	p := reflect.New(t)
	p.Elem().Set(reflect.ValueOf(v))

	w.mu.Lock()
	w.resources[t] = p.Interface()
	w.mu.Unlock()
}

// HasResource reports whether a resource with key k is present
func (w *World) HasResource(k Key) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.resources[k.Type]
	return ok
}

// ResourceCount returns the number of stored resources
func (w *World) ResourceCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.resources)
}

// Insert inserts resource v, replacing any previous resource of type T
func Insert[T any](w *World, v T) {
	p := new(T)
	*p = v

	w.mu.Lock()
	w.resources[reflect.TypeFor[T]()] = p
	w.mu.Unlock()
}

// TryFetch returns the resource of type T if present
func TryFetch[T any](w *World) (*T, bool) {
	w.mu.RLock()
	r, ok := w.resources[reflect.TypeFor[T]()]
	w.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// Fetch returns the resource of type T.
// A missing resource is a programming error and panics.
func Fetch[T any](w *World) *T {
	r, ok := TryFetch[T](w)
	if !ok {
		panic(fmt.Sprintf("ecs: missing resource %s", reflect.TypeFor[T]()))
	}
	return r
}

// Remove deletes the resource of type T, reporting whether it existed
func Remove[T any](w *World) bool {
	t := reflect.TypeFor[T]()

	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.resources[t]
	delete(w.resources, t)
	return ok
}
