package ecs

import "fmt"

// Context is the short-lived borrow of the World handed to every scene and
// system callback. It must not be stored past the callback's return: once
// released, every use panics.
//
// Scene contexts are unrestricted. System contexts only allow the keys the
// system declared in its Access.
type Context struct {
	world    *World
	system   string
	access   Access
	limited  bool
	commands *CommandBuffer
	owned    bool
	released bool
}

// NewContext creates an unrestricted context. Commands queued on it are
// applied when it is released.
func NewContext(w *World) *Context {
	return &Context{
		world:    w,
		commands: &CommandBuffer{},
		owned:    true,
	}
}

// NewSystemContext creates a context limited to the given access.
// Commands are queued on cb, which the caller applies later.
func NewSystemContext(w *World, system string, access Access, cb *CommandBuffer) *Context {
	return &Context{
		world:    w,
		system:   system,
		access:   access,
		limited:  true,
		commands: cb,
	}
}

// Release ends the borrow. An unrestricted context applies its own
// queued commands first.
func (c *Context) Release() {
	if c.released {
		return
	}
	if c.owned {
		c.commands.Apply(c.world)
	}
	c.released = true
}

// Released reports whether the borrow has ended
func (c *Context) Released() bool { return c.released }

// Restricted reports whether accesses are checked against declared sets
func (c *Context) Restricted() bool { return c.limited }

// System returns the name of the system owning the context, or "" for scenes
func (c *Context) System() string { return c.system }

// World returns the world. Only unrestricted contexts may reach it.
func (c *Context) World() *World {
	c.live()
	if c.limited {
		panic(fmt.Sprintf("ecs: system %s cannot borrow the whole world", c.system))
	}
	return c.world
}

// Commands returns the buffer for deferred structural changes
func (c *Context) Commands() *CommandBuffer {
	c.live()
	return c.commands
}

func (c *Context) live() {
	if c.released {
		panic("ecs: context used after release")
	}
}

func (c *Context) checkRead(k Key) {
	c.live()
	if c.limited && !c.access.CanRead(k) {
		panic(fmt.Sprintf("ecs: system %s did not declare read of %s", c.system, k))
	}
}

func (c *Context) checkWrite(k Key) {
	c.live()
	if c.limited && !c.access.CanWrite(k) {
		panic(fmt.Sprintf("ecs: system %s did not declare write of %s", c.system, k))
	}
}

// ReadResource returns resource T for reading. Panics if T is missing or
// was not declared. The returned value must not be mutated.
func ReadResource[T any](c *Context) *T {
	c.checkRead(ResourceKey[T]())
	return Fetch[T](c.world)
}

// WriteResource returns resource T for mutation
func WriteResource[T any](c *Context) *T {
	c.checkWrite(ResourceKey[T]())
	return Fetch[T](c.world)
}

// LookupResource returns resource T for reading if present
func LookupResource[T any](c *Context) (*T, bool) {
	c.checkRead(ResourceKey[T]())
	return TryFetch[T](c.world)
}

// ReadComponent returns a copy of entity id's component T
func ReadComponent[T any](c *Context, id EntityID) (T, bool) {
	c.checkRead(ComponentKey[T]())
	p, ok := Get[T](c.world, id)
	if !ok {
		var zero T
		return zero, false
	}
	return *p, true
}

// WriteComponent returns entity id's component T for mutation
func WriteComponent[T any](c *Context, id EntityID) (*T, bool) {
	c.checkWrite(ComponentKey[T]())
	return Get[T](c.world, id)
}

// SetComponent adds or replaces entity id's component T
func SetComponent[T any](c *Context, id EntityID, v T) {
	c.checkWrite(ComponentKey[T]())
	Set(c.world, id, v)
}

// Each iterates entities with component A, read-only
func Each[A any](c *Context, fn func(id EntityID, a A)) {
	c.checkRead(ComponentKey[A]())
	Query(c.world, func(id EntityID, a *A) { fn(id, *a) })
}

// EachMut iterates entities with component A, allowing mutation
func EachMut[A any](c *Context, fn func(id EntityID, a *A)) {
	c.checkWrite(ComponentKey[A]())
	Query(c.world, fn)
}

// Each2 iterates entities with components A and B, read-only
func Each2[A, B any](c *Context, fn func(id EntityID, a A, b B)) {
	c.checkRead(ComponentKey[A]())
	c.checkRead(ComponentKey[B]())
	Query2(c.world, func(id EntityID, a *A, b *B) { fn(id, *a, *b) })
}

// EachMut2 iterates entities with components A and B, mutating A and reading B
func EachMut2[A, B any](c *Context, fn func(id EntityID, a *A, b B)) {
	c.checkWrite(ComponentKey[A]())
	c.checkRead(ComponentKey[B]())
	Query2(c.world, func(id EntityID, a *A, b *B) { fn(id, a, *b) })
}
