package ecs

// CommandBuffer queues structural changes (spawn, destroy, resource
// insertion) that are unsafe while systems run concurrently.
// A buffer is owned by one callback at a time and is not locked.
type CommandBuffer struct {
	cmds []func(w *World)
}

// Push queues an arbitrary mutation
func (b *CommandBuffer) Push(fn func(w *World)) {
	b.cmds = append(b.cmds, fn)
}

// Spawn queues creation of an entity; init receives the new ID
func (b *CommandBuffer) Spawn(init func(w *World, id EntityID)) {
	b.Push(func(w *World) {
		id := w.NewEntity()
		if init != nil {
			init(w, id)
		}
	})
}

// Destroy queues removal of an entity
func (b *CommandBuffer) Destroy(id EntityID) {
	b.Push(func(w *World) { w.DestroyEntity(id) })
}

// InsertResource queues insertion of resource v keyed by its dynamic type
func (b *CommandBuffer) InsertResource(v any) {
	b.Push(func(w *World) { w.InsertValue(v) })
}

// Len returns the number of queued commands
func (b *CommandBuffer) Len() int { return len(b.cmds) }

// Apply runs queued commands in order and empties the buffer
func (b *CommandBuffer) Apply(w *World) {
	cmds := b.cmds
	b.cmds = nil
	for _, fn := range cmds {
		fn(w)
	}
}

// Reset drops queued commands without running them
func (b *CommandBuffer) Reset() {
	b.cmds = nil
}
