package ecs

import (
	"reflect"
	"slices"
	"strings"
)

// KeyKind distinguishes resource keys from component keys
type KeyKind uint8

const (
	KindResource KeyKind = iota
	KindComponent
)

// String returns the string representation of the key kind
func (k KeyKind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Key identifies a resource type or a component type in the World
type Key struct {
	Kind KeyKind
	Type reflect.Type
}

// ResourceKey returns the key of resource type T
func ResourceKey[T any]() Key {
	return Key{Kind: KindResource, Type: reflect.TypeFor[T]()}
}

// ComponentKey returns the key of component type T
func ComponentKey[T any]() Key {
	return Key{Kind: KindComponent, Type: reflect.TypeFor[T]()}
}

// String returns "<kind>:<type>", e.g. "component:app.Position"
func (k Key) String() string {
	if k.Type == nil {
		return k.Kind.String() + ":<nil>"
	}
	return k.Kind.String() + ":" + k.Type.String()
}

// Access is the declared read-set and write-set of a system.
// Access has value semantics: Read and Write return a new Access.
// Writing a key implies permission to read it.
type Access struct {
	reads  []Key
	writes []Key
}

// NewAccess returns an empty access declaration
func NewAccess() Access {
	return Access{}
}

// Read returns a copy of a with keys added to the read-set
func (a Access) Read(keys ...Key) Access {
	out := a.clone()
	for _, k := range keys {
		if !slices.Contains(out.reads, k) {
			out.reads = append(out.reads, k)
		}
	}
	return out
}

// Write returns a copy of a with keys added to the write-set
func (a Access) Write(keys ...Key) Access {
	out := a.clone()
	for _, k := range keys {
		if !slices.Contains(out.writes, k) {
			out.writes = append(out.writes, k)
		}
	}
	return out
}

// Reads returns the declared read-set in declaration order
func (a Access) Reads() []Key { return slices.Clone(a.reads) }

// Writes returns the declared write-set in declaration order
func (a Access) Writes() []Key { return slices.Clone(a.writes) }

// IsEmpty reports whether nothing was declared
func (a Access) IsEmpty() bool {
	return len(a.reads) == 0 && len(a.writes) == 0
}

// CanRead reports whether k is in the read-set or the write-set
func (a Access) CanRead(k Key) bool {
	return slices.Contains(a.reads, k) || slices.Contains(a.writes, k)
}

// CanWrite reports whether k is in the write-set
func (a Access) CanWrite(k Key) bool {
	return slices.Contains(a.writes, k)
}

// Conflicts reports whether a and b may not run concurrently:
// a write of either side overlaps a read or write of the other.
func (a Access) Conflicts(b Access) bool {
	for _, k := range a.writes {
		if b.CanRead(k) {
			return true
		}
	}
	for _, k := range b.writes {
		if a.CanRead(k) {
			return true
		}
	}
	return false
}

// String renders the access sets, e.g. "reads=[resource:int] writes=[]"
func (a Access) String() string {
	return "reads=" + joinKeys(a.reads) + " writes=" + joinKeys(a.writes)
}

func (a Access) clone() Access {
	return Access{reads: slices.Clone(a.reads), writes: slices.Clone(a.writes)}
}

func joinKeys(keys []Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
