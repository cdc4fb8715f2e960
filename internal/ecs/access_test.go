package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_String(t *testing.T) {
	assert.Equal(t, "resource:ecs.gravity", ResourceKey[gravity]().String())
	assert.Equal(t, "component:ecs.position", ComponentKey[position]().String())
	assert.Equal(t, "resource:<nil>", Key{}.String())
}

func TestKeyKind_String(t *testing.T) {
	assert.Equal(t, "resource", KindResource.String())
	assert.Equal(t, "component", KindComponent.String())
	assert.Equal(t, "unknown", KeyKind(9).String())
}

func TestKeysDistinguishKind(t *testing.T) {
	assert.NotEqual(t, ResourceKey[position](), ComponentKey[position]())
	assert.Equal(t, ComponentKey[position](), ComponentKey[position]())
}

func TestAccess_ValueSemantics(t *testing.T) {
	base := NewAccess().Read(ResourceKey[gravity]())
	a := base.Write(ComponentKey[position]())
	b := base.Write(ComponentKey[velocity]())

	assert.Len(t, base.Writes(), 0)
	assert.Equal(t, []Key{ComponentKey[position]()}, a.Writes())
	assert.Equal(t, []Key{ComponentKey[velocity]()}, b.Writes())
}

func TestAccess_Dedupes(t *testing.T) {
	a := NewAccess().
		Read(ResourceKey[gravity](), ResourceKey[gravity]()).
		Read(ResourceKey[gravity]())

	assert.Len(t, a.Reads(), 1)
	assert.False(t, a.IsEmpty())
	assert.True(t, NewAccess().IsEmpty())
}

func TestAccess_CanReadCanWrite(t *testing.T) {
	a := NewAccess().
		Read(ComponentKey[velocity]()).
		Write(ComponentKey[position]())

	assert.True(t, a.CanRead(ComponentKey[velocity]()))
	assert.True(t, a.CanRead(ComponentKey[position]()), "write implies read")
	assert.False(t, a.CanWrite(ComponentKey[velocity]()))
	assert.True(t, a.CanWrite(ComponentKey[position]()))
	assert.False(t, a.CanRead(ResourceKey[gravity]()))
}

func TestAccess_Conflicts(t *testing.T) {
	pos := ComponentKey[position]()
	vel := ComponentKey[velocity]()
	grav := ResourceKey[gravity]()

	tests := []struct {
		name     string
		a, b     Access
		conflict bool
	}{
		{"disjoint writes", NewAccess().Write(pos), NewAccess().Write(vel), false},
		{"shared reads", NewAccess().Read(grav), NewAccess().Read(grav), false},
		{"write write", NewAccess().Write(pos), NewAccess().Write(pos), true},
		{"write read", NewAccess().Write(pos), NewAccess().Read(pos), true},
		{"read write", NewAccess().Read(pos), NewAccess().Write(pos), true},
		{"empty", NewAccess(), NewAccess().Write(pos), false},
		{"same type different kind", NewAccess().Write(ResourceKey[position]()), NewAccess().Read(pos), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conflict, tt.a.Conflicts(tt.b))
			assert.Equal(t, tt.conflict, tt.b.Conflicts(tt.a), "Conflicts must be symmetric")
		})
	}
}

func TestAccess_String(t *testing.T) {
	a := NewAccess().Read(ResourceKey[gravity]()).Write(ComponentKey[position](), ComponentKey[velocity]())
	assert.Equal(t, "reads=[resource:ecs.gravity] writes=[component:ecs.position component:ecs.velocity]", a.String())
	assert.Equal(t, "reads=[] writes=[]", NewAccess().String())
}
