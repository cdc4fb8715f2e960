package ecs

import "testing"

const benchEntities = 100_000

func newBenchWorld() *World {
	w := NewWorld()
	for i := 0; i < benchEntities; i++ {
		id := w.NewEntity()
		Set(w, id, position{X: i, Y: i})
		if i%2 == 0 {
			Set(w, id, velocity{X: 1, Y: 1})
		}
	}
	return w
}

// Single store: packed iteration
func BenchmarkQuery_Single(b *testing.B) {
	w := newBenchWorld()
	b.ResetTimer()

	var sum int
	for n := 0; n < b.N; n++ {
		sum = 0
		Query(w, func(_ EntityID, p *position) { sum += p.X })
	}
	_ = sum
}

// Two stores: iteration over A with lookups into B
func BenchmarkQuery_Pair(b *testing.B) {
	w := newBenchWorld()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		Query2(w, func(_ EntityID, p *position, v *velocity) {
			p.X += v.X
			p.Y += v.Y
		})
	}
}

// Checked iteration through a system context
func BenchmarkEachMut2_SystemContext(b *testing.B) {
	w := newBenchWorld()
	access := NewAccess().Write(ComponentKey[position]()).Read(ComponentKey[velocity]())
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		ctx := NewSystemContext(w, "bench", access, &CommandBuffer{})
		EachMut2(ctx, func(_ EntityID, p *position, v velocity) { p.X += v.X })
		ctx.Release()
	}
}
