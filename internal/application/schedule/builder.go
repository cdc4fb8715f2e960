package schedule

import (
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/younwookim/crius/internal/ecs"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Recorder observes execution timings
type Recorder interface {
	ObserveSystem(stage int, name string, d time.Duration)
	ObserveFrame(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSystem(int, string, time.Duration) {}
func (nopRecorder) ObserveFrame(time.Duration)               {}

// entry is a registered system before planning
type entry struct {
	name     string
	access   ecs.Access
	run      func(ctx *ecs.Context)
	world    func(w *ecs.World)
	affined  bool
	newStage bool
}

// Builder accumulates systems and barriers. It is consumed by Build.
type Builder struct {
	entries  []entry
	names    map[string]struct{}
	workers  int
	recorder Recorder
	tracer   trace.Tracer
	log      zerolog.Logger
	built    bool
}

// NewBuilder creates an empty builder using GOMAXPROCS workers
func NewBuilder() *Builder {
	return &Builder{
		names:    make(map[string]struct{}),
		workers:  runtime.GOMAXPROCS(0),
		recorder: nopRecorder{},
		log:      zerolog.Nop(),
	}
}

// AddParallelSystem appends a system eligible for concurrent execution to
// the current stage
func (b *Builder) AddParallelSystem(s System) *Builder {
	s.validate()
	b.add(entry{name: s.Name, access: s.Access, run: s.Run})
	return b
}

// AddThreadAffinedSystem appends a system that runs alone on the calling
// goroutine
func (b *Builder) AddThreadAffinedSystem(s System) *Builder {
	s.validate()
	b.add(entry{name: s.Name, access: s.Access, run: s.Run, affined: true})
	return b
}

// AddThreadAffinedFn appends a thread-affined closure with unrestricted
// access to the World. Structural changes it makes are visible immediately.
func (b *Builder) AddThreadAffinedFn(name string, fn func(w *ecs.World)) *Builder {
	if name == "" {
		panic("schedule: system without name")
	}
	if fn == nil {
		panic(fmt.Sprintf("schedule: system %s has no func", name))
	}
	b.add(entry{name: name, world: fn, affined: true})
	return b
}

// AddBarrier closes the current stage. Systems added afterwards start only
// once every system before the barrier has returned.
func (b *Builder) AddBarrier() *Builder {
	b.check()
	b.entries = append(b.entries, entry{newStage: true})
	return b
}

// WithWorkers bounds the number of systems running at once.
// Values below 1 reset to GOMAXPROCS; 1 runs every system sequentially.
func (b *Builder) WithWorkers(n int) *Builder {
	b.check()
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	b.workers = n
	return b
}

// WithRecorder sets the timing observer
func (b *Builder) WithRecorder(r Recorder) *Builder {
	b.check()
	if r == nil {
		r = nopRecorder{}
	}
	b.recorder = r
	return b
}

// WithTracer sets the tracer used for execute and stage spans
func (b *Builder) WithTracer(t trace.Tracer) *Builder {
	b.check()
	b.tracer = t
	return b
}

// WithLogger sets the logger for build diagnostics
func (b *Builder) WithLogger(l zerolog.Logger) *Builder {
	b.check()
	b.log = l
	return b
}

// Build freezes the registered systems into an executable Schedule.
// The builder cannot be used afterwards.
func (b *Builder) Build() *Schedule {
	b.check()
	b.built = true

	for _, e := range b.entries {
		if !e.newStage && e.world == nil && e.access.IsEmpty() {
			b.log.Debug().Str("system", e.name).Msg("system declares no access")
		}
	}

	tracer := b.tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	s := &Schedule{
		stages:   plan(b.entries),
		workers:  b.workers,
		recorder: b.recorder,
		tracer:   tracer,
	}
	b.log.Debug().
		Int("stages", len(s.stages)).
		Int("systems", s.SystemCount()).
		Int("workers", s.workers).
		Msg("schedule built")
	return s
}

func (b *Builder) add(e entry) {
	b.check()
	if _, dup := b.names[e.name]; dup {
		panic(fmt.Sprintf("schedule: duplicate system %s", e.name))
	}
	b.names[e.name] = struct{}{}
	b.entries = append(b.entries, e)
}

func (b *Builder) check() {
	if b.built {
		panic("schedule: builder used after Build")
	}
}
