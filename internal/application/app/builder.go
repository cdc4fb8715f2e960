package app

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/younwookim/crius/internal/application/scene"
	"github.com/younwookim/crius/internal/application/schedule"
	"github.com/younwookim/crius/internal/ecs"
	"github.com/younwookim/crius/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace"
)

// Metrics receives frame, system and stack observations
type Metrics interface {
	schedule.Recorder
	SetSceneDepth(n int)
}

// Builder assembles an Application: resources, systems, settings and
// observability. Systems are registered in the order they will be planned.
type Builder struct {
	initial  scene.Scene
	world    *ecs.World
	systems  *schedule.Builder
	settings *config.Settings
	loader   *config.Loader
	log      zerolog.Logger
	metrics  Metrics
	tracer   trace.Tracer
	workers  int
}

// NewBuilder starts an application whose stack begins with initial
func NewBuilder(initial scene.Scene) *Builder {
	return &Builder{
		initial: initial,
		world:   ecs.NewWorld(),
		systems: schedule.NewBuilder(),
		log:     zerolog.Nop(),
	}
}

// WithResource inserts v into the store, keyed by its dynamic type
func (b *Builder) WithResource(v any) *Builder {
	b.world.InsertValue(v)
	return b
}

// WithSystem adds a parallel system to the current stage
func (b *Builder) WithSystem(s schedule.System) *Builder {
	b.systems.AddParallelSystem(s)
	return b
}

// WithSystemFunc adds the parallel system returned by fn. fn receives the
// store so it can prepare state the system needs, such as binding a
// channel reader.
func (b *Builder) WithSystemFunc(fn func(w *ecs.World) schedule.System) *Builder {
	return b.WithSystem(fn(b.world))
}

// WithThreadLocalSystem adds a system that runs on the driving goroutine
func (b *Builder) WithThreadLocalSystem(s schedule.System) *Builder {
	b.systems.AddThreadAffinedSystem(s)
	return b
}

// WithThreadLocalFn adds a closure with full store access that runs on
// the driving goroutine
func (b *Builder) WithThreadLocalFn(name string, fn func(w *ecs.World)) *Builder {
	b.systems.AddThreadAffinedFn(name, fn)
	return b
}

// Barrier closes the current stage
func (b *Builder) Barrier() *Builder {
	b.systems.AddBarrier()
	return b
}

// WithSettings uses cfg instead of reading settings.yml
func (b *Builder) WithSettings(cfg *config.Settings) *Builder {
	b.settings = cfg
	return b
}

// WithSettingsLoader reads settings through loader instead of the
// working directory
func (b *Builder) WithSettingsLoader(loader *config.Loader) *Builder {
	b.loader = loader
	return b
}

// WithLogger sets the base logger
func (b *Builder) WithLogger(l zerolog.Logger) *Builder {
	b.log = l
	return b
}

// WithMetrics sets the metrics sink
func (b *Builder) WithMetrics(m Metrics) *Builder {
	b.metrics = m
	return b
}

// WithTracer sets the tracer for schedule spans
func (b *Builder) WithTracer(t trace.Tracer) *Builder {
	b.tracer = t
	return b
}

// WithWorkers bounds concurrent systems; 0 uses GOMAXPROCS
func (b *Builder) WithWorkers(n int) *Builder {
	b.workers = n
	return b
}

// Build loads settings if none were supplied, freezes the schedule and
// returns the Application. Settings are inserted into the store as a
// config.Settings resource.
func (b *Builder) Build() (*Application, error) {
	if b.initial == nil {
		return nil, fmt.Errorf("failed to build application: initial scene is nil")
	}

	settings := b.settings
	if settings == nil {
		loader := b.loader
		if loader == nil {
			loader = config.NewLoader(".")
		}
		cfg, err := loader.LoadSettings()
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = cfg
	}
	replaced := b.world.HasResource(ecs.ResourceKey[config.Settings]())
	ecs.Insert(b.world, *settings)

	id := uuid.New()
	log := b.log.With().
		Str("run_id", id.String()).
		Str("app", settings.Application.Name).
		Logger()
	if replaced {
		log.Warn().Msg("settings resource replaced by loaded settings")
	}

	b.systems.
		WithWorkers(b.workers).
		WithLogger(log.With().Str("component", "schedule").Logger()).
		WithTracer(b.tracer)
	if b.metrics != nil {
		b.systems.WithRecorder(b.metrics)
	}

	stack := scene.NewStack(b.initial)
	stack.SetLogger(log.With().Str("component", "scene").Logger())

	return &Application{
		id:       id,
		world:    b.world,
		stack:    stack,
		schedule: b.systems.Build(),
		settings: *settings,
		log:      log,
		metrics:  b.metrics,
	}, nil
}
