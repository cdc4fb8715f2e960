package schedule

import (
	"context"
	"runtime/debug"
	"slices"
	"time"

	"github.com/younwookim/crius/internal/ecs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Schedule is a frozen, executable list of stages
type Schedule struct {
	stages   []stage
	workers  int
	recorder Recorder
	tracer   trace.Tracer
}

// StageCount returns the number of non-empty stages
func (s *Schedule) StageCount() int { return len(s.stages) }

// SystemCount returns the number of registered systems
func (s *Schedule) SystemCount() int {
	n := 0
	for _, st := range s.stages {
		n += st.systems
	}
	return n
}

// Workers returns the worker pool bound
func (s *Schedule) Workers() int { return s.workers }

// Describe returns the execution plan as stable text
func (s *Schedule) Describe() string { return describe(s.stages) }

// Execute runs every stage in order and blocks until all systems returned.
// Commands queued by systems are applied in declaration order when their
// stage ends. If a system panics, no further system of its stage is
// started, running ones are awaited, the stage's commands are discarded
// and Execute panics with a *SystemPanic.
func (s *Schedule) Execute(w *ecs.World) {
	start := time.Now()
	ctx, span := s.tracer.Start(context.Background(), "schedule.execute",
		trace.WithAttributes(attribute.Int("stages", len(s.stages))))
	defer span.End()

	for i := range s.stages {
		if p := s.runStage(ctx, w, i); p != nil {
			span.RecordError(p)
			panic(p)
		}
	}
	s.recorder.ObserveFrame(time.Since(start))
}

func (s *Schedule) runStage(ctx context.Context, w *ecs.World, index int) *SystemPanic {
	st := &s.stages[index]
	_, span := s.tracer.Start(ctx, "schedule.stage",
		trace.WithAttributes(attribute.Int("stage", index), attribute.Int("systems", st.systems)))
	defer span.End()

	buffers := make([]ecs.CommandBuffer, st.systems)
	for _, step := range st.steps {
		var p *SystemPanic
		if step.affined != nil {
			p = s.runSystem(w, index, step.affined, &buffers[step.affined.slot])
		} else {
			p = s.runBatch(w, index, step.batch, buffers)
		}
		if p != nil {
			span.RecordError(p)
			return p
		}
	}

	for i := range buffers {
		buffers[i].Apply(w)
	}
	return nil
}

type result struct {
	index int
	panic *SystemPanic
}

// runBatch dispatches systems as soon as the systems they depend on have
// finished, lowest declaration index first
func (s *Schedule) runBatch(w *ecs.World, stageIndex int, batch []*node, buffers []ecs.CommandBuffer) *SystemPanic {
	// Declaration order is a valid topological order.
	if s.workers == 1 || len(batch) == 1 {
		for _, n := range batch {
			if p := s.runSystem(w, stageIndex, n, &buffers[n.slot]); p != nil {
				return p
			}
		}
		return nil
	}

	pending := make([]int, len(batch))
	var ready []int
	for i, n := range batch {
		pending[i] = len(n.deps)
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	done := make(chan result, len(batch))

	var failure *SystemPanic
	launched, finished := 0, 0
	for finished < len(batch) {
		for failure == nil && len(ready) > 0 {
			i := ready[0]
			ready = ready[1:]
			launched++
			n := batch[i]
			g.Go(func() error {
				done <- result{index: i, panic: s.runSystem(w, stageIndex, n, &buffers[n.slot])}
				return nil
			})
		}
		if launched == finished {
			break
		}

		r := <-done
		finished++
		if r.panic != nil {
			if failure == nil {
				failure = r.panic
			}
			continue
		}
		for _, d := range batch[r.index].dependents {
			pending[d]--
			if pending[d] == 0 {
				pos, _ := slices.BinarySearch(ready, d)
				ready = slices.Insert(ready, pos, d)
			}
		}
	}
	_ = g.Wait()
	return failure
}

func (s *Schedule) runSystem(w *ecs.World, stageIndex int, n *node, cb *ecs.CommandBuffer) (p *SystemPanic) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p = &SystemPanic{System: n.name, Stage: stageIndex, Value: r, Stack: debug.Stack()}
		}
		s.recorder.ObserveSystem(stageIndex, n.name, time.Since(start))
	}()

	if n.world != nil {
		n.world(w)
		return nil
	}
	ctx := ecs.NewSystemContext(w, n.name, n.access, cb)
	n.run(ctx)
	ctx.Release()
	return nil
}
