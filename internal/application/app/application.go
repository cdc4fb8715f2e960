// Package app is the application runtime: it owns the store, the scene
// stack and the frame schedule, and turns platform signals into stack
// calls and schedule executions.
package app

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/younwookim/crius/internal/application/event"
	"github.com/younwookim/crius/internal/application/scene"
	"github.com/younwookim/crius/internal/application/schedule"
	"github.com/younwookim/crius/internal/ecs"
	"github.com/younwookim/crius/internal/infrastructure/config"
)

// Application drives one scene stack and one schedule over one World.
// All methods must be called from the driving goroutine.
type Application struct {
	id       uuid.UUID
	world    *ecs.World
	stack    *scene.Stack
	schedule *schedule.Schedule
	settings config.Settings
	log      zerolog.Logger
	metrics  Metrics

	started   bool
	suspended bool
	done      bool
}

// Initialize starts the initial scene. Calling it again does nothing.
func (a *Application) Initialize() {
	if a.started {
		return
	}
	a.started = true
	a.stack.Initialize(a.world)
	a.observeDepth()
	a.log.Info().
		Str("version", a.settings.Application.Version.String()).
		Int("stages", a.schedule.StageCount()).
		Int("systems", a.schedule.SystemCount()).
		Int("resources", a.world.ResourceCount()).
		Msg("application started")
}

// HandleEvent routes ev to the top scene. CloseRequested terminates the
// application instead.
func (a *Application) HandleEvent(ev event.Event) scene.Transition {
	if !a.active() {
		return scene.None()
	}
	if _, ok := ev.(event.CloseRequested); ok {
		a.log.Info().Msg("close requested")
		a.Terminate()
		return scene.Quit()
	}
	t := a.stack.HandleEvent(a.world, ev)
	a.afterTransition(t)
	return t
}

// Suspend forwards Suspended to the top scene, then pauses it.
// Frames are skipped until Resume.
func (a *Application) Suspend() {
	if !a.active() || a.suspended {
		return
	}
	a.suspended = true
	a.log.Debug().Msg("suspended")
	a.afterTransition(a.stack.HandleEvent(a.world, event.Suspended))
	a.stack.Pause(a.world)
}

// Resume forwards Resumed to the top scene, then resumes it
func (a *Application) Resume() {
	if !a.active() || !a.suspended {
		return
	}
	a.suspended = false
	a.log.Debug().Msg("resumed")
	a.afterTransition(a.stack.HandleEvent(a.world, event.Resumed))
	a.stack.Resume(a.world)
}

// Frame updates the top scene and, unless it quit, executes the schedule.
// The transition returned by the scene is applied before any system runs.
func (a *Application) Frame() scene.Transition {
	if !a.active() || a.suspended {
		return scene.None()
	}
	t := a.stack.Update(a.world)
	a.afterTransition(t)
	if a.done {
		return t
	}
	a.schedule.Execute(a.world)
	return t
}

// Draw runs the draw hooks of the top scene
func (a *Application) Draw() {
	if !a.active() {
		return
	}
	a.stack.Draw(a.world)
}

// Terminate delivers Terminating to the top scene, stops every scene and
// marks the application done. Idempotent.
func (a *Application) Terminate() {
	if a.done {
		return
	}
	if a.stack.IsRunning() {
		a.stack.HandleEvent(a.world, event.Terminating)
	}
	a.stack.Stop(a.world)
	a.finish()
}

// Done reports whether the frame loop should exit
func (a *Application) Done() bool { return a.done }

// Suspended reports whether frames are currently skipped
func (a *Application) Suspended() bool { return a.suspended }

// ID returns the run identifier attached to every log line
func (a *Application) ID() string { return a.id.String() }

// World returns the shared store
func (a *Application) World() *ecs.World { return a.world }

// Settings returns the settings the application was built with
func (a *Application) Settings() config.Settings { return a.settings }

// Schedule returns the frozen frame schedule
func (a *Application) Schedule() *schedule.Schedule { return a.schedule }

// Depth returns the number of scenes on the stack
func (a *Application) Depth() int { return a.stack.Depth() }

func (a *Application) active() bool {
	return a.started && !a.done
}

func (a *Application) afterTransition(t scene.Transition) {
	if t.Kind != scene.TransitionNone {
		a.log.Debug().Stringer("transition", t).Int("depth", a.stack.Depth()).Msg("transition applied")
	}
	a.observeDepth()
	if !a.stack.IsRunning() {
		a.finish()
	}
}

func (a *Application) finish() {
	if a.done {
		return
	}
	a.done = true
	a.observeDepth()
	a.log.Info().Msg("application stopped")
}

func (a *Application) observeDepth() {
	if a.metrics != nil {
		a.metrics.SetSceneDepth(a.stack.Depth())
	}
}
