package scene

import (
	"github.com/rs/zerolog"
	"github.com/younwookim/crius/internal/application/event"
	"github.com/younwookim/crius/internal/application/state"
	"github.com/younwookim/crius/internal/ecs"
)

// Stack owns the active scenes; the last element is the top.
//
// The stack is never empty while running. Only the top scene receives
// events, updates and draws; every scene below it has been paused.
// Transitions returned by the top scene are applied before the call that
// produced them returns.
type Stack struct {
	scenes []Scene
	state  state.Lifecycle
	log    zerolog.Logger
}

// NewStack creates a stack holding only the initial scene.
// No hook is called until Initialize.
func NewStack(initial Scene) *Stack {
	if initial == nil {
		panic("scene: initial scene is nil")
	}
	return &Stack{
		scenes: []Scene{initial},
		state:  state.Created,
		log:    zerolog.Nop(),
	}
}

// SetLogger sets the logger used for transition diagnostics
func (s *Stack) SetLogger(l zerolog.Logger) {
	s.log = l
}

// Initialize starts the initial scene. Must be called exactly once,
// before any Update or HandleEvent.
func (s *Stack) Initialize(w *ecs.World) {
	if !s.state.CanTransition(state.Running) {
		panic("scene: stack initialized twice")
	}
	top := s.top()
	call(w, top.Start)
	s.state = state.Running
	s.log.Debug().Int("depth", len(s.scenes)).Msg("scene stack running")
}

// IsRunning reports whether the stack is initialized and not stopped
func (s *Stack) IsRunning() bool {
	return s.state == state.Running
}

// State returns the lifecycle state of the stack
func (s *Stack) State() state.Lifecycle {
	return s.state
}

// Depth returns the number of scenes on the stack
func (s *Stack) Depth() int {
	return len(s.scenes)
}

// Top returns the active scene, or nil when the stack is empty
func (s *Stack) Top() Scene {
	return s.top()
}

// Update calls Update on the top scene and applies the returned transition.
// Returns None without calling anything when the stack is not running.
func (s *Stack) Update(w *ecs.World) Transition {
	top := s.top()
	if !s.IsRunning() || top == nil {
		return None()
	}
	t := callTransition(w, top.Update)
	s.apply(w, t)
	return t
}

// HandleEvent routes ev to the top scene and applies the returned transition
func (s *Stack) HandleEvent(w *ecs.World, ev event.Event) Transition {
	top := s.top()
	if !s.IsRunning() || top == nil {
		return None()
	}
	t := callTransition(w, func(ctx *ecs.Context) Transition {
		return top.HandleEvent(ctx, ev)
	})
	if t.Kind != TransitionNone {
		s.log.Debug().Str("event", event.Describe(ev)).Stringer("transition", t.Kind).Msg("event handled")
	}
	s.apply(w, t)
	return t
}

// Pause pauses the top scene directly, bypassing transitions.
// Used when the application is suspended.
func (s *Stack) Pause(w *ecs.World) {
	if top := s.top(); s.IsRunning() && top != nil {
		call(w, top.Pause)
	}
}

// Resume resumes the top scene directly, bypassing transitions
func (s *Stack) Resume(w *ecs.World) {
	if top := s.top(); s.IsRunning() && top != nil {
		call(w, top.Resume)
	}
}

// Draw calls PreDraw, Draw and PostDraw on the top scene
func (s *Stack) Draw(w *ecs.World) {
	top := s.top()
	if !s.IsRunning() || top == nil {
		return
	}
	call(w, top.PreDraw)
	call(w, top.Draw)
	call(w, top.PostDraw)
}

// Stop pops every scene from top to bottom, calling Stop on each.
// Idempotent; a stack that never started is left untouched.
func (s *Stack) Stop(w *ecs.World) {
	if !s.state.CanTransition(state.Stopped) {
		return
	}
	for len(s.scenes) > 0 {
		last := len(s.scenes) - 1
		sc := s.scenes[last]
		s.scenes[last] = nil
		s.scenes = s.scenes[:last]
		call(w, sc.Stop)
	}
	s.state = state.Stopped
	s.log.Debug().Msg("scene stack stopped")
}

func (s *Stack) apply(w *ecs.World, t Transition) {
	switch t.Kind {
	case TransitionPush:
		s.push(w, t.Scene)
	case TransitionSwitch, TransitionPop:
		// Accepted but not applied; depth and top stay unchanged.
		s.log.Debug().Stringer("transition", t.Kind).Msg("transition ignored")
	case TransitionQuit:
		s.log.Debug().Int("depth", len(s.scenes)).Msg("quit requested")
		s.Stop(w)
	}
}

func (s *Stack) push(w *ecs.World, next Scene) {
	if next == nil {
		s.log.Warn().Msg("push without scene ignored")
		return
	}
	if current := s.top(); current != nil {
		call(w, current.Pause)
	}
	s.scenes = append(s.scenes, next)
	call(w, next.Start)
	s.log.Debug().Int("depth", len(s.scenes)).Msg("scene pushed")
}

func (s *Stack) top() Scene {
	if len(s.scenes) == 0 {
		return nil
	}
	return s.scenes[len(s.scenes)-1]
}

// call runs hook with a fresh context released right after it returns
func call(w *ecs.World, hook func(ctx *ecs.Context)) {
	ctx := ecs.NewContext(w)
	hook(ctx)
	ctx.Release()
}

func callTransition(w *ecs.World, hook func(ctx *ecs.Context) Transition) Transition {
	ctx := ecs.NewContext(w)
	t := hook(ctx)
	ctx.Release()
	return t
}
