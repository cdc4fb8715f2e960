// Package scene defines the Scene interface for application states and the
// Stack that drives them through their lifecycle.
//
// Each application state (title, menu, playing, pause overlay, etc.)
// implements Scene. The Stack owns every pushed scene; only the top scene
// receives events and updates. Scenes request changes to the stack by
// returning a Transition.
package scene

import (
	"github.com/younwookim/crius/internal/application/event"
	"github.com/younwookim/crius/internal/ecs"
)

// Scene represents an application state with lifecycle hooks.
//
// Every hook receives a fresh Context borrowed from the shared store;
// the Context must not be retained after the hook returns.
// Embed Base to get no-op defaults for hooks a scene does not need.
type Scene interface {
	// Start is called when the scene becomes the top of the stack for the first time.
	Start(ctx *ecs.Context)

	// Stop is called when the scene leaves the stack.
	Stop(ctx *ecs.Context)

	// Pause is called when another scene is pushed on top of this one,
	// or when the application is suspended.
	Pause(ctx *ecs.Context)

	// Resume is called when the scene becomes active again.
	Resume(ctx *ecs.Context)

	// HandleEvent handles a platform or application event.
	HandleEvent(ctx *ecs.Context, ev event.Event) Transition

	// Update is called once per frame before the systems run.
	Update(ctx *ecs.Context) Transition

	// PreDraw, Draw and PostDraw are called in order on every redraw.
	PreDraw(ctx *ecs.Context)
	Draw(ctx *ecs.Context)
	PostDraw(ctx *ecs.Context)
}

// Base implements every Scene hook as a no-op returning None
type Base struct{}

func (Base) Start(*ecs.Context)  {}
func (Base) Stop(*ecs.Context)   {}
func (Base) Pause(*ecs.Context)  {}
func (Base) Resume(*ecs.Context) {}

func (Base) HandleEvent(*ecs.Context, event.Event) Transition { return None() }
func (Base) Update(*ecs.Context) Transition                   { return None() }

func (Base) PreDraw(*ecs.Context)  {}
func (Base) Draw(*ecs.Context)     {}
func (Base) PostDraw(*ecs.Context) {}
