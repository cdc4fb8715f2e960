// Package game drives an Application from the ebiten main loop.
package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/crius/internal/application/app"
	"github.com/younwookim/crius/internal/application/event"
	"github.com/younwookim/crius/internal/ecs"
)

// InputSource yields the platform events observed since the last poll
type InputSource interface {
	Poll() []event.Event
}

// Screen is the draw target, inserted as a resource before every Draw
type Screen struct {
	Image *ebiten.Image
}

// Game implements ebiten.Game on top of an Application.
type Game struct {
	app           *app.Application
	input         InputSource
	screenW       int
	screenH       int
	outsideW      int
	outsideH      int
	pending       []event.Event
	suspendOnBlur bool
}

// Option configures a Game
type Option func(g *Game)

// WithLogicalSize fixes the logical screen size returned by Layout.
// Without it the logical size follows the window.
func WithLogicalSize(w, h int) Option {
	return func(g *Game) {
		g.screenW = w
		g.screenH = h
	}
}

// WithSuspendOnBlur suspends the application while the window is unfocused
func WithSuspendOnBlur(enabled bool) Option {
	return func(g *Game) {
		g.suspendOnBlur = enabled
	}
}

// New creates a Game for a. The application is initialized immediately.
func New(a *app.Application, input InputSource, opts ...Option) *Game {
	g := &Game{
		app:           a,
		input:         input,
		suspendOnBlur: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.app.Initialize()
	return g
}

// Update routes polled events, then runs one frame.
// Returns ebiten.Termination once the application is done.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	events := append(g.pending, g.input.Poll()...)
	g.pending = nil
	for _, ev := range events {
		g.dispatch(ev)
		if g.app.Done() {
			return ebiten.Termination
		}
	}

	g.app.Frame()
	if g.app.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) dispatch(ev event.Event) {
	g.app.HandleEvent(ev)
	f, ok := ev.(event.Focused)
	if !ok || !g.suspendOnBlur {
		return
	}
	if f.Focused {
		g.app.Resume()
	} else {
		g.app.Suspend()
	}
}

// Draw exposes screen as the Screen resource and runs the draw hooks.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	ecs.Insert(g.app.World(), Screen{Image: screen})
	g.app.Draw()
}

// Layout records window size changes as Resized events for the next
// Update and returns the logical screen size.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH {
		g.outsideW, g.outsideH = outsideWidth, outsideHeight
		g.pending = append(g.pending, event.Resized{Width: outsideWidth, Height: outsideHeight})
	}
	if g.screenW > 0 && g.screenH > 0 {
		return g.screenW, g.screenH
	}
	return outsideWidth, outsideHeight
}
