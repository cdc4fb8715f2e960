package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"
	"github.com/younwookim/crius/internal/application/event"
	"github.com/younwookim/crius/internal/application/game"
	"github.com/younwookim/crius/internal/application/scene"
	"github.com/younwookim/crius/internal/ecs"
)

// Colors for rendering
var (
	colorBG      = color.RGBA{26, 26, 46, 255}
	colorBody    = color.RGBA{100, 200, 100, 255}
	colorOverlay = color.RGBA{0, 0, 0, 160}
)

const bodySize = 8

// mainScene spawns bouncing bodies and reacts to keys:
// Escape quits, Space emits a customEvent, P pushes the overlay.
type mainScene struct {
	scene.Base
	log    zerolog.Logger
	bodies int
}

func newMainScene(log zerolog.Logger, bodies int) *mainScene {
	return &mainScene{log: log, bodies: bodies}
}

func (s *mainScene) Start(ctx *ecs.Context) {
	b := ecs.ReadResource[bounds](ctx)
	for i := 0; i < s.bodies; i++ {
		id := ctx.World().NewEntity()
		ecs.SetComponent(ctx, id, position{
			X: float64(i*37) + 10,
			Y: float64(i*23) + 10,
		})
		ecs.SetComponent(ctx, id, velocity{
			X: 1 + float64(i%3),
			Y: 1 + float64(i%2),
		})
	}
	s.log.Info().Int("bodies", s.bodies).Str("bounds", fmt.Sprintf("%gx%g", b.W, b.H)).Msg("main scene started")
}

func (s *mainScene) Stop(*ecs.Context) {
	s.log.Info().Msg("main scene stopped")
}

func (s *mainScene) Pause(*ecs.Context) {
	s.log.Debug().Msg("main scene paused")
}

func (s *mainScene) Resume(*ecs.Context) {
	s.log.Debug().Msg("main scene resumed")
}

func (s *mainScene) HandleEvent(ctx *ecs.Context, ev event.Event) scene.Transition {
	switch e := ev.(type) {
	case event.KeyboardInput:
		if e.State != event.Pressed {
			return scene.None()
		}
		switch e.Key {
		case ebiten.KeyEscape:
			return scene.Quit()
		case ebiten.KeySpace:
			stats := ecs.ReadResource[frameStats](ctx)
			if err := ecs.ReadResource[ecs.Channel[customEvent]](ctx).Write(customEvent{Frame: stats.Frames}); err != nil {
				s.log.Warn().Err(err).Msg("custom event dropped")
			}
		case ebiten.KeyP:
			return scene.Push(newOverlayScene(s.log))
		}
	case event.Resized:
		b := ecs.WriteResource[bounds](ctx)
		b.W, b.H = float64(e.Width), float64(e.Height)
	case event.ApplicationEvent:
		s.log.Debug().Stringer("event", e).Msg("application event")
	}
	return scene.None()
}

func (s *mainScene) PreDraw(ctx *ecs.Context) {
	if screen, ok := ecs.LookupResource[game.Screen](ctx); ok {
		screen.Image.Fill(colorBG)
	}
}

func (s *mainScene) Draw(ctx *ecs.Context) {
	screen, ok := ecs.LookupResource[game.Screen](ctx)
	if !ok {
		return
	}
	ecs.Each(ctx, func(_ ecs.EntityID, p position) {
		ebitenutil.DrawRect(screen.Image, p.X, p.Y, bodySize, bodySize, colorBody)
	})
}

func (s *mainScene) PostDraw(ctx *ecs.Context) {
	screen, ok := ecs.LookupResource[game.Screen](ctx)
	if !ok {
		return
	}
	stats := ecs.ReadResource[frameStats](ctx)
	msg := fmt.Sprintf("frame %d  events %d\nSpace: event  P: overlay  Esc: quit", stats.Frames, stats.Events)
	ebitenutil.DebugPrintAt(screen.Image, msg, 10, 10)
}

// overlayScene is pushed over the main scene. Pop is accepted but not
// applied by the stack, so the overlay stays until quit.
type overlayScene struct {
	scene.Base
	log zerolog.Logger
}

func newOverlayScene(log zerolog.Logger) *overlayScene {
	return &overlayScene{log: log}
}

func (s *overlayScene) Start(*ecs.Context) {
	s.log.Info().Msg("overlay pushed")
}

func (s *overlayScene) Stop(*ecs.Context) {
	s.log.Info().Msg("overlay stopped")
}

func (s *overlayScene) HandleEvent(_ *ecs.Context, ev event.Event) scene.Transition {
	k, ok := ev.(event.KeyboardInput)
	if !ok || k.State != event.Pressed {
		return scene.None()
	}
	switch k.Key {
	case ebiten.KeyEscape:
		return scene.Quit()
	case ebiten.KeyP:
		return scene.Pop()
	}
	return scene.None()
}

func (s *overlayScene) Draw(ctx *ecs.Context) {
	screen, ok := ecs.LookupResource[game.Screen](ctx)
	if !ok {
		return
	}
	w, h := screen.Image.Bounds().Dx(), screen.Image.Bounds().Dy()
	ebitenutil.DrawRect(screen.Image, 0, 0, float64(w), float64(h), colorOverlay)
	ebitenutil.DebugPrintAt(screen.Image, "overlay  Esc: quit", 10, h-20)
}
