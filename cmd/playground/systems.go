package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/younwookim/crius/internal/application/app"
	"github.com/younwookim/crius/internal/application/schedule"
	"github.com/younwookim/crius/internal/ecs"
	"github.com/younwookim/crius/internal/infrastructure/config"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }

// bounds is the area bodies bounce in
type bounds struct{ W, H float64 }

// frameStats counts frames and received custom events
type frameStats struct {
	Frames int
	Events int
}

// customEvent is written on Space and read by the debug system
type customEvent struct {
	Frame int
}

const titleEvery = 60

// registerSystems adds the demo schedule:
//
//	stage 0: update_positions, count_frames, debug_system
//	stage 1: window_title (thread-affined)
func registerSystems(b *app.Builder, log zerolog.Logger, setTitle func(string)) *app.Builder {
	return b.
		WithSystem(schedule.System{
			Name: "update_positions",
			Access: ecs.NewAccess().
				Read(ecs.ResourceKey[bounds]()).
				Write(ecs.ComponentKey[position](), ecs.ComponentKey[velocity]()),
			Run: updatePositions,
		}).
		WithSystem(schedule.System{
			Name:   "count_frames",
			Access: ecs.NewAccess().Write(ecs.ResourceKey[frameStats]()),
			Run: func(ctx *ecs.Context) {
				ecs.WriteResource[frameStats](ctx).Frames++
			},
		}).
		WithSystemFunc(func(w *ecs.World) schedule.System {
			reader := ecs.Fetch[ecs.Channel[customEvent]](w).BindListener(64)
			return schedule.System{
				Name: "debug_system",
				Access: ecs.NewAccess().
					Read(ecs.ResourceKey[ecs.Channel[customEvent]]()).
					Write(ecs.ResourceKey[frameStats]()),
				Run: func(ctx *ecs.Context) {
					events := ecs.ReadResource[ecs.Channel[customEvent]](ctx).Drain(reader)
					ecs.WriteResource[frameStats](ctx).Events += len(events)
					for _, ev := range events {
						log.Info().Int("frame", ev.Frame).Msg("custom event")
					}
				},
			}
		}).
		Barrier().
		WithThreadLocalFn("window_title", func(w *ecs.World) {
			stats := ecs.Fetch[frameStats](w)
			if stats.Frames%titleEvery != 0 {
				return
			}
			settings := ecs.Fetch[config.Settings](w)
			setTitle(fmt.Sprintf("%s  %.0f TPS", settings.Window.Title, ebiten.ActualTPS()))
		})
}

func updatePositions(ctx *ecs.Context) {
	b := ecs.ReadResource[bounds](ctx)
	ecs.EachMut2(ctx, func(id ecs.EntityID, p *position, _ velocity) {
		v, _ := ecs.WriteComponent[velocity](ctx, id)
		p.X += v.X
		p.Y += v.Y
		if p.X < 0 || p.X+bodySize > b.W {
			v.X = -v.X
		}
		if p.Y < 0 || p.Y+bodySize > b.H {
			v.Y = -v.Y
		}
	})
}

// initialResources seeds the store before the first scene starts
func initialResources(b *app.Builder, settings *config.Settings) *app.Builder {
	w, h := 800.0, 600.0
	if s := settings.Window.Size; s != nil {
		w, h = float64(s.Width), float64(s.Height)
	}
	return b.
		WithResource(bounds{W: w, H: h}).
		WithResource(frameStats{}).
		WithResource(ecs.NewChannel[customEvent]())
}
