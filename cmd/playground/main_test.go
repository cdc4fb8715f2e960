package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/crius/internal/application/app"
	"github.com/younwookim/crius/internal/application/event"
	"github.com/younwookim/crius/internal/application/scene"
	"github.com/younwookim/crius/internal/ecs"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestPlanCommand(t *testing.T) {
	out := execute(t, "plan", "--log-level", "off")

	assert.Contains(t, out, "stage 0 systems=3")
	assert.Contains(t, out, "update_positions reads=[resource:main.bounds]")
	assert.Contains(t, out, "debug_system")
	assert.Contains(t, out, "after=[count_frames]")
	assert.Contains(t, out, "stage 1 systems=1")
	assert.Contains(t, out, "thread-affined window_title world")
}

func TestSettingsCommand(t *testing.T) {
	out := execute(t, "settings")

	assert.Contains(t, out, "name: playground")
	assert.Contains(t, out, "title: Crius Playground")
}

func TestSettingsCommand_Dir(t *testing.T) {
	dir := t.TempDir()
	doc := "application:\n  name: from-dir\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yml"), []byte(doc), 0o644))

	out := execute(t, "settings", "--settings-dir", dir)

	assert.Contains(t, out, "name: from-dir")
}

func TestSettingsCommand_MissingDir(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"settings", "--settings-dir", t.TempDir()})

	err := cmd.Execute()

	assert.ErrorContains(t, err, "failed to read settings.yml")
}

func TestRootCommand_InvalidEnv(t *testing.T) {
	t.Setenv("CRIUS_WORKERS", "abc")

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"settings"})

	err := cmd.Execute()

	assert.ErrorContains(t, err, "parse env")
}

func newPlayground(t *testing.T, bodies int) (*app.Application, *[]string) {
	t.Helper()
	opts := &rootOptions{Bodies: bodies}
	opts.Workers = 2
	settings, err := settingsLoader(opts).LoadSettings()
	require.NoError(t, err)

	var titles []string
	b := app.NewBuilder(newMainScene(zerolog.Nop(), bodies)).WithSettings(settings).WithWorkers(opts.Workers)
	initialResources(b, settings)
	registerSystems(b, zerolog.Nop(), func(s string) { titles = append(titles, s) })
	a, err := b.Build()
	require.NoError(t, err)
	return a, &titles
}

func TestPlayground_Frames(t *testing.T) {
	a, titles := newPlayground(t, 4)
	a.Initialize()

	assert.Equal(t, 4, a.World().EntityCount(), "Main scene spawns bodies on start")

	for i := 0; i < titleEvery; i++ {
		a.Frame()
	}

	stats := ecs.Fetch[frameStats](a.World())
	assert.Equal(t, titleEvery, stats.Frames)
	assert.Len(t, *titles, 1, "Title refreshed once per interval")
	assert.Contains(t, (*titles)[0], "Crius Playground")

	b := ecs.Fetch[bounds](a.World())
	ecs.Query(a.World(), func(_ ecs.EntityID, p *position) {
		assert.GreaterOrEqual(t, p.X, -float64(bodySize))
		assert.LessOrEqual(t, p.X, b.W+bodySize)
	})
}

func TestPlayground_CustomEvent(t *testing.T) {
	a, _ := newPlayground(t, 1)
	a.Initialize()

	a.HandleEvent(event.KeyboardInput{Key: ebiten.KeySpace, State: event.Pressed})
	a.HandleEvent(event.KeyboardInput{Key: ebiten.KeySpace, State: event.Released})
	a.Frame()

	assert.Equal(t, 1, ecs.Fetch[frameStats](a.World()).Events)
}

func TestPlayground_OverlayAndQuit(t *testing.T) {
	a, _ := newPlayground(t, 1)
	a.Initialize()

	tr := a.HandleEvent(event.KeyboardInput{Key: ebiten.KeyP, State: event.Pressed})
	assert.Equal(t, scene.TransitionPush, tr.Kind)
	assert.Equal(t, 2, a.Depth())

	tr = a.HandleEvent(event.KeyboardInput{Key: ebiten.KeyP, State: event.Pressed})
	assert.Equal(t, scene.TransitionPop, tr.Kind)
	assert.Equal(t, 2, a.Depth(), "Pop leaves the overlay in place")

	tr = a.HandleEvent(event.KeyboardInput{Key: ebiten.KeyEscape, State: event.Pressed})
	assert.Equal(t, scene.TransitionQuit, tr.Kind)
	assert.True(t, a.Done())
	assert.Equal(t, 0, a.Depth())
}

func TestPlayground_Resize(t *testing.T) {
	a, _ := newPlayground(t, 1)
	a.Initialize()

	a.HandleEvent(event.Resized{Width: 1024, Height: 768})

	assert.Equal(t, bounds{W: 1024, H: 768}, *ecs.Fetch[bounds](a.World()))
}

func TestUpdatePositions_Bounces(t *testing.T) {
	w := ecs.NewWorld()
	ecs.Insert(w, bounds{W: 100, H: 100})
	id := w.NewEntity()
	ecs.Set(w, id, position{X: 95, Y: 50})
	ecs.Set(w, id, velocity{X: 2, Y: 0})

	access := ecs.NewAccess().
		Read(ecs.ResourceKey[bounds]()).
		Write(ecs.ComponentKey[position](), ecs.ComponentKey[velocity]())
	ctx := ecs.NewSystemContext(w, "update_positions", access, &ecs.CommandBuffer{})
	updatePositions(ctx)
	ctx.Release()

	p, _ := ecs.Get[position](w, id)
	v, _ := ecs.Get[velocity](w, id)
	assert.Equal(t, 97.0, p.X)
	assert.Equal(t, -2.0, v.X, "Velocity flips at the edge")
}
