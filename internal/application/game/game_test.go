package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/crius/internal/application/app"
	"github.com/younwookim/crius/internal/application/event"
	"github.com/younwookim/crius/internal/application/scene"
	"github.com/younwookim/crius/internal/ecs"
	"github.com/younwookim/crius/internal/infrastructure/config"
)

// fakeInput replays queued event batches, one per poll
type fakeInput struct {
	batches [][]event.Event
	polls   int
}

func (f *fakeInput) Poll() []event.Event {
	f.polls++
	if len(f.batches) == 0 {
		return nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch
}

// mockScene is a test double for Scene interface
type mockScene struct {
	scene.Base
	startCalled  int
	pauseCalled  int
	resumeCalled int
	updateCalled int
	drawCalled   int
	events       []event.Event
	screen       *ebiten.Image
	quitOn       func(ev event.Event) bool
}

func (m *mockScene) Start(*ecs.Context)  { m.startCalled++ }
func (m *mockScene) Pause(*ecs.Context)  { m.pauseCalled++ }
func (m *mockScene) Resume(*ecs.Context) { m.resumeCalled++ }

func (m *mockScene) Update(*ecs.Context) scene.Transition {
	m.updateCalled++
	return scene.None()
}

func (m *mockScene) HandleEvent(_ *ecs.Context, ev event.Event) scene.Transition {
	m.events = append(m.events, ev)
	if m.quitOn != nil && m.quitOn(ev) {
		return scene.Quit()
	}
	return scene.None()
}

func (m *mockScene) Draw(ctx *ecs.Context) {
	m.drawCalled++
	if s, ok := ecs.LookupResource[Screen](ctx); ok {
		m.screen = s.Image
	}
}

func newGame(t *testing.T, s scene.Scene, input InputSource, opts ...Option) *Game {
	t.Helper()
	cfg := config.DefaultSettings()
	a, err := app.NewBuilder(s).WithSettings(&cfg).Build()
	require.NoError(t, err)
	return New(a, input, opts...)
}

func TestNew(t *testing.T) {
	s := &mockScene{}
	g := newGame(t, s, &fakeInput{})

	assert.NotNil(t, g)
	assert.Equal(t, 1, s.startCalled, "Application is initialized on construction")
}

func TestGame_Update_RoutesEventsThenFrame(t *testing.T) {
	s := &mockScene{}
	input := &fakeInput{batches: [][]event.Event{
		{event.KeyboardInput{Key: ebiten.KeyA, State: event.Pressed}, event.CursorMoved{X: 3, Y: 4}},
	}}
	g := newGame(t, s, input)

	err := g.Update()
	assert.NoError(t, err)
	err = g.Update()
	assert.NoError(t, err)

	assert.Equal(t, 2, input.polls)
	assert.Equal(t, 2, s.updateCalled, "One frame per Update")
	assert.Equal(t, []event.Event{
		event.KeyboardInput{Key: ebiten.KeyA, State: event.Pressed},
		event.CursorMoved{X: 3, Y: 4},
	}, s.events)
}

func TestGame_Update_QuitTerminates(t *testing.T) {
	s := &mockScene{quitOn: func(ev event.Event) bool {
		k, ok := ev.(event.KeyboardInput)
		return ok && k.Key == ebiten.KeyEscape
	}}
	input := &fakeInput{batches: [][]event.Event{
		{event.KeyboardInput{Key: ebiten.KeyEscape, State: event.Pressed}, event.CursorMoved{}},
	}}
	g := newGame(t, s, input)

	err := g.Update()

	assert.ErrorIs(t, err, ebiten.Termination)
	assert.Equal(t, 0, s.updateCalled, "No frame after quit")
	assert.Len(t, s.events, 1, "Events after quit are dropped")
}

func TestGame_Update_CloseRequested(t *testing.T) {
	s := &mockScene{}
	g := newGame(t, s, &fakeInput{batches: [][]event.Event{{event.CloseRequested{}}}})

	err := g.Update()

	assert.ErrorIs(t, err, ebiten.Termination)
	assert.Equal(t, []event.Event{event.Terminating}, s.events)
}

func TestGame_FocusSuspends(t *testing.T) {
	s := &mockScene{}
	input := &fakeInput{batches: [][]event.Event{
		{event.Focused{Focused: false}},
		nil,
		{event.Focused{Focused: true}},
	}}
	g := newGame(t, s, input)

	require.NoError(t, g.Update())
	assert.Equal(t, 1, s.pauseCalled)
	assert.Equal(t, 0, s.updateCalled, "Suspended frames are skipped")

	require.NoError(t, g.Update())
	assert.Equal(t, 0, s.updateCalled)

	require.NoError(t, g.Update())
	assert.Equal(t, 1, s.resumeCalled)
	assert.Equal(t, 1, s.updateCalled)
	assert.Equal(t, []event.Event{
		event.Focused{Focused: false}, event.Suspended,
		event.Focused{Focused: true}, event.Resumed,
	}, s.events)
}

func TestGame_FocusWithoutSuspend(t *testing.T) {
	s := &mockScene{}
	g := newGame(t, s, &fakeInput{batches: [][]event.Event{{event.Focused{Focused: false}}}}, WithSuspendOnBlur(false))

	require.NoError(t, g.Update())

	assert.Equal(t, 0, s.pauseCalled)
	assert.Equal(t, 1, s.updateCalled)
}

func TestGame_Draw_ExposesScreen(t *testing.T) {
	s := &mockScene{}
	g := newGame(t, s, &fakeInput{})

	img := ebiten.NewImage(320, 240)
	g.Draw(img)

	assert.Equal(t, 1, s.drawCalled, "Draw should delegate to the top scene")
	assert.Same(t, img, s.screen)
}

func TestGame_Layout(t *testing.T) {
	s := &mockScene{}
	g := newGame(t, s, &fakeInput{}, WithLogicalSize(320, 240))

	w, h := g.Layout(640, 480)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	g.Layout(640, 480)
	g.Layout(800, 600)
	require.NoError(t, g.Update())

	assert.Equal(t, []event.Event{
		event.Resized{Width: 640, Height: 480},
		event.Resized{Width: 800, Height: 600},
	}, s.events, "Only size changes are reported")
}

func TestGame_Layout_FollowsWindow(t *testing.T) {
	g := newGame(t, &mockScene{}, &fakeInput{})

	w, h := g.Layout(1024, 768)

	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestPlanWindow(t *testing.T) {
	ws := config.WindowSettings{
		Title:       "demo",
		Size:        &config.Size{Width: 640, Height: 480},
		MinSize:     &config.Size{Width: 320, Height: 240},
		Resizable:   true,
		Maximized:   true,
		Visible:     true,
		Transparent: true,
		Decorations: false,
		AlwaysOnTop: true,
	}

	p := planWindow(ws)

	assert.Equal(t, "demo", p.title)
	assert.Equal(t, 640, p.width)
	assert.Equal(t, 480, p.height)
	assert.Equal(t, []int{320, 240, -1, -1}, []int{p.minW, p.minH, p.maxW, p.maxH})
	assert.Equal(t, ebiten.WindowResizingModeEnabled, p.resizing)
	assert.True(t, p.maximized)
	assert.False(t, p.decorated)
	assert.True(t, p.floating)

	opts := p.runOptions()
	assert.True(t, opts.ScreenTransparent)
	assert.False(t, opts.InitUnfocused)
}

func TestPlanWindow_Defaults(t *testing.T) {
	p := planWindow(config.WindowSettings{})

	assert.Zero(t, p.width)
	assert.Equal(t, -1, p.maxW)
	assert.Equal(t, ebiten.WindowResizingModeDisabled, p.resizing)
	assert.True(t, p.runOptions().InitUnfocused, "A hidden window starts unfocused")
}
