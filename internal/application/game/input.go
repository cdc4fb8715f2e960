package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/younwookim/crius/internal/application/event"
)

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// EbitenInput reads ebiten's input state once per tick and reports
// what changed as events
type EbitenInput struct {
	keys     []ebiten.Key
	cursorX  int
	cursorY  int
	focused  bool
	closing  bool
	hasMouse bool
}

// NewEbitenInput creates an input source assuming a focused window
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{focused: true}
}

// Poll returns the events of the current tick in a stable order:
// focus, close, keys, cursor, buttons, wheel
func (in *EbitenInput) Poll() []event.Event {
	var events []event.Event

	if focused := ebiten.IsFocused(); focused != in.focused {
		in.focused = focused
		events = append(events, event.Focused{Focused: focused})
	}

	closing := ebiten.IsWindowBeingClosed()
	if closing && !in.closing {
		events = append(events, event.CloseRequested{})
	}
	in.closing = closing

	mods := modifiers()
	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		events = append(events, event.KeyboardInput{Key: k, State: event.Pressed, Modifiers: mods})
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		events = append(events, event.KeyboardInput{Key: k, State: event.Released, Modifiers: mods})
	}

	x, y := ebiten.CursorPosition()
	if !in.hasMouse || x != in.cursorX || y != in.cursorY {
		in.hasMouse = true
		in.cursorX, in.cursorY = x, y
		events = append(events, event.CursorMoved{X: x, Y: y})
	}

	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			events = append(events, event.MouseInput{Button: b, State: event.Pressed, X: x, Y: y})
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			events = append(events, event.MouseInput{Button: b, State: event.Released, X: x, Y: y})
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		events = append(events, event.MouseWheel{DX: dx, DY: dy})
	}

	return events
}

func modifiers() event.Modifiers {
	return event.Modifiers{
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
		Meta:  ebiten.IsKeyPressed(ebiten.KeyMeta),
	}
}
