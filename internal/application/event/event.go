// Package event defines the engine's event representation delivered to scenes.
//
// Event is a closed set: application lifecycle events and platform
// window/input events. Platform drivers translate their native events into
// these values.
package event

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Event represents anything a scene can receive in HandleEvent
type Event interface {
	isEvent()
}

// ApplicationEvent is an application lifecycle event
type ApplicationEvent int

const (
	Suspended ApplicationEvent = iota
	Resumed
	Terminating
)

func (ApplicationEvent) isEvent() {}

// String returns the string representation of the application event
func (e ApplicationEvent) String() string {
	switch e {
	case Suspended:
		return "Suspended"
	case Resumed:
		return "Resumed"
	case Terminating:
		return "Terminating"
	default:
		return "Unknown"
	}
}

// WindowEvent marks events that originate from the platform window
type WindowEvent interface {
	Event
	isWindowEvent()
}

// Key is a keyboard key
type Key = ebiten.Key

// MouseButton is a mouse button
type MouseButton = ebiten.MouseButton

// ElementState tells whether a key or button went down or up
type ElementState int

const (
	Pressed ElementState = iota
	Released
)

// String returns the string representation of the element state
func (s ElementState) String() string {
	if s == Pressed {
		return "Pressed"
	}
	return "Released"
}

// Modifiers holds the modifier keys held during an input event
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// KeyboardInput is a key press or release
type KeyboardInput struct {
	Key       Key
	State     ElementState
	Modifiers Modifiers
}

// MouseInput is a mouse button press or release
type MouseInput struct {
	Button MouseButton
	State  ElementState
	X, Y   int
}

// CursorMoved reports the new cursor position in logical pixels
type CursorMoved struct {
	X, Y int
}

// MouseWheel reports a wheel delta
type MouseWheel struct {
	DX, DY float64
}

// Resized reports a new outside window size
type Resized struct {
	Width, Height int
}

// Focused reports window focus changes
type Focused struct {
	Focused bool
}

// CloseRequested is sent when the user asks to close the window
type CloseRequested struct{}

func (KeyboardInput) isEvent()  {}
func (MouseInput) isEvent()     {}
func (CursorMoved) isEvent()    {}
func (MouseWheel) isEvent()     {}
func (Resized) isEvent()        {}
func (Focused) isEvent()        {}
func (CloseRequested) isEvent() {}

func (KeyboardInput) isWindowEvent()  {}
func (MouseInput) isWindowEvent()     {}
func (CursorMoved) isWindowEvent()    {}
func (MouseWheel) isWindowEvent()     {}
func (Resized) isWindowEvent()        {}
func (Focused) isWindowEvent()        {}
func (CloseRequested) isWindowEvent() {}

// Describe returns a short human readable form used in logs
func Describe(ev Event) string {
	switch e := ev.(type) {
	case ApplicationEvent:
		return "application:" + e.String()
	case KeyboardInput:
		return fmt.Sprintf("key:%s:%s", e.Key, e.State)
	case MouseInput:
		return fmt.Sprintf("mouse:%d:%s", e.Button, e.State)
	case CursorMoved:
		return fmt.Sprintf("cursor:%d,%d", e.X, e.Y)
	case MouseWheel:
		return fmt.Sprintf("wheel:%g,%g", e.DX, e.DY)
	case Resized:
		return fmt.Sprintf("resized:%dx%d", e.Width, e.Height)
	case Focused:
		return fmt.Sprintf("focused:%t", e.Focused)
	case CloseRequested:
		return "close-requested"
	default:
		return "unknown"
	}
}
