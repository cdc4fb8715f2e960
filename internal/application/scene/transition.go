package scene

// TransitionKind tags the outcome a scene reports from HandleEvent or Update
type TransitionKind int

const (
	TransitionNone TransitionKind = iota
	TransitionPush
	TransitionSwitch
	TransitionPop
	TransitionQuit
)

// String returns the string representation of the transition kind
func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "None"
	case TransitionPush:
		return "Push"
	case TransitionSwitch:
		return "Switch"
	case TransitionPop:
		return "Pop"
	case TransitionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Transition is the value a scene returns to change the stack.
// The zero value is None. Push and Switch carry the new scene, whose
// ownership passes to the Stack.
type Transition struct {
	Kind  TransitionKind
	Scene Scene
}

// None keeps the stack as is
func None() Transition { return Transition{} }

// Push pauses the current scene and starts s on top of it
func Push(s Scene) Transition { return Transition{Kind: TransitionPush, Scene: s} }

// Switch asks to replace the top scene with s
func Switch(s Scene) Transition { return Transition{Kind: TransitionSwitch, Scene: s} }

// Pop asks to remove the top scene
func Pop() Transition { return Transition{Kind: TransitionPop} }

// Quit stops every scene and ends the application
func Quit() Transition { return Transition{Kind: TransitionQuit} }

// String returns the kind name
func (t Transition) String() string { return t.Kind.String() }
