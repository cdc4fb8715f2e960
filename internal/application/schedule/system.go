// Package schedule runs per-frame systems against the shared World.
//
// Systems are grouped into stages separated by barriers. Within a stage,
// systems whose declared accesses do not conflict run concurrently on a
// bounded worker pool; conflicting systems run in declaration order.
// Thread-affined systems always run alone on the goroutine that calls
// Execute.
package schedule

import (
	"fmt"

	"github.com/younwookim/crius/internal/ecs"
)

// System is a named unit of per-frame logic with a declared access set
type System struct {
	Name   string
	Access ecs.Access
	Run    func(ctx *ecs.Context)
}

func (s System) validate() {
	if s.Name == "" {
		panic("schedule: system without name")
	}
	if s.Run == nil {
		panic(fmt.Sprintf("schedule: system %s has no Run func", s.Name))
	}
}

// SystemPanic is raised by Execute when a system panics.
// It carries the original panic value and the stack of the failing goroutine.
type SystemPanic struct {
	System string
	Stage  int
	Value  any
	Stack  []byte
}

func (p *SystemPanic) Error() string {
	return fmt.Sprintf("system %s panicked in stage %d: %v", p.System, p.Stage, p.Value)
}

// Unwrap returns the panic value when it is an error
func (p *SystemPanic) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}
