package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/crius/internal/infrastructure/config"
)

// windowPlan is the ebiten window state derived from settings.
// Limits of -1 mean unbounded.
type windowPlan struct {
	title       string
	width       int
	height      int
	minW, minH  int
	maxW, maxH  int
	resizing    ebiten.WindowResizingModeType
	maximized   bool
	decorated   bool
	floating    bool
	transparent bool
	unfocused   bool
}

func planWindow(ws config.WindowSettings) windowPlan {
	p := windowPlan{
		title:       ws.Title,
		minW:        -1,
		minH:        -1,
		maxW:        -1,
		maxH:        -1,
		resizing:    ebiten.WindowResizingModeDisabled,
		maximized:   ws.Maximized,
		decorated:   ws.Decorations,
		floating:    ws.AlwaysOnTop,
		transparent: ws.Transparent,
		unfocused:   !ws.Visible,
	}
	if ws.Size != nil {
		p.width, p.height = ws.Size.Width, ws.Size.Height
	}
	if ws.MinSize != nil {
		p.minW, p.minH = ws.MinSize.Width, ws.MinSize.Height
	}
	if ws.MaxSize != nil {
		p.maxW, p.maxH = ws.MaxSize.Width, ws.MaxSize.Height
	}
	if ws.Resizable {
		p.resizing = ebiten.WindowResizingModeEnabled
	}
	return p
}

func (p windowPlan) apply() {
	ebiten.SetWindowTitle(p.title)
	if p.width > 0 && p.height > 0 {
		ebiten.SetWindowSize(p.width, p.height)
	}
	ebiten.SetWindowSizeLimits(p.minW, p.minH, p.maxW, p.maxH)
	ebiten.SetWindowResizingMode(p.resizing)
	ebiten.SetWindowDecorated(p.decorated)
	ebiten.SetWindowFloating(p.floating)
	if p.maximized {
		ebiten.MaximizeWindow()
	}
	// CloseRequested is reported through the input source instead.
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
}

func (p windowPlan) runOptions() *ebiten.RunGameOptions {
	return &ebiten.RunGameOptions{
		ScreenTransparent: p.transparent,
		InitUnfocused:     p.unfocused,
	}
}

// Run applies the window settings and blocks in the ebiten main loop
// until the game terminates
func Run(g *Game, ws config.WindowSettings) error {
	p := planWindow(ws)
	p.apply()
	if err := ebiten.RunGameWithOptions(g, p.runOptions()); err != nil {
		return fmt.Errorf("failed to run game: %w", err)
	}
	return nil
}
