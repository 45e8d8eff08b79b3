// Package scope implements a graphical memory-heatmap viewer: one pixel
// per cell, intensity from the cell's low byte. It is a read-only consumer
// of debug.Program's inspection surface.
package scope

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/avalonbits/cellvm/debug"
	"github.com/avalonbits/cellvm/vm"
)

const (
	cols = 256
	rows = vm.PageSize / cols
)

// Game renders one page of memory as a heatmap. It never mutates prog.
type Game struct {
	prog *debug.Program
	page uint32
}

// New returns a Game rendering page 0 of prog.
func New(prog *debug.Program) *Game {
	ebiten.SetWindowSize(cols*2, rows*2)
	ebiten.SetWindowTitle("cellscope")
	return &Game{prog: prog}
}

// Layout returns the constant resolution of a single page; ebiten scales
// the window to it rather than the other way around.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cols, rows
}

// Update advances nothing on its own; the Program is driven by whatever
// host loop (TUI, CLI, test) is running Continue/StepOver concurrently.
// It exists only because ebiten.Game requires it.
func (g *Game) Update() error {
	return nil
}

// Draw paints one pixel per cell in the current page, intensity from the
// cell's low byte.
func (g *Game) Draw(screen *ebiten.Image) {
	base := g.page * vm.PageSize
	for i := 0; i < vm.PageSize; i++ {
		var v uint32
		if ptr := g.prog.GetMemoryPointer(base + uint32(i)); ptr != nil {
			v = *ptr
		}
		shade := byte(v)
		x, y := i%cols, i/cols
		screen.Set(x, y, color.Gray{Y: shade})
	}
}

// SetPage selects which page is rendered.
func (g *Game) SetPage(page uint32) {
	if page >= uint32(g.prog.GetPageCount()) {
		return
	}
	g.page = page
}

// Run starts the ebiten window loop and blocks until the window is closed.
func Run(prog *debug.Program) error {
	if err := ebiten.RunGame(New(prog)); err != nil {
		return fmt.Errorf("running memory scope: %w", err)
	}
	return nil
}
