//go:build ebiten

package app

import (
	"image/color"
	"sync/atomic"

	"life3d/internal/core"
	"life3d/internal/patterns"
	"life3d/internal/render"
	"life3d/internal/sims/life3d"
	"life3d/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 260

var keyHelp = []string{
	"space play/pause   n step",
	"r reset   f random fill",
	"p next pattern   tab next rule",
	"up/down layer   v slice/projection",
	"+/- speed   a active region",
	"click toggles a cell (slice view)",
	"q quit",
}

// Game adapts a 3D simulation to the ebiten.Game interface. It shows one z
// layer (or the column projection) and lets the user edit cells with the mouse.
type Game struct {
	sim     *life3d.Simulation
	catalog *patterns.Catalog
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	onColor  color.RGBA
	offColor color.RGBA
	palette  []color.RGBA

	size    int
	scale   int
	layer   int
	mode    render.Mode
	pattern string
	rule    string

	dirty atomic.Bool
	mask  []uint8
}

// New constructs a Game for the provided simulation.
func New(sim *life3d.Simulation, catalog *patterns.Catalog, scale int, pattern string) *Game {
	size := sim.Size()
	if scale <= 0 {
		scale = 1
	}
	g := &Game{
		sim:      sim,
		catalog:  catalog,
		painter:  render.NewGridPainter(size),
		hud:      ui.NewHUD(sim, hudWidth, keyHelp),
		overlay:  ui.NewOverlay(sim, size, scale),
		onColor:  color.RGBA{R: 0x00, G: 0xff, B: 0x88, A: 0xff},
		offColor: color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff},
		size:     size,
		scale:    scale,
		layer:    size / 2,
		pattern:  pattern,
		rule:     sim.RuleName(),
	}
	g.palette = render.DepthPalette(size, g.onColor, g.offColor)
	g.dirty.Store(true)
	sim.Subscribe(func() { g.dirty.Store(true) })
	return g
}

// Update handles per-frame input. Stepping itself runs on the simulation's
// own timer.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sim.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.sim.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.sim.RandomFill(g.sim.Density())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.pattern = g.catalog.Next(g.pattern)
		g.sim.LoadPattern(g.catalog.Get(g.pattern))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.rule = core.NextPreset(g.sim.RuleName())
		g.sim.SetRule(g.rule)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.setLayer(g.layer + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.setLayer(g.layer - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.mode = 1 - g.mode
		g.dirty.Store(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		g.sim.SetFloatParameter("speed", g.sim.Speed()+1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		g.sim.SetFloatParameter("speed", g.sim.Speed()-1)
	}
	if g.mode == render.ModeSlice && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if x, y, ok := render.PickCell(mx, my, g.scale, g.size); ok {
			g.sim.ToggleCell(x, y, g.layer)
		}
	}

	g.overlay.Update()
	g.hud.Update(g.size * g.scale)
	return nil
}

func (g *Game) setLayer(z int) {
	g.layer = (z%g.size + g.size) % g.size
	g.dirty.Store(true)
}

// Draw renders the current lattice view.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.dirty.Swap(false) || g.mask == nil {
		cells := g.sim.LiveCells()
		if g.mode == render.ModeProjection {
			g.mask = render.ProjectionMask(cells, g.size)
		} else {
			g.mask = render.SliceMask(cells, g.size, g.layer)
		}
	}
	if g.mode == render.ModeProjection {
		g.painter.BlitPalette(screen, g.mask, g.palette, g.scale)
	} else {
		g.painter.BlitBinary(screen, g.mask, g.onColor, g.offColor, g.scale)
	}
	g.overlay.Draw(screen, g.mode, g.layer)
	g.hud.Draw(screen, g.size*g.scale, g.size*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size*g.scale + g.hud.Width(), g.size * g.scale
}

// Layer returns the z layer shown in slice mode.
func (g *Game) Layer() int { return g.layer }
