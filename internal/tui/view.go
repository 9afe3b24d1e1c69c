// Package tui is a terminal viewer and editor for the 3D simulation. It draws
// one z layer (or the column projection) and edits cells under a cursor.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"life3d/internal/core"
	"life3d/internal/patterns"
	"life3d/internal/render"
	"life3d/internal/sims/life3d"
)

// Shades index projection column counts; the last entry covers everything
// at or above its index.
const shades = " .:-=+*#%@"

var (
	styleDead   = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	styleAlive  = tcell.StyleDefault.Foreground(tcell.ColorSpringGreen)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHelp   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

type quitEvent struct{}

// View binds a tcell screen to a simulation.
type View struct {
	screen  tcell.Screen
	sim     *life3d.Simulation
	catalog *patterns.Catalog

	size    int
	layer   int
	mode    render.Mode
	cx, cy  int
	pattern string
	buttons tcell.ButtonMask
}

// New returns a view with the cursor and layer at the domain center.
func New(screen tcell.Screen, sim *life3d.Simulation, catalog *patterns.Catalog, pattern string) *View {
	size := sim.Size()
	return &View{
		screen:  screen,
		sim:     sim,
		catalog: catalog,
		size:    size,
		layer:   size / 2,
		cx:      size / 2,
		cy:      size / 2,
		pattern: pattern,
	}
}

// Layer returns the z layer shown in slice mode.
func (v *View) Layer() int { return v.layer }

// Cursor returns the cursor cell in the current layer.
func (v *View) Cursor() core.Point { return core.Point{X: v.cx, Y: v.cy, Z: v.layer} }

// Mode returns the active view mode.
func (v *View) Mode() render.Mode { return v.mode }

// Run draws and processes events until the user quits, ctx is cancelled or
// the screen is finalized. The screen must already be initialized.
func (v *View) Run(ctx context.Context) error {
	v.screen.EnableMouse()
	cancel := v.sim.Subscribe(func() {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer cancel()

	stop := context.AfterFunc(ctx, func() {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(quitEvent{}))
	})
	defer stop()

	for {
		v.Draw()
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			v.HandleMouse(ev)
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(quitEvent); ok {
				return ctx.Err()
			}
		}
	}
}

// HandleKey applies one key press and reports whether the user asked to quit.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.moveCursor(0, -1)
	case tcell.KeyDown:
		v.moveCursor(0, 1)
	case tcell.KeyLeft:
		v.moveCursor(-1, 0)
	case tcell.KeyRight:
		v.moveCursor(1, 0)
	case tcell.KeyPgUp:
		v.setLayer(v.layer + 1)
	case tcell.KeyPgDn:
		v.setLayer(v.layer - 1)
	case tcell.KeyEnter:
		v.sim.ToggleCell(v.cx, v.cy, v.layer)
	case tcell.KeyTab:
		v.sim.SetRule(core.NextPreset(v.sim.RuleName()))
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return false
}

func (v *View) handleRune(r rune) bool {
	switch r {
	case 'q':
		return true
	case ' ':
		v.sim.Toggle()
	case 'n':
		v.sim.Step()
	case 'r':
		v.sim.Reset()
	case 'f':
		v.sim.RandomFill(v.sim.Density())
	case 'p':
		v.pattern = v.catalog.Next(v.pattern)
		v.sim.LoadPattern(v.catalog.Get(v.pattern))
	case 'v':
		v.mode = 1 - v.mode
	case ']':
		v.setLayer(v.layer + 1)
	case '[':
		v.setLayer(v.layer - 1)
	case '+', '=':
		v.sim.SetFloatParameter("speed", v.sim.Speed()+1)
	case '-':
		v.sim.SetFloatParameter("speed", v.sim.Speed()-1)
	case 't':
		v.sim.ToggleCell(v.cx, v.cy, v.layer)
	}
	return false
}

// HandleMouse toggles the clicked cell in slice mode. Each cell is two
// columns wide.
func (v *View) HandleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0 && v.buttons&tcell.Button1 == 0
	v.buttons = ev.Buttons()
	if !pressed || v.mode != render.ModeSlice {
		return
	}
	px, py := ev.Position()
	x, y, ok := render.PickCell(px/2, py, 1, v.size)
	if !ok {
		return
	}
	v.cx, v.cy = x, y
	v.sim.ToggleCell(x, y, v.layer)
}

func (v *View) moveCursor(dx, dy int) {
	v.cx = (v.cx + dx + v.size) % v.size
	v.cy = (v.cy + dy + v.size) % v.size
}

func (v *View) setLayer(z int) {
	v.layer = (z%v.size + v.size) % v.size
}

// Draw renders the lattice, status line and key help.
func (v *View) Draw() {
	s := v.screen
	s.Clear()
	cells := v.sim.LiveCells()
	var mask []uint8
	if v.mode == render.ModeProjection {
		mask = render.ProjectionMask(cells, v.size)
	} else {
		mask = render.SliceMask(cells, v.size, v.layer)
	}
	for y := 0; y < v.size; y++ {
		for x := 0; x < v.size; x++ {
			r, style := v.glyph(mask[y*v.size+x])
			if v.mode == render.ModeSlice && x == v.cx && y == v.cy {
				style = style.Reverse(true)
			}
			s.SetContent(2*x, y, r, nil, style)
			s.SetContent(2*x+1, y, r, nil, style)
		}
	}
	st := v.sim.Stats()
	state := "paused"
	if st.Running {
		state = "running"
	}
	status := fmt.Sprintf("gen %d  pop %d  %s (%s)  %g gen/s  %s  z=%d/%d %s",
		st.Generation, st.Population, st.Rule, st.RuleName, st.Speed, state, v.layer, v.size, v.mode)
	drawText(s, 0, v.size+1, status, styleStatus)
	drawText(s, 0, v.size+2, "space play  n step  r reset  f fill  p pattern  tab rule  v view", styleHelp)
	drawText(s, 0, v.size+3, "arrows cursor  enter/t/click toggle  [ ] layer  +/- speed  q quit", styleHelp)
	s.Show()
}

func (v *View) glyph(n uint8) (rune, tcell.Style) {
	if v.mode == render.ModeProjection {
		i := min(int(n), len(shades)-1)
		if n == 0 {
			return '·', styleDead
		}
		return rune(shades[i]), styleAlive
	}
	if n != 0 {
		return '█', styleAlive
	}
	return '·', styleDead
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
