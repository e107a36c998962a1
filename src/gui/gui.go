//go:build ebiten

package gui

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"colorlife/src/universe"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	palette = []color.RGBA{
		{0xff, 0xff, 0xff, 0xff},
		{0x9b, 0xff, 0x23, 0xff},
		{0x23, 0xee, 0xff, 0xff},
		{0xeb, 0x23, 0xff, 0xff},
		{0xff, 0xa5, 0x23, 0xff},
	}
	deadColor = color.Black
)

//statusHeight is the strip under the field used for the status line
const statusHeight = 16

//Game adapts the grid and its scheduler to the ebiten.Game interface
type Game struct {
	grid  *universe.Grid
	sched *universe.Scheduler
	scale int
	speed int
}

//New constructs a Game drawing every cell as a scale x scale square
func New(grid *universe.Grid, sched *universe.Scheduler, scale int, speed int) *Game {
	if scale <= 0 {
		scale = 1
	}
	return &Game{grid: grid, sched: sched, scale: scale, speed: speed}
}

//Run opens the window and blocks until it is closed
func Run(grid *universe.Grid, sched *universe.Scheduler, scale int, speed int) error {
	g := New(grid, sched, scale, speed)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle("colorlife")
	ebiten.SetWindowSize(w, h)
	err := ebiten.RunGame(g)
	sched.Stop()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

//Update handles the input, the simulation itself is advanced by the scheduler
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.sched.IsRunning() {
			g.sched.Stop()
		} else if err := g.sched.Start(universe.SpeedToInterval(g.speed)); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		if err := g.changeSpeed(10); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		if err := g.changeSpeed(-10); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.sched.StepOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.sched.Stop()
		g.grid.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.grid.SettleWithRandomData(time.Now().UnixNano())
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		//clicks on the status strip fall outside the grid and are ignored
		if mx >= 0 && my >= 0 {
			_, _ = g.grid.Toggle(mx/g.scale, my/g.scale)
		}
	}
	return nil
}

func (g *Game) changeSpeed(delta int) error {
	g.speed = max(universe.MinSpeed, min(universe.MaxSpeed, g.speed+delta))
	return g.sched.SetInterval(universe.SpeedToInterval(g.speed))
}

//Draw renders the current generation and the status line
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(deadColor)
	a := g.grid.Area()
	s := float32(g.scale)
	for y, row := range a.Entities {
		for x, c := range row {
			if !c.Alive {
				continue
			}
			clr := palette[int(c.Color)%len(palette)]
			vector.DrawFilledRect(screen, float32(x)*s, float32(y)*s, s-1, s-1, clr, false)
		}
	}
	mode := "paused"
	if g.sched.IsRunning() {
		mode = "running"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("gen %d  live %d  speed %d  %s", g.grid.Generation(), a.LiveCells(), g.speed, mode),
		2, a.Height*g.scale)
}

//Layout returns the logical screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.grid.Size()
	return w * g.scale, h*g.scale + statusHeight
}
