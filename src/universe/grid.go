package universe

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"
)

//Grid is the board of the simulation: a finite area of cells and its generation counter
//every mutation and every snapshot goes through the same mutex,
//so a reader never sees the area in the middle of a step
type Grid struct {
	options Options
	mu      sync.Mutex

	area       Area //current generation
	back       Area //buffer the next generation is written to
	generation int
	liveCells  int

	templates     map[string]Template
	nextIteration nextIterationFunc
}

//NewGrid creates the Grid with all the cells dead
//zero values of the options are replaced with defaults
func NewGrid(o *Options) *Grid {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	if opts.Width <= 0 {
		opts.Width = DefWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefHeight
	}
	if opts.PaletteSize <= 0 || opts.PaletteSize > 256 {
		opts.PaletteSize = DefPaletteSize
	}
	if _, ok := engines[opts.Engine]; !ok {
		opts.Engine = EngineSimple
	}
	opts.Advanced = make(map[string]interface{})
	opts.Advanced["engine"] = opts.Engine

	g := Grid{
		area:      createArea(opts.Width, opts.Height),
		back:      createArea(opts.Width, opts.Height),
		templates: map[string]Template{},
	}
	g.nextIteration = engines[opts.Engine](&opts)
	g.options = opts
	for _, tmpl := range builtinTemplates {
		g.templates[tmpl.Name] = tmpl
	}
	return &g
}

//Options returns the grid configuration with defaults applied
func (g *Grid) Options() Options {
	return g.options
}

//Size returns the width and the height of the grid
func (g *Grid) Size() (width int, height int) {
	return g.options.Width, g.options.Height
}

//Generation returns the number of steps done since creation or the last Reset
func (g *Grid) Generation() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generation
}

//LiveCells returns the count of live cells
func (g *Grid) LiveCells() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.liveCells
}

//Area returns a copy of the current generation
func (g *Grid) Area() Area {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.area.clone()
	a.Generation = g.generation
	return a
}

//Cell returns the state of the cell at x, y
func (g *Grid) Cell(x int, y int) (Cell, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.area.Contains(x, y) {
		return Cell{}, g.coordinateError(x, y)
	}
	return g.area.Entities[y][x], nil
}

//Toggle spawns the dead cell at x, y or moves the live one to the next palette color
func (g *Grid) Toggle(x int, y int) (Cell, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.area.Contains(x, y) {
		return Cell{}, g.coordinateError(x, y)
	}
	c := &g.area.Entities[y][x]
	if c.Alive {
		c.Color = uint8((int(c.Color) + 1) % g.options.PaletteSize)
	} else {
		*c = Cell{Alive: true}
		g.liveCells++
	}
	return *c, nil
}

//Step computes the next generation from the current one and replaces it
func (g *Grid) Step() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	start := time.Now()
	liveCells, changed := g.nextIteration(g.area, g.back)
	g.area, g.back = g.back, g.area
	g.generation++
	g.liveCells = liveCells
	return Status{
		Generation:    g.generation,
		LiveCells:     liveCells,
		Changed:       changed,
		IterationTime: time.Since(start),
	}
}

//Reset kills all cells and resets the generation counter
func (g *Grid) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

func (g *Grid) reset() {
	g.area.clear()
	g.generation = 0
	g.liveCells = 0
}

//Settle settles the universe with data
//vc - array of x,y coordinates, nothing is changed if any of them is outside the grid
func (g *Grid) Settle(vc [][]int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, v := range vc {
		if len(v) != 2 || !g.area.Contains(v[0], v[1]) {
			return fmt.Errorf("%w: %v outside %vx%v", ErrInvalidCoordinate, v, g.area.Width, g.area.Height)
		}
	}
	g.settle(vc)
	return nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (g *Grid) AddTemplate(tmpl Template) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.templates[tmpl.Name] = tmpl
}

//Templates returns the known templates sorted by name
func (g *Grid) Templates() []Template {
	g.mu.Lock()
	defer g.mu.Unlock()
	tt := make([]Template, 0, len(g.templates))
	for _, tmpl := range g.templates {
		tt = append(tt, tmpl)
	}
	sort.Slice(tt, func(i, j int) bool { return tt[i].Name < tt[j].Name })
	return tt
}

//SettleTemplate populates the universe with the seeding template placed in the center of the grid
func (g *Grid) SettleTemplate(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	tmpl, ok := g.templates[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	vc, err := centerTemplate(tmpl, g.area.Width, g.area.Height)
	if err != nil {
		return err
	}
	g.settle(vc)
	return nil
}

//SettleWithRandomData clears the grid and populates it with random data
func (g *Grid) SettleWithRandomData(seed int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	r := rand.New(rand.NewSource(seed))
	vc := make([][]int, 0, g.area.Width*g.area.Height)
	for i := 0; i < g.area.Width*g.area.Height; i++ {
		vc = append(vc, []int{r.Intn(g.area.Width), r.Intn(g.area.Height)})
	}
	g.settle(vc)
}

//settle makes the cells at the checked coordinates alive
func (g *Grid) settle(vc [][]int) {
	for _, v := range vc {
		c := &g.area.Entities[v[1]][v[0]]
		if !c.Alive {
			*c = Cell{Alive: true}
			g.liveCells++
		}
	}
}

func (g *Grid) coordinateError(x int, y int) error {
	return fmt.Errorf("%w: (%v, %v) outside %vx%v", ErrInvalidCoordinate, x, y, g.area.Width, g.area.Height)
}
