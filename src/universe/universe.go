package universe

import (
	"errors"
	"time"
)

//Cell is the state of one grid position
//Color is an index into the palette and never takes part in the life rule
type Cell struct {
	Alive bool
	Color uint8
}

//Area is a rectangular block of cells stored row by row
type Area struct {
	Width    int
	Height   int
	Entities [][]Cell

	//Generation the cells belong to, set by Grid.Area
	Generation int
}

//Options represents the Universe's configurable options
type Options struct {
	Width          int
	Height         int
	Interval       time.Duration
	MaxSteps       int  //the scheduler stops itself at this generation, 0 means no limit
	StopWhenStable bool //the scheduler stops itself when a step changes nothing or kills everything
	PaletteSize    int
	Engine         string
	Workers        int
	Advanced       map[string]interface{} //advanced options (engine specific)
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	Generation    int
	LiveCells     int
	Changed       bool
	IterationTime time.Duration
	Running       bool
	Finished      bool
}

//Viewer is the interface to any Viewer - the object who displays the simulation data
//Refresh is called by the Scheduler after every step
type Viewer interface {
	Refresh(st Status)
}

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 50
	DefHeight             = 20
	DefPaletteSize        = 5
	DefWorkers            = 10 //default workers
	DefMinRowsPerWorker   = 3  //minimum rows for one worker
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrUnknownTemplate   = errors.New("unknown template")
)

var DefaultUniverseOptions = Options{
	Width:       DefWidth,
	Height:      DefHeight,
	Interval:    DefSimulationInterval,
	MaxSteps:    DefMaxSteps,
	PaletteSize: DefPaletteSize,
	Engine:      EngineSimple,
	Workers:     DefWorkers,
}

//createArea allocate the new area backed by one slice
func createArea(width int, height int) Area {

	area := Area{Width: width, Height: height, Entities: make([][]Cell, height)}
	b := make([]Cell, width*height)
	for i := range area.Entities {
		start := width * i
		area.Entities[i] = b[start : start+width : start+width]
	}
	return area
}

//Contains reports whether x,y is inside the area
func (a Area) Contains(x int, y int) bool {
	return x >= 0 && y >= 0 && x < a.Width && y < a.Height
}

//Alive reports whether the cell at x,y is alive, positions outside the area are dead
func (a Area) Alive(x int, y int) bool {
	return a.Contains(x, y) && a.Entities[y][x].Alive
}

//LiveCells calculates the count of live cells
func (a Area) LiveCells() int {
	liveCells := 0
	for y := range a.Entities {
		for x := range a.Entities[y] {
			if a.Entities[y][x].Alive {
				liveCells++
			}
		}
	}
	return liveCells
}

//clone returns a deep copy of the area
func (a Area) clone() Area {
	c := createArea(a.Width, a.Height)
	for y := range a.Entities {
		copy(c.Entities[y], a.Entities[y])
	}
	return c
}

//clear kills every cell of the area
func (a Area) clear() {
	for y := range a.Entities {
		for x := range a.Entities[y] {
			a.Entities[y][x] = Cell{}
		}
	}
}
