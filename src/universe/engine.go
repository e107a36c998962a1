package universe

import "sort"

//nextIterationFunc calculates the generation following cur into next
//cur is read only, every cell of next is written
type nextIterationFunc func(cur Area, next Area) (liveCells int, changed bool)

const (
	EngineSimple        = "simple"
	EngineMultithreaded = "multithreaded"
)

var engines = map[string]func(o *Options) nextIterationFunc{
	EngineSimple:        newSimpleEngine,
	EngineMultithreaded: newMultithreadedEngine,
}

//Engines returns the sorted names of the available engines
func Engines() (engineNames []string) {
	engineNames = make([]string, 0, len(engines))
	for k := range engines {
		engineNames = append(engineNames, k)
	}
	sort.Strings(engineNames)
	return
}

//cellNextState calculates the next state for the cell
//survivors keep their color, newborn cells get the first palette entry
func cellNextState(a Area, x int, y int) Cell {
	//calculate neighbors
	liveNeighbours := 0
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			//skip my position
			if i == 0 && j == 0 {
				continue
			}
			//coordinates outside the area are dead
			if a.Alive(x+i, y+j) {
				liveNeighbours++
			}
		}
	}

	cell := a.Entities[y][x]
	if cell.Alive && (liveNeighbours == 2 || liveNeighbours == 3) {
		return cell
	}
	if !cell.Alive && liveNeighbours == 3 {
		return Cell{Alive: true}
	}
	return Cell{}
}
