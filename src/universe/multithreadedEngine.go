package universe

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

/*
	Engine with multithreaded computation algorithm
	the field is splitted into the row bands each of which is computed by individual goroutine
*/

//workArea describe the working area for the worker
type workArea struct {
	y1        int
	y2        int
	liveCells int
	changed   bool
}

//splitRows splits height rows into bands for at most workers goroutines
func splitRows(height int, workers int) []workArea {
	if workers <= 0 {
		workers = DefWorkers
	}
	linesPerWorker := height / workers
	if linesPerWorker < DefMinRowsPerWorker {
		linesPerWorker = DefMinRowsPerWorker
	} else if linesPerWorker*workers < height {
		linesPerWorker++
	}
	workAreas := make([]workArea, 0, workers)
	for y1 := 0; y1 < height; y1 += linesPerWorker {
		y2 := y1 + linesPerWorker - 1
		if y2 > height-1 {
			y2 = height - 1
		}
		workAreas = append(workAreas, workArea{y1: y1, y2: y2})
	}
	return workAreas
}

func newMultithreadedEngine(o *Options) nextIterationFunc {
	workAreas := splitRows(o.Height, o.Workers)
	//bands beyond the number of CPUs wait for a free goroutine
	limit := max(1, min(len(workAreas), runtime.NumCPU()))
	if o.Advanced != nil {
		o.Advanced["Workers"] = len(workAreas)
		o.Advanced["Parallel limit"] = limit
		if len(workAreas) > 0 {
			o.Advanced["Rows per worker"] = workAreas[0].y2 - workAreas[0].y1 + 1
		}
	}

	//nextIteration calculates next state for the universe
	//starts goroutines, waits for finishing and sums the metrics of the bands
	return func(cur Area, next Area) (liveCells int, changed bool) {
		var eg errgroup.Group
		eg.SetLimit(limit)
		for i := range workAreas {
			wa := &workAreas[i]
			eg.Go(func() error {
				calcArea(cur, next, wa)
				return nil
			})
		}
		//the bands never fail, an error here is a broken invariant
		if err := eg.Wait(); err != nil {
			panic(err)
		}
		for _, wa := range workAreas {
			liveCells += wa.liveCells
			changed = changed || wa.changed
		}
		return
	}
}

//calcArea calculates new states for the cells inside workArea
func calcArea(cur Area, next Area, wa *workArea) {
	wa.liveCells = 0
	wa.changed = false
	for y := wa.y1; y <= wa.y2; y++ {
		for x := range cur.Entities[y] {
			nextState := cellNextState(cur, x, y)
			if nextState.Alive {
				wa.liveCells++
			}
			wa.changed = wa.changed || nextState.Alive != cur.Entities[y][x].Alive
			next.Entities[y][x] = nextState
		}
	}
}
