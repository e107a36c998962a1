package universe

/*
	Simple engine
	All cells state is calculated from the current buffer to the next one by a single goroutine
*/
func newSimpleEngine(_ *Options) nextIterationFunc {
	return simpleNextIteration
}

func simpleNextIteration(cur Area, next Area) (liveCells int, changed bool) {
	for y := range cur.Entities {
		for x := range cur.Entities[y] {
			nextState := cellNextState(cur, x, y)
			if nextState.Alive {
				liveCells++
			}
			changed = changed || nextState.Alive != cur.Entities[y][x].Alive
			next.Entities[y][x] = nextState
		}
	}
	return
}
