package view

import (
	"fmt"
	"io"
	"sort"
	"time"

	"colorlife/src/universe"
)

//ConsoleOut prints the simulation progress, used in the non-interactive mode
type ConsoleOut struct {
	w         io.Writer
	every     int
	startTime time.Time
}

//NewConsoleOut creates the printer writing a progress line every n generations
func NewConsoleOut(w io.Writer, every int) *ConsoleOut {
	if every <= 0 {
		every = 10
	}
	return &ConsoleOut{w: w, every: every}
}

func (c *ConsoleOut) Refresh(st universe.Status) {
	if st.Finished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last generation": st.Generation,
			"Total time":      totalTime,
			"Live cells":      st.LiveCells,
		}
		_, _ = fmt.Fprintln(c.w, "\nFinished:")
		c.printHashData(resultData)
	} else if st.Running {
		if st.Generation%c.every == 0 {
			_, _ = fmt.Fprintf(c.w, "  Generations done: %v, live cells: %v\n", st.Generation, st.LiveCells)
		}
	}
}

//Register prints the running configuration
func (c *ConsoleOut) Register(o universe.Options) {
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	_, _ = fmt.Fprintf(c.w, "  Max generations: %v steps\n", o.MaxSteps)
	_, _ = fmt.Fprintf(c.w, "  Palette: %v colors\n", o.PaletteSize)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
