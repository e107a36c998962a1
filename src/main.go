package main

import (
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"colorlife/src/gui"
	"colorlife/src/universe"
	"colorlife/src/view"

	"github.com/integrii/flaggy"
)

type EnvOptions struct {
	interactive bool
	window      bool
	randomData  bool
	seed        int64
	template    string
	speed       int
	scale       int
}

func main() {
	eo, uo := initOptions()

	var stateCh chan universe.Status

	if !eo.interactive && !eo.window {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	g := universe.NewGrid(uo)
	s := universe.NewScheduler(g, stateCh)

	if eo.randomData {
		g.SettleWithRandomData(eo.seed)
	} else if err := g.SettleTemplate(eo.template); err != nil {
		log.Fatal(err)
	}

	switch {
	case eo.window:
		if err := gui.Run(g, s, eo.scale, eo.speed); err != nil {
			log.Fatal(err)
		}
	case eo.interactive:
		v := view.NewViewTerminal(g, s, eo.speed)
		v.Start()
	default:
		out := view.NewConsoleOut(os.Stdout, 10)
		out.Register(g.Options())
		s.RegisterViewer(out)
		out.Start()
		if err := s.Start(s.Interval()); err != nil {
			log.Fatal(err)
		}
		for st := range stateCh {
			if st.Finished {
				break
			}
		}
		s.Stop()
	}
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	o := universe.DefaultUniverseOptions
	uo = &o
	eo = &EnvOptions{
		template: "sample",
		seed:     time.Now().UnixNano(),
		speed:    universe.DefSpeed,
		scale:    30,
	}
	flaggy.SetName("colorlife")
	flaggy.SetDescription("Conway's \"The Life\" game with colored cells")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&uo.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&uo.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 means no limit")
	flaggy.Bool(&uo.StopWhenStable, "", "stable", "Stop when a step changes nothing")
	flaggy.Int(&uo.PaletteSize, "p", "palette", "Number of colors a live cell cycles through")
	flaggy.String(&uo.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.Engines(), "|")+"]")
	flaggy.Int(&uo.Workers, "w", "workers", "Goroutines used by the multithreaded engine")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.window, "g", "gui", "Start interactive mode in a window")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.Int64(&eo.seed, "", "seed", "Seed of the random data")
	flaggy.String(&eo.template, "t", "template", "Template to settle with when random data is not requested")
	flaggy.Int(&eo.speed, "v", "speed", "Initial speed of the interactive modes, 0-100")
	flaggy.Int(&eo.scale, "", "scale", "Cell size in pixels of the window")

	flaggy.Parse()

	if !slices.Contains(universe.Engines(), uo.Engine) {
		flaggy.ShowHelpAndExit("unknown engine")
	}

	if !eo.interactive && !eo.window {
		flaggy.ShowHelp("")
	}

	return
}
