package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"colorlife/src/universe"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive board: the mouse click spawns a cell or cycles its color,
//the keys play, pause, step and change the speed
type ConsoleUI struct {
	grid  *universe.Grid
	sched *universe.Scheduler
	g     *gocui.Gui
	k     []keyBindings

	mu       sync.Mutex
	last     universe.Status
	speed    int
	template int

	liveFillers []string
	deadFiller  string
}

var (
	runningStateDescr = map[string]string{
		"paused":   aurora.Colorize("paused", aurora.BlueFg).String(),
		"running":  aurora.Colorize("running", aurora.CyanFg).String(),
		"finished": aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal creates the terminal board and registers it as the scheduler's viewer
func NewViewTerminal(grid *universe.Grid, sched *universe.Scheduler, speed int) *ConsoleUI {

	var err error
	t := ConsoleUI{
		grid:        grid,
		sched:       sched,
		speed:       speed,
		template:    -1,
		liveFillers: liveFillers(grid.Options().PaletteSize),
		deadFiller:  "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{gocui.KeySpace,
			"SPACE",
			"Play/Pause",
			t.cmdPlay,
			""},
		{'n',
			"N",
			"Next step",
			t.cmdNextRound,
			""},
		{'+',
			"+",
			"Faster",
			t.cmdFaster,
			""},
		{'-',
			"-",
			"Slower",
			t.cmdSlower,
			""},
		{'c',
			"C",
			"Clear",
			t.cmdClear,
			""},
		{'w',
			"W",
			"Settle with random",
			t.cmdSettleWithRandom,
			""},
		{'t',
			"T",
			"Next template",
			t.cmdNextTemplate,
			""},
		{gocui.MouseLeft,
			"MOUSE",
			"Spawn the cell / change its color",
			t.cmdMouseClick,
			"battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)
	sched.RegisterViewer(&t)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.sched.Stop()
	t.g.Close()
}

//Refresh is called by the scheduler after every step
func (t *ConsoleUI) Refresh(st universe.Status) {
	t.mu.Lock()
	t.last = st
	t.mu.Unlock()
	t.refresh()
}

func (t *ConsoleUI) refresh() {
	a := t.grid.Area()
	t.renderField(a)
	t.renderStatus(a)
}

func (t *ConsoleUI) renderField(a universe.Area) {

	t.g.Update(func(g *gocui.Gui) error {
		//the view is missing while the terminal is too small
		if v, e := g.View("battlefield"); e == nil {
			t.drawField(v, a)
		}
		return nil
	})
}

//drawField writes the area to the view, must run on the gui main loop
func (t *ConsoleUI) drawField(v *gocui.View, a universe.Area) {
	//the entire field is redrawing at once now
	v.Clear()

	crop := false
	maxW, maxH := v.Size()
	if a.Width > maxW || a.Height > maxH {
		crop = true
	}

	var b bytes.Buffer

	for i, l := range a.Entities {
		//discard the data outside the view area
		if i >= maxH {
			break
		}
		//line feed char
		if i != 0 {
			b.WriteByte(10)
		}
		if crop && i == (maxH-1) {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for j, e := range l {
			if j >= maxW {
				break
			}
			if e.Alive {
				b.WriteString(t.liveFillers[int(e.Color)%len(t.liveFillers)])
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
	_, _ = fmt.Fprint(v, b.String())
}

//mode describes the scheduler state for the status view
func (t *ConsoleUI) mode() string {
	t.mu.Lock()
	finished := t.last.Finished
	t.mu.Unlock()
	switch {
	case t.sched.IsRunning():
		return "running"
	case finished:
		return "finished"
	}
	return "paused"
}

//renderStatus takes the counters from the snapshot a so they match the drawn field
func (t *ConsoleUI) renderStatus(a universe.Area) {
	t.mu.Lock()
	s := t.last
	speed := t.speed
	t.mu.Unlock()
	mode := t.mode()
	generation, liveCells := a.Generation, a.LiveCells()
	interval := t.sched.Interval()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", generation))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", liveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[mode]))
			_, _ = fmt.Fprintln(v, t.renderProp("Speed", "%v (%v)", speed, interval))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.grid.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Engine", "%v", c.Engine))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
			_, _ = fmt.Fprintln(v, t.renderProp("Palette", "%v", strings.Join(t.liveFillers, "")))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil

	} else {
		if _, err := t.headerLayout(g, 3, "This is \"The Life\" game simulation"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus(t.grid.Area())
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Battle Field"
		v.Frame = true
	}
	if v, err := g.View("battlefield"); err == nil {
		t.drawField(v, t.grid.Area())
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			return v, fmt.Errorf("terminal width is too small: %v", maxX)
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdPlay(_ *gocui.View) error {
	if t.sched.IsRunning() {
		t.sched.Stop()
	} else {
		t.mu.Lock()
		speed := t.speed
		t.mu.Unlock()
		if err := t.sched.Start(universe.SpeedToInterval(speed)); err != nil {
			return err
		}
	}
	t.renderStatus(t.grid.Area())
	return nil
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.sched.StepOnce()
	return nil
}

func (t *ConsoleUI) cmdFaster(_ *gocui.View) error {
	return t.changeSpeed(10)
}

func (t *ConsoleUI) cmdSlower(_ *gocui.View) error {
	return t.changeSpeed(-10)
}

//changeSpeed moves the speed by delta and applies it without stopping the simulation
func (t *ConsoleUI) changeSpeed(delta int) error {
	t.mu.Lock()
	t.speed = max(universe.MinSpeed, min(universe.MaxSpeed, t.speed+delta))
	speed := t.speed
	t.mu.Unlock()
	if err := t.sched.SetInterval(universe.SpeedToInterval(speed)); err != nil {
		return err
	}
	t.renderStatus(t.grid.Area())
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.sched.Stop()
	t.grid.Reset()
	t.mu.Lock()
	t.last = universe.Status{}
	t.mu.Unlock()
	t.refresh()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.grid.SettleWithRandomData(time.Now().UnixNano())
	t.refresh()
	return nil
}

//cmdNextTemplate clears the field and settles the next known template
func (t *ConsoleUI) cmdNextTemplate(_ *gocui.View) error {
	tt := t.grid.Templates()
	if len(tt) == 0 {
		return nil
	}
	t.mu.Lock()
	t.template = (t.template + 1) % len(tt)
	tmpl := tt[t.template]
	t.mu.Unlock()
	t.grid.Reset()
	//a template larger than the field is skipped
	_ = t.grid.SettleTemplate(tmpl.Name)
	t.refresh()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	ox, oy := v.Origin()
	//clicks outside the field are ignored
	if _, err := t.grid.Toggle(cx+ox, cy+oy); err == nil {
		t.refresh()
	}
	return nil
}
