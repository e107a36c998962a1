package universe

import (
	"errors"
	"sync"
	"testing"
	"time"
)

const waitTimeout = 2 * time.Second

type recorder struct {
	ch chan Status
}

func (r *recorder) Refresh(st Status) {
	r.ch <- st
}

func newTestScheduler(t *testing.T, o Options) (*Grid, *Scheduler, chan Status) {
	t.Helper()
	g := NewGrid(&o)
	stateCh := make(chan Status, 1000)
	return g, NewScheduler(g, stateCh), stateCh
}

func waitStatus(t *testing.T, stateCh chan Status) Status {
	t.Helper()
	select {
	case st := <-stateCh:
		return st
	case <-time.After(waitTimeout):
		t.Fatal("no status published")
	}
	return Status{}
}

func blinkerOptions() Options {
	o := DefaultUniverseOptions
	o.Width, o.Height = 5, 5
	o.MaxSteps = 0
	return o
}

func TestSchedulerInvalidInterval(t *testing.T) {
	_, s, _ := newTestScheduler(t, blinkerOptions())
	for _, d := range []time.Duration{0, -time.Millisecond} {
		if err := s.Start(d); !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("Start(%v) error %v, expected ErrInvalidInterval", d, err)
		}
		if err := s.SetInterval(d); !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("SetInterval(%v) error %v, expected ErrInvalidInterval", d, err)
		}
		if s.IsRunning() {
			t.Fatal("rejected Start started the scheduler")
		}
	}

	if err := s.Start(time.Hour); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()
	if err := s.SetInterval(-time.Second); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("SetInterval error %v, expected ErrInvalidInterval", err)
	}
	if err := s.Start(0); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("Start error %v, expected ErrInvalidInterval", err)
	}
	if !s.IsRunning() || s.Interval() != time.Hour {
		t.Fatalf("rejected calls changed the scheduler: running %v, interval %v", s.IsRunning(), s.Interval())
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	_, s, _ := newTestScheduler(t, blinkerOptions())
	s.Stop()
	if s.IsRunning() {
		t.Fatal("running after Stop on a stopped scheduler")
	}
	if err := s.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	s.Stop()
	s.Stop()
	if s.IsRunning() {
		t.Fatal("running after Stop")
	}
}

func TestSchedulerSteps(t *testing.T) {
	g, s, stateCh := newTestScheduler(t, blinkerOptions())
	if err := g.SettleTemplate("blinker"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if !s.IsRunning() {
		t.Fatal("not running after Start")
	}
	for i := 1; i <= 3; i++ {
		st := waitStatus(t, stateCh)
		if st.Generation != i || st.LiveCells != 3 {
			t.Fatalf("status %+v, expected generation %v with 3 live cells", st, i)
		}
	}
	s.Stop()

	published := 3 + len(stateCh)
	generation := g.Generation()
	if generation != published {
		t.Fatalf("generation %v, published %v statuses", generation, published)
	}
	time.Sleep(20 * time.Millisecond)
	if g.Generation() != generation || len(stateCh) != published-3 {
		t.Fatalf("the grid was stepped after Stop returned")
	}
}

func TestSchedulerStartWhileRunningUpdatesInterval(t *testing.T) {
	_, s, stateCh := newTestScheduler(t, blinkerOptions())
	if err := s.Start(time.Hour); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()
	if err := s.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if s.Interval() != time.Millisecond || !s.IsRunning() {
		t.Fatalf("interval %v, running %v", s.Interval(), s.IsRunning())
	}
	if st := waitStatus(t, stateCh); st.Generation != 1 {
		t.Fatalf("status %+v, expected generation 1", st)
	}
}

func TestSchedulerSetIntervalWhileRunning(t *testing.T) {
	_, s, stateCh := newTestScheduler(t, blinkerOptions())
	if err := s.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()
	waitStatus(t, stateCh)
	if err := s.SetInterval(time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := s.SetInterval(2 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if !s.IsRunning() {
		t.Fatal("SetInterval stopped the scheduler")
	}
	last := waitStatus(t, stateCh)
	for i := 0; i < 3; i++ {
		st := waitStatus(t, stateCh)
		if st.Generation != last.Generation+1 {
			t.Fatalf("generation %v after %v", st.Generation, last.Generation)
		}
		last = st
	}
}

func TestSchedulerSetIntervalWhileStopped(t *testing.T) {
	g, s, stateCh := newTestScheduler(t, blinkerOptions())
	if err := s.SetInterval(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if s.IsRunning() || s.Interval() != time.Millisecond {
		t.Fatalf("running %v, interval %v", s.IsRunning(), s.Interval())
	}
	time.Sleep(10 * time.Millisecond)
	if g.Generation() != 0 || len(stateCh) != 0 {
		t.Fatal("stopped scheduler stepped the grid")
	}
}

func TestSchedulerMaxSteps(t *testing.T) {
	o := blinkerOptions()
	o.MaxSteps = 5
	g, s, stateCh := newTestScheduler(t, o)
	if err := g.SettleTemplate("blinker"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	var st Status
	for !st.Finished {
		st = waitStatus(t, stateCh)
		if !st.Finished && !st.Running {
			t.Fatalf("status %+v is neither running nor finished", st)
		}
	}
	if st.Generation != 5 || st.Running {
		t.Fatalf("final status %+v, expected generation 5 and not running", st)
	}
	if s.IsRunning() {
		t.Fatal("running after the last step")
	}
	s.Stop()
	if g.Generation() != 5 {
		t.Fatalf("generation %v after finish", g.Generation())
	}
}

func TestSchedulerStopWhenStable(t *testing.T) {
	o := blinkerOptions()
	o.StopWhenStable = true
	g, s, stateCh := newTestScheduler(t, o)
	if err := g.SettleTemplate("block"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	st := waitStatus(t, stateCh)
	if !st.Finished || st.Generation != 1 || st.Changed {
		t.Fatalf("status %+v, expected to finish on the first unchanged step", st)
	}

	//the finished scheduler can be started again
	if err := s.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if st := waitStatus(t, stateCh); !st.Finished || st.Generation != 2 {
		t.Fatalf("status %+v after restart", st)
	}
	s.Stop()
}

func TestSchedulerViewers(t *testing.T) {
	g, s, stateCh := newTestScheduler(t, blinkerOptions())
	r := &recorder{ch: make(chan Status, 100)}
	s.RegisterViewer(r)
	if err := g.SettleTemplate("blinker"); err != nil {
		t.Fatal(err)
	}

	st := s.StepOnce()
	if st.Generation != 1 || st.Running {
		t.Fatalf("manual step status %+v", st)
	}
	if got := waitStatus(t, r.ch); got != st {
		t.Fatalf("viewer got %+v, expected %+v", got, st)
	}
	if got := waitStatus(t, stateCh); got != st {
		t.Fatalf("stateCh got %+v, expected %+v", got, st)
	}

	if err := s.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if got := waitStatus(t, r.ch); got.Generation != 2 || !got.Running {
		t.Fatalf("viewer got %+v, expected running generation 2", got)
	}
	s.Stop()
}

func TestSchedulerRestart(t *testing.T) {
	g, s, stateCh := newTestScheduler(t, blinkerOptions())
	for i := 0; i < 3; i++ {
		if err := s.Start(time.Millisecond); err != nil {
			t.Fatal(err)
		}
		waitStatus(t, stateCh)
		s.Stop()
		for len(stateCh) > 0 {
			<-stateCh
		}
		if s.IsRunning() {
			t.Fatal("running after Stop")
		}
	}
	if g.Generation() < 3 {
		t.Fatalf("generation %v, expected at least 3", g.Generation())
	}
}

func TestSchedulerDefaultInterval(t *testing.T) {
	o := blinkerOptions()
	o.Interval = 0
	_, s, _ := newTestScheduler(t, o)
	if s.Interval() != DefSimulationInterval {
		t.Fatalf("interval %v, expected %v", s.Interval(), DefSimulationInterval)
	}
}

func TestSchedulerConcurrentEdits(t *testing.T) {
	o := DefaultUniverseOptions
	o.Width, o.Height = 40, 30
	o.Engine = EngineMultithreaded
	o.Workers = 4
	o.MaxSteps = 0
	g, s, stateCh := newTestScheduler(t, o)
	g.SettleWithRandomData(11)

	//the published statuses are not checked here
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range stateCh {
		}
	}()

	if err := s.Start(time.Millisecond); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				if _, err := g.Toggle((w*7+i)%o.Width, (w*3+i)%o.Height); err != nil {
					t.Error(err)
					return
				}
				a := g.Area()
				if a.Width != o.Width || a.Height != o.Height || len(a.Entities) != o.Height {
					t.Errorf("snapshot %vx%v with %v rows", a.Width, a.Height, len(a.Entities))
					return
				}
				switch i % 500 {
				case 100:
					if err := s.SetInterval(time.Duration(w+1) * time.Millisecond); err != nil {
						t.Error(err)
						return
					}
				case 200:
					s.StepOnce()
				}
			}
		}(w)
	}
	wg.Wait()

	s.Stop()
	if s.IsRunning() {
		t.Fatal("running after Stop")
	}
	generation := g.Generation()
	if generation == 0 {
		t.Fatal("the grid was never stepped")
	}
	if a := g.Area(); a.LiveCells() != g.LiveCells() {
		t.Fatalf("snapshot has %v live cells, grid counts %v", a.LiveCells(), g.LiveCells())
	}
	time.Sleep(20 * time.Millisecond)
	if g.Generation() != generation {
		t.Fatalf("generation moved from %v to %v after Stop", generation, g.Generation())
	}
	close(stateCh)
	<-drained
}
