package universe

import (
	"fmt"
	"sync"
	"time"
)

//Scheduler steps the Grid once per interval while it is running
//the status of every step is passed to the registered viewers and written to the stateCh
type Scheduler struct {
	grid    *Grid
	options Options
	stateCh chan Status

	mu       sync.Mutex
	running  bool
	interval time.Duration
	lastStep time.Time
	views    []Viewer
	resetCh  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
}

//NewScheduler creates the stopped Scheduler for the grid
//stateCh may be nil, otherwise it has to be drained by the caller
func NewScheduler(g *Grid, stateCh chan Status) *Scheduler {
	o := g.Options()
	if o.Interval <= 0 {
		o.Interval = DefSimulationInterval
	}
	return &Scheduler{
		grid:     g,
		options:  o,
		stateCh:  stateCh,
		interval: o.Interval,
	}
}

//RegisterViewer registers the viewer - the scheduler will call the viewer after each step
func (s *Scheduler) RegisterViewer(v Viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, v)
}

//IsRunning reports whether the steps are being scheduled
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

//Interval returns the current interval between the steps
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

//Start starts stepping the grid every interval, returns immediately
//if the scheduler is already running only the interval is changed
func (s *Scheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.setInterval(interval)
		return nil
	}
	s.interval = interval
	s.running = true
	s.lastStep = time.Now()
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.resetCh = make(chan struct{}, 1)
	go s.loop(s.stopCh, s.doneCh, s.resetCh)
	return nil
}

//SetInterval changes the interval, the pending step is rescheduled to interval after the previous one
func (s *Scheduler) SetInterval(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setInterval(interval)
	return nil
}

func (s *Scheduler) setInterval(interval time.Duration) {
	s.interval = interval
	if !s.running {
		return
	}
	select {
	case s.resetCh <- struct{}{}:
	default:
	}
}

//Stop stops the scheduling and waits for the loop to exit
//no step is done after Stop returns, so it must not be called from Viewer.Refresh
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.stopCh)
	}
	done := s.doneCh
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

//StepOnce does one step immediately and publishes its status
func (s *Scheduler) StepOnce() Status {
	st := s.grid.Step()
	s.mu.Lock()
	st.Running = s.running
	s.mu.Unlock()
	s.publish(st)
	return st
}

//loop - the main cycle, should start as a goroutine
//waits for the next tick, a new interval or the stop signal
func (s *Scheduler) loop(stop <-chan struct{}, done chan<- struct{}, reset <-chan struct{}) {
	defer close(done)
	for {
		timer := time.NewTimer(s.nextDelay())
		select {
		case <-stop:
			timer.Stop()
			return
		case <-reset:
			timer.Stop()
			continue
		case <-timer.C:
		}
		//stop wins over a tick which fired at the same moment
		select {
		case <-stop:
			return
		default:
		}
		if finished := s.tick(stop); finished {
			return
		}
	}
}

//nextDelay returns the time left until the next step is due
func (s *Scheduler) nextDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return max(0, s.interval-time.Since(s.lastStep))
}

//tick does one scheduled step and checks the finishing conditions
func (s *Scheduler) tick(stop <-chan struct{}) (finished bool) {
	st := s.grid.Step()

	maxSteps := s.options.MaxSteps
	if maxSteps > 0 && st.Generation >= maxSteps {
		finished = true
	}
	if s.options.StopWhenStable && (!st.Changed || st.LiveCells == 0) {
		finished = true
	}

	s.mu.Lock()
	s.lastStep = time.Now()
	if finished && s.running && s.stopCh == stop {
		s.running = false
		close(s.stopCh)
	}
	st.Running = s.running
	s.mu.Unlock()

	st.Finished = finished
	s.publish(st)
	return
}

//publish calls Refresh for all registered views and writes the status to the stateCh
func (s *Scheduler) publish(st Status) {
	s.mu.Lock()
	views := make([]Viewer, len(s.views))
	copy(views, s.views)
	s.mu.Unlock()
	for _, v := range views {
		v.Refresh(st)
	}
	if s.stateCh != nil {
		s.stateCh <- st
	}
}
