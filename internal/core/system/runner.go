package system

import (
	"fmt"
	"time"
)

// Runner executes systems in phase order each frame. Systems sharing a
// phase keep their registration order.
type Runner struct {
	phases  [phaseCount][]System
	observe func(Phase, time.Duration)
	now     func() time.Time
}

func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// SetObserver installs fn to receive the wall time each non-empty phase
// took during Tick. nil disables timing.
func (r *Runner) SetObserver(fn func(p Phase, took time.Duration)) {
	r.observe = fn
}

// Register adds s to its phase. A phase outside the known set is a
// programming error and panics.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if !p.Valid() {
		panic(fmt.Sprintf("system: register in unknown %s", p))
	}
	r.phases[p] = append(r.phases[p], s)
}

// Len returns the number of registered systems.
func (r *Runner) Len() int {
	n := 0
	for _, sys := range r.phases {
		n += len(sys)
	}
	return n
}

func (r *Runner) Tick(dt time.Duration) {
	for p := range r.phases {
		r.TickPhase(Phase(p), dt)
	}
}

// TickPhase runs only the systems registered for phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	if !phase.Valid() || len(r.phases[phase]) == 0 {
		return
	}
	var start time.Time
	if r.observe != nil {
		start = r.now()
	}
	for _, s := range r.phases[phase] {
		s.Update(dt)
	}
	if r.observe != nil {
		r.observe(phase, r.now().Sub(start))
	}
}
