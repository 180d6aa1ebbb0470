package system

import (
	"fmt"
	"time"
)

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput       Phase = iota // 0: script reloads, platform event pump
	PhasePreUpdate                // 1: notifications posted last frame
	PhaseFixedUpdate              // 2: fixed-step simulation
	PhaseUpdate                   // 3: per-frame logic
	PhaseRender                   // 4: rendering server
	phaseCount
)

var phaseNames = [phaseCount]string{
	PhaseInput:       "input",
	PhasePreUpdate:   "pre_update",
	PhaseFixedUpdate: "fixed_update",
	PhaseUpdate:      "update",
	PhaseRender:      "render",
}

func (p Phase) Valid() bool { return p >= 0 && p < phaseCount }

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Phases returns every phase in execution order.
func Phases() []Phase {
	out := make([]Phase, phaseCount)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a plain function to a System in the given phase.
type Func struct {
	P  Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase            { return f.P }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }
