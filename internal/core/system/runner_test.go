package system

import (
	"slices"
	"testing"
	"time"
)

func TestRunnerPhaseOrder(t *testing.T) {
	r := NewRunner()
	var got []string
	add := func(p Phase, name string) {
		r.Register(Func{P: p, Fn: func(time.Duration) { got = append(got, name) }})
	}
	add(PhaseRender, "render")
	add(PhaseInput, "input")
	add(PhaseUpdate, "update-a")
	add(PhasePreUpdate, "dispatch")
	add(PhaseUpdate, "update-b")
	add(PhaseFixedUpdate, "fixed")

	r.Tick(time.Millisecond)
	want := []string{"input", "dispatch", "fixed", "update-a", "update-b", "render"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if r.Len() != 6 {
		t.Fatalf("expected 6 systems, got %d", r.Len())
	}
}

func TestRunnerTickPhase(t *testing.T) {
	r := NewRunner()
	var dts []time.Duration
	r.Register(Func{P: PhaseInput, Fn: func(dt time.Duration) { dts = append(dts, dt) }})
	r.Register(Func{P: PhaseRender, Fn: func(time.Duration) { t.Fatal("render ran in input-only tick") }})

	r.TickPhase(PhaseInput, 5*time.Millisecond)
	if len(dts) != 1 || dts[0] != 5*time.Millisecond {
		t.Fatalf("expected one input tick of 5ms, got %v", dts)
	}
}

func TestRunnerObserverTimesPhases(t *testing.T) {
	r := NewRunner()
	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }

	r.Register(Func{P: PhaseUpdate, Fn: func(time.Duration) { clock = clock.Add(3 * time.Millisecond) }})
	r.Register(Func{P: PhaseRender, Fn: func(time.Duration) { clock = clock.Add(time.Millisecond) }})

	took := map[Phase]time.Duration{}
	r.SetObserver(func(p Phase, d time.Duration) { took[p] += d })
	r.Tick(0)

	if len(took) != 2 {
		t.Fatalf("expected only non-empty phases observed, got %v", took)
	}
	if took[PhaseUpdate] != 3*time.Millisecond || took[PhaseRender] != time.Millisecond {
		t.Fatalf("unexpected timings %v", took)
	}
}

func TestRunnerRejectsUnknownPhase(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown phase")
		}
	}()
	NewRunner().Register(Func{P: Phase(42), Fn: func(time.Duration) {}})
}

func TestPhaseNames(t *testing.T) {
	var got []string
	for _, p := range Phases() {
		got = append(got, p.String())
	}
	want := []string{"input", "pre_update", "fixed_update", "update", "render"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if s := Phase(-1).String(); s != "phase(-1)" {
		t.Fatalf("unexpected name for invalid phase: %q", s)
	}
}
