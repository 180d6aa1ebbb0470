package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/MartinDew/FeatherEngine/internal/core/event"
	"github.com/MartinDew/FeatherEngine/internal/core/system"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFireFromHub(t *testing.T) {
	m := New()
	h := event.NewHub()
	h.SetObserver(m.ObserveFire)
	h.Subscribe(event.WindowResized, func() {})
	h.Subscribe(event.WindowResized, func() {})

	h.Fire(event.WindowResized)
	h.Fire(event.WindowResized)
	h.Fire(event.WindowShown)

	if got := testutil.ToFloat64(m.NotificationsFired.WithLabelValues("window_resized")); got != 2 {
		t.Errorf("expected 2 resize fires, got %v", got)
	}
	if got := testutil.ToFloat64(m.ListenersNotified.WithLabelValues("window_resized")); got != 4 {
		t.Errorf("expected 4 listener calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.NotificationsFired.WithLabelValues("window_shown")); got != 1 {
		t.Errorf("expected 1 shown fire, got %v", got)
	}
}

func TestObserveListeners(t *testing.T) {
	m := New()
	h := event.NewHub()
	id, _ := h.Subscribe(event.WindowMoved, func() {})
	h.Subscribe(event.WindowMoved, func() {})
	m.ObserveListeners(h)
	if got := testutil.ToFloat64(m.Listeners.WithLabelValues("window_moved")); got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
	h.Unsubscribe(event.WindowMoved, id)
	m.ObserveListeners(h)
	if got := testutil.ToFloat64(m.Listeners.WithLabelValues("window_moved")); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if n := testutil.CollectAndCount(m.Listeners); n != int(event.NotificationCount) {
		t.Fatalf("expected one series per tag, got %d", n)
	}
}

func TestObserveFrameAndReload(t *testing.T) {
	m := New()
	m.ObserveFrame(16 * time.Millisecond)
	m.ObserveFrame(17 * time.Millisecond)
	m.ObserveReload(nil)
	m.ObserveReload(errors.New("syntax error"))
	m.ObserveReload(nil)

	if got := testutil.ToFloat64(m.Frames); got != 2 {
		t.Errorf("expected 2 frames, got %v", got)
	}
	if got := testutil.ToFloat64(m.ScriptReloads.WithLabelValues("ok")); got != 2 {
		t.Errorf("expected 2 ok reloads, got %v", got)
	}
	if got := testutil.ToFloat64(m.ScriptReloads.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed reload, got %v", got)
	}
	if n, err := testutil.GatherAndCount(m.Registry, "feather_loop_frame_seconds"); err != nil || n != 1 {
		t.Errorf("expected frame histogram registered, got %d (%v)", n, err)
	}
}

func TestObservePhaseFromRunner(t *testing.T) {
	m := New()
	r := system.NewRunner()
	r.SetObserver(m.ObservePhase)
	r.Register(system.Func{P: system.PhaseUpdate, Fn: func(time.Duration) {}})
	r.Register(system.Func{P: system.PhaseRender, Fn: func(time.Duration) {}})
	r.Tick(time.Millisecond)
	r.Tick(time.Millisecond)

	if n := testutil.CollectAndCount(m.PhaseSeconds); n != 2 {
		t.Fatalf("expected a series per non-empty phase, got %d", n)
	}
	if n, err := testutil.GatherAndCount(m.Registry, "feather_loop_phase_seconds"); err != nil || n != 2 {
		t.Fatalf("expected phase histogram registered, got %d (%v)", n, err)
	}
}
