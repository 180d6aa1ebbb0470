package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MartinDew/FeatherEngine/internal/core/event"
	"github.com/MartinDew/FeatherEngine/internal/window"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap/zaptest"
)

// fakeHost is a Hub plus an update delegate, like the engine.
type fakeHost struct {
	hub    *event.Hub
	update event.Delegate[time.Duration]
	props  window.Properties
}

func newFakeHost() *fakeHost {
	return &fakeHost{hub: event.NewHub(), props: window.Properties{Width: 800, Height: 600, X: 1, Y: 2}}
}

func (h *fakeHost) Subscribe(n event.Notification, fn func()) (event.ID, error) {
	return h.hub.Subscribe(n, fn)
}

func (h *fakeHost) Unsubscribe(n event.Notification, id event.ID) {
	h.hub.Unsubscribe(n, id)
}

func (h *fakeHost) Post(n event.Notification) error {
	return h.hub.Post(n)
}

func (h *fakeHost) SubscribeUpdate(fn func(time.Duration)) event.ID {
	return h.update.Subscribe(fn)
}

func (h *fakeHost) UnsubscribeUpdate(id event.ID) {
	h.update.Unsubscribe(id)
}

func (h *fakeHost) WindowProperties() window.Properties {
	return h.props
}

func writeScript(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func globalNumber(t *testing.T, e *Engine, name string) float64 {
	t.Helper()
	n, ok := e.vm.GetGlobal(name).(lua.LNumber)
	if !ok {
		t.Fatalf("global %s is not a number: %v", name, e.vm.GetGlobal(name))
	}
	return float64(n)
}

func TestScriptsSubscribeToNotifications(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a_counter.lua", `
resized = 0
feather.on("window_resized", function() resized = resized + 1 end)
`)
	writeScript(t, dir, "b_size.lua", `
width = 0
feather.on("window_resized", function()
  local w = feather.window()
  width = w.width
end)
`)
	writeScript(t, dir, "notes.txt", "not lua")

	host := newFakeHost()
	e, err := NewEngine(dir, host, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if e.Subscriptions() != 2 || host.hub.Listeners(event.WindowResized) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", e.Subscriptions())
	}
	host.hub.Fire(event.WindowResized)
	host.hub.Fire(event.WindowResized)
	if got := globalNumber(t, e, "resized"); got != 2 {
		t.Fatalf("expected resized=2, got %v", got)
	}
	if got := globalNumber(t, e, "width"); got != 800 {
		t.Fatalf("expected width=800, got %v", got)
	}
}

func TestScriptOffAndUpdate(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "main.lua", `
ticks = 0
elapsed = 0
local id
id = feather.on_update(function(dt)
  ticks = ticks + 1
  elapsed = elapsed + dt
  if ticks == 2 then feather.off_update(id) end
end)
shown = 0
local sid = feather.on("window_shown", function() shown = shown + 1 end)
feather.off("window_shown", sid)
feather.off("window_shown", sid)
`)
	host := newFakeHost()
	e, err := NewEngine(dir, host, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	for range 3 {
		host.update.Fire(500 * time.Millisecond)
	}
	host.hub.Fire(event.WindowShown)

	if got := globalNumber(t, e, "ticks"); got != 2 {
		t.Fatalf("expected update listener to stop after 2 ticks, got %v", got)
	}
	if got := globalNumber(t, e, "elapsed"); got != 1 {
		t.Fatalf("expected 1s elapsed, got %v", got)
	}
	if got := globalNumber(t, e, "shown"); got != 0 {
		t.Fatalf("expected removed listener silent, got %v", got)
	}
	if e.Subscriptions() != 0 || host.update.Len() != 0 {
		t.Fatalf("expected no live script listeners, got %d/%d", e.Subscriptions(), host.update.Len())
	}
}

func TestScriptPostIsDeferred(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "post.lua", `
hidden = 0
feather.on("window_shown", function() feather.post("window_hidden") end)
feather.on("window_hidden", function() hidden = hidden + 1 end)
`)
	host := newFakeHost()
	e, err := NewEngine(dir, host, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	host.hub.Fire(event.WindowShown)
	if host.hub.Pending() != 1 {
		t.Fatalf("expected one posted notification, got %d", host.hub.Pending())
	}
	host.hub.SwapBuffers()
	host.hub.DispatchAll()
	if got := globalNumber(t, e, "hidden"); got != 1 {
		t.Fatalf("expected hidden=1, got %v", got)
	}
}

func TestReloadReplacesListeners(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "main.lua", `feather.on("window_moved", function() end)`)
	host := newFakeHost()
	e, err := NewEngine(dir, host, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	writeScript(t, dir, "main.lua", `
feather.on("window_shown", function() end)
feather.on("window_shown", function() end)
`)
	if err := e.Reload(); err != nil {
		t.Fatal(err)
	}
	if host.hub.Listeners(event.WindowMoved) != 0 {
		t.Fatal("old listener survived reload")
	}
	if host.hub.Listeners(event.WindowShown) != 2 || e.Subscriptions() != 2 {
		t.Fatalf("expected 2 new listeners, got %d", host.hub.Listeners(event.WindowShown))
	}

	writeScript(t, dir, "main.lua", `
feather.on("window_shown", function() end)
error("boom")
`)
	if err := e.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if host.hub.Listeners(event.WindowShown) != 0 || e.Subscriptions() != 0 {
		t.Fatal("failed reload must leave no listeners behind")
	}
}

func TestBadScriptCalls(t *testing.T) {
	host := newFakeHost()
	e, err := NewEngine(filepath.Join(t.TempDir(), "missing"), host, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("missing dir must be skipped, got %v", err)
	}
	defer e.Close()

	if err := e.DoString(`feather.on("window_exploded", function() end)`); err == nil {
		t.Fatal("expected error for unknown notification")
	}
	if err := e.DoString(`feather.on("window_shown", 42)`); err == nil {
		t.Fatal("expected error for non-function listener")
	}
	if err := e.DoString(`feather.post("nope")`); err == nil {
		t.Fatal("expected error for unknown post")
	}
	if e.Subscriptions() != 0 {
		t.Fatalf("failed calls must not subscribe, got %d", e.Subscriptions())
	}
}

func TestListenerErrorIsContained(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "main.lua", `
after = 0
feather.on("window_shown", function() error("listener failed") end)
feather.on("window_shown", function() after = after + 1 end)
`)
	host := newFakeHost()
	e, err := NewEngine(dir, host, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	host.hub.Fire(event.WindowShown)
	if got := globalNumber(t, e, "after"); got != 1 {
		t.Fatalf("expected later listener to run, got %v", got)
	}
	if host.hub.Listeners(event.WindowShown) != 2 {
		t.Fatal("failing listener must stay registered")
	}
}

func TestNewEngineFailsOnBadScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", `this is not lua`)
	if _, err := NewEngine(dir, newFakeHost(), zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected load error")
	}
}
