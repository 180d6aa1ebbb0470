package scripting

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitForReload(w *Watcher, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if w.ReloadPending() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestWatcherFlagsLuaChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if w.ReloadPending() {
		t.Fatal("no reload expected before any change")
	}
	writeScript(t, dir, "main.lua", `feather.log("hi")`)
	if !waitForReload(w, 2*time.Second) {
		t.Fatal("expected reload after writing a script")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(t.TempDir()+"/missing", zap.NewNop()); err == nil {
		t.Fatal("expected error for missing dir")
	}
}
