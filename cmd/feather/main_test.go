package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MartinDew/FeatherEngine/internal/config"
	"github.com/MartinDew/FeatherEngine/internal/platform"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "feather "+version {
		t.Fatalf("unexpected version output %q", got)
	}
}

func TestRunHeadlessProject(t *testing.T) {
	t.Setenv("FEATHER_CONFIG", "")
	project := t.TempDir()
	replay := "events:\n  - {frame: 1, type: close_requested}\n"
	if err := os.WriteFile(filepath.Join(project, "session.yaml"), []byte(replay), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{project, "--replay", "session.yaml", "--max-frames", "100", "--log-level", "error"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feather.toml")
	src := "[engine]\nmax_frames = 3\n\n[window]\ntitle = \"Demo\"\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"-e", "--max-frames", "9", "--debug-addr", "127.0.0.1:0"}); err != nil {
		t.Fatal(err)
	}
	var f launchFlags
	f.editor, f.maxFrames, f.debugAddr = true, 9, "127.0.0.1:0"
	if err := f.apply(cmd, []string{"game"}, cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !cfg.Engine.Editor || cfg.Engine.MaxFrames != 9 || cfg.Debug.ListenAddr != "127.0.0.1:0" {
		t.Fatalf("flags not applied: %+v %+v", cfg.Engine, cfg.Debug)
	}
	if cfg.Engine.ProjectPath != "game" || cfg.Window.Title != "Demo" {
		t.Fatalf("file values lost: %+v %+v", cfg.Engine, cfg.Window)
	}
}

func TestInvalidWindowFlag(t *testing.T) {
	t.Setenv("FEATHER_CONFIG", "")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--window", "vr"})
	err := cmd.Execute()
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestWindowedModeUnsupported(t *testing.T) {
	t.Setenv("FEATHER_CONFIG", "")
	cmd := newRootCmd()
	cmd.SetArgs([]string{t.TempDir(), "--window", "windowed", "--log-level", "error"})
	err := cmd.Execute()
	if !errors.Is(err, platform.ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
}
