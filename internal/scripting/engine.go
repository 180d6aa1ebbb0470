package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/MartinDew/FeatherEngine/internal/core/event"
	"github.com/MartinDew/FeatherEngine/internal/window"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Host is what scripts can reach. The engine implements it.
type Host interface {
	Subscribe(n event.Notification, fn func()) (event.ID, error)
	Unsubscribe(n event.Notification, id event.ID)
	Post(n event.Notification) error
	SubscribeUpdate(fn func(dt time.Duration)) event.ID
	UnsubscribeUpdate(id event.ID)
	WindowProperties() window.Properties
}

// subscription is one listener a script registered through the host.
type subscription struct {
	update bool
	n      event.Notification
	id     event.ID
}

// Engine wraps a single gopher-lua VM whose scripts register listeners on
// the host. Single-goroutine access only (game loop). Every subscription a
// script makes is recorded so Reload can tear them all down.
type Engine struct {
	dir  string
	host Host
	log  *zap.Logger
	vm   *lua.LState
	subs []subscription
}

// NewEngine creates a Lua engine and loads every script in dir.
func NewEngine(dir string, host Host, log *zap.Logger) (*Engine, error) {
	e := &Engine{dir: dir, host: host, log: log}
	if err := e.load(); err != nil {
		e.vm.Close()
		return nil, err
	}
	return e, nil
}

// Subscriptions returns the number of listeners scripts currently hold.
func (e *Engine) Subscriptions() int { return len(e.subs) }

// Reload drops every script listener, discards the VM and loads the
// directory again. On failure the engine is left with no listeners.
func (e *Engine) Reload() error {
	e.unsubscribeAll()
	e.vm.Close()
	if err := e.load(); err != nil {
		return fmt.Errorf("reload scripts: %w", err)
	}
	e.log.Info("scripts reloaded", zap.Int("subscriptions", len(e.subs)))
	return nil
}

// Close drops every script listener and the VM.
func (e *Engine) Close() {
	e.unsubscribeAll()
	e.vm.Close()
}

// DoString runs a chunk in the current VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

func (e *Engine) load() error {
	e.vm = lua.NewState(lua.Options{SkipOpenLibs: false})
	e.vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e.registerAPI()

	if err := e.loadDir(e.dir); err != nil {
		e.unsubscribeAll()
		return fmt.Errorf("load scripts: %w", err)
	}
	return nil
}

// loadDir loads all .lua files in a directory in lexical order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) unsubscribeAll() {
	for _, s := range e.subs {
		if s.update {
			e.host.UnsubscribeUpdate(s.id)
		} else {
			e.host.Unsubscribe(s.n, s.id)
		}
	}
	e.subs = e.subs[:0]
}

func (e *Engine) forget(s subscription) bool {
	i := slices.Index(e.subs, s)
	if i < 0 {
		return false
	}
	e.subs = slices.Delete(e.subs, i, i+1)
	return true
}

// call runs a Lua listener. Errors are logged and the listener stays
// registered.
func (e *Engine) call(vm *lua.LState, fn *lua.LFunction, listener string, args ...lua.LValue) {
	if err := vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua listener error", zap.String("listener", listener), zap.Error(err))
	}
}
