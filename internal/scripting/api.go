package scripting

import (
	"time"

	"github.com/MartinDew/FeatherEngine/internal/core/event"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerAPI installs the global "feather" table:
//
//	feather.on(name, fn) -> id        feather.off(name, id)
//	feather.on_update(fn(dt)) -> id   feather.off_update(id)
//	feather.post(name)                feather.window() -> {width, height, x, y}
//	feather.log(msg)
func (e *Engine) registerAPI() {
	t := e.vm.NewTable()
	e.vm.SetFuncs(t, map[string]lua.LGFunction{
		"on":         e.luaOn,
		"off":        e.luaOff,
		"on_update":  e.luaOnUpdate,
		"off_update": e.luaOffUpdate,
		"post":       e.luaPost,
		"window":     e.luaWindow,
		"log":        e.luaLog,
	})
	e.vm.SetGlobal("feather", t)
}

func checkNotification(L *lua.LState, n int) event.Notification {
	name := L.CheckString(n)
	tag, err := event.ParseNotification(name)
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return tag
}

func (e *Engine) luaOn(L *lua.LState) int {
	n := checkNotification(L, 1)
	fn := L.CheckFunction(2)
	vm := e.vm
	name := n.String()
	id, err := e.host.Subscribe(n, func() { e.call(vm, fn, name) })
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	e.subs = append(e.subs, subscription{n: n, id: id})
	L.Push(lua.LNumber(id))
	return 1
}

func (e *Engine) luaOff(L *lua.LState) int {
	n := checkNotification(L, 1)
	id := event.ID(L.CheckInt(2))
	if e.forget(subscription{n: n, id: id}) {
		e.host.Unsubscribe(n, id)
	}
	return 0
}

func (e *Engine) luaOnUpdate(L *lua.LState) int {
	fn := L.CheckFunction(1)
	vm := e.vm
	id := e.host.SubscribeUpdate(func(dt time.Duration) {
		e.call(vm, fn, "update", lua.LNumber(dt.Seconds()))
	})
	e.subs = append(e.subs, subscription{update: true, id: id})
	L.Push(lua.LNumber(id))
	return 1
}

func (e *Engine) luaOffUpdate(L *lua.LState) int {
	id := event.ID(L.CheckInt(1))
	if e.forget(subscription{update: true, id: id}) {
		e.host.UnsubscribeUpdate(id)
	}
	return 0
}

func (e *Engine) luaPost(L *lua.LState) int {
	n := checkNotification(L, 1)
	if err := e.host.Post(n); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (e *Engine) luaWindow(L *lua.LState) int {
	p := e.host.WindowProperties()
	t := L.NewTable()
	t.RawSetString("width", lua.LNumber(p.Width))
	t.RawSetString("height", lua.LNumber(p.Height))
	t.RawSetString("x", lua.LNumber(p.X))
	t.RawSetString("y", lua.LNumber(p.Y))
	L.Push(t)
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
