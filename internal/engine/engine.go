// Package engine owns the frame loop and the subsystems it drives.
package engine

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/MartinDew/FeatherEngine/internal/config"
	"github.com/MartinDew/FeatherEngine/internal/core/event"
	coresys "github.com/MartinDew/FeatherEngine/internal/core/system"
	"github.com/MartinDew/FeatherEngine/internal/debugsrv"
	"github.com/MartinDew/FeatherEngine/internal/metrics"
	"github.com/MartinDew/FeatherEngine/internal/platform"
	"github.com/MartinDew/FeatherEngine/internal/rendering"
	"github.com/MartinDew/FeatherEngine/internal/scripting"
	"github.com/MartinDew/FeatherEngine/internal/window"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Option customises an Engine at construction.
type Option func(*Engine)

// WithClock replaces time.Now as the frame clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetrics shares an existing collector set instead of creating one.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// Engine runs one project. Everything except the metrics registry belongs
// to the goroutine calling Run.
type Engine struct {
	cfg   *config.Config
	log   *zap.Logger
	runID ulid.ULID
	now   func() time.Time

	hub       *event.Hub
	window    *window.Window
	rendering *rendering.Server
	scripts   *scripting.Engine
	watcher   *scripting.Watcher
	metrics   *metrics.Metrics
	runner    *coresys.Runner
	limiter   *rate.Limiter

	update      event.Delegate[time.Duration]
	fixedUpdate event.Delegate[time.Duration]

	accumulator time.Duration
	frames      int
	running     bool
	err         error
}

// New builds the window on p and wires every subsystem. On error whatever
// was already created is released, p included.
func New(cfg *config.Config, p platform.Platform, log *zap.Logger, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:    cfg,
		log:    log,
		now:    time.Now,
		hub:    event.NewHub(),
		runner: coresys.NewRunner(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.metrics == nil {
		e.metrics = metrics.New()
	}
	e.hub.SetObserver(e.metrics.ObserveFire)
	e.runner.SetObserver(e.metrics.ObservePhase)

	id, err := ulid.New(ulid.Timestamp(e.now()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("run id: %w", err)
	}
	e.runID = id
	e.log = e.log.With(zap.String("run_id", id.String()))

	if err := e.init(p); err != nil {
		e.Close()
		return nil, err
	}
	e.registerSystems()
	return e, nil
}

func (e *Engine) init(p platform.Platform) error {
	mode, err := window.ParseFullscreenMode(e.cfg.Window.Fullscreen)
	if err != nil {
		p.Close()
		return err
	}
	w, err := window.New(p, e.hub, window.Options{
		Title:     e.cfg.Window.Title,
		Width:     e.cfg.Window.Width,
		Height:    e.cfg.Window.Height,
		Resizable: e.cfg.Window.Resizable || e.cfg.Engine.Editor,
	}, e.log.Named("window"))
	if err != nil {
		p.Close()
		return fmt.Errorf("window: %w", err)
	}
	e.window = w
	if mode != window.Windowed {
		if err := w.SetFullscreenMode(mode); err != nil {
			return fmt.Errorf("window: %w", err)
		}
	}

	e.rendering = rendering.NewServer(w, e.log.Named("rendering"))
	r, err := rendering.NewRenderer(e.cfg.Rendering.Renderer)
	if err != nil {
		return err
	}
	if err := e.rendering.UseRenderer(r); err != nil {
		return err
	}

	if dir := e.cfg.ResolvePath(e.cfg.Scripting.Dir); dir != "" {
		scripts, err := scripting.NewEngine(dir, e, e.log.Named("scripting"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		e.scripts = scripts
		if e.cfg.Scripting.HotReload {
			wt, err := scripting.NewWatcher(dir, e.log.Named("watcher"))
			if err != nil {
				return fmt.Errorf("scripting: %w", err)
			}
			e.watcher = wt
		}
	}

	if e.cfg.Engine.MaxFPS > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(e.cfg.Engine.MaxFPS), 1)
	}
	return nil
}

func (e *Engine) registerSystems() {
	e.runner.Register(coresys.Func{P: coresys.PhaseInput, Fn: e.input})
	e.runner.Register(coresys.Func{P: coresys.PhasePreUpdate, Fn: func(time.Duration) {
		e.hub.SwapBuffers()
		e.hub.DispatchAll()
	}})
	e.runner.Register(coresys.Func{P: coresys.PhaseFixedUpdate, Fn: e.fixedStep})
	e.runner.Register(coresys.Func{P: coresys.PhaseUpdate, Fn: e.update.Fire})
	e.runner.Register(coresys.Func{P: coresys.PhaseRender, Fn: e.render})
}

func (e *Engine) input(time.Duration) {
	if e.watcher != nil && e.watcher.ReloadPending() {
		err := e.scripts.Reload()
		e.metrics.ObserveReload(err)
		if err != nil {
			e.log.Error("script reload failed", zap.Error(err))
		}
	}
	if !e.window.Update() {
		e.running = false
	}
}

// fixedStep runs the fixed-update listeners once per elapsed step.
func (e *Engine) fixedStep(dt time.Duration) {
	step := e.cfg.Engine.FixedStep
	e.accumulator += dt
	for e.accumulator >= step {
		e.accumulator -= step
		e.fixedUpdate.Fire(step)
		e.metrics.FixedSteps.Inc()
	}
}

func (e *Engine) render(dt time.Duration) {
	if err := e.rendering.Update(dt); err != nil {
		e.err = err
		e.running = false
	}
	e.metrics.ObserveFrame(dt)
	e.metrics.ObserveListeners(e.hub)
}

// Run drives frames until the window closes, ctx is cancelled or the
// configured frame limit is reached. Cancellation is a clean stop.
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if addr := e.cfg.Debug.ListenAddr; addr != "" {
		srv := debugsrv.New(addr, e.metrics.Registry, e.log.Named("debugsrv"))
		if _, err := srv.Start(ctx); err != nil {
			return err
		}
	}

	e.log.Info("engine started",
		zap.String("project", e.cfg.Engine.ProjectPath),
		zap.Bool("editor", e.cfg.Engine.Editor),
		zap.Int("max_fps", e.cfg.Engine.MaxFPS),
	)

	e.running = true
	last := e.now()
	for e.running {
		if ctx.Err() != nil {
			e.log.Info("engine cancelled")
			break
		}
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				break
			}
		}
		now := e.now()
		dt := now.Sub(last)
		last = now

		e.runner.Tick(dt)
		e.frames++
		if e.err != nil {
			return fmt.Errorf("frame %d: %w", e.frames, e.err)
		}
		if limit := e.cfg.Engine.MaxFrames; limit > 0 && e.frames >= limit {
			break
		}
	}
	e.running = false
	e.log.Info("engine stopped", zap.Int("frames", e.frames))
	return nil
}

// Close releases every subsystem. Safe to call once after Run.
func (e *Engine) Close() error {
	var errs []error
	if e.watcher != nil {
		errs = append(errs, e.watcher.Stop())
		e.watcher = nil
	}
	if e.scripts != nil {
		e.scripts.Close()
		e.scripts = nil
	}
	if e.rendering != nil {
		errs = append(errs, e.rendering.Close())
		e.rendering = nil
	}
	e.update.Clear()
	e.fixedUpdate.Clear()
	if e.window != nil {
		errs = append(errs, e.window.Close())
		e.window = nil
	}
	return errors.Join(errs...)
}

func (e *Engine) RunID() ulid.ULID             { return e.runID }
func (e *Engine) Frames() int                  { return e.frames }
func (e *Engine) Hub() *event.Hub              { return e.hub }
func (e *Engine) Window() *window.Window       { return e.window }
func (e *Engine) Rendering() *rendering.Server { return e.rendering }
func (e *Engine) Scripts() *scripting.Engine   { return e.scripts }
func (e *Engine) Metrics() *metrics.Metrics    { return e.metrics }
func (e *Engine) Systems() *coresys.Runner     { return e.runner }
func (e *Engine) Config() *config.Config       { return e.cfg }
func (e *Engine) Accumulated() time.Duration   { return e.accumulator }

// OnUpdate registers fn to run once per frame with the frame delta.
func (e *Engine) OnUpdate(fn func(time.Duration)) event.ID {
	return e.update.Subscribe(fn)
}

// OnFixedUpdate registers fn to run once per fixed step.
func (e *Engine) OnFixedUpdate(fn func(time.Duration)) event.ID {
	return e.fixedUpdate.Subscribe(fn)
}

func (e *Engine) OffFixedUpdate(id event.ID) { e.fixedUpdate.Unsubscribe(id) }

// Host implementation used by scripts.

func (e *Engine) Subscribe(n event.Notification, fn func()) (event.ID, error) {
	return e.hub.Subscribe(n, fn)
}

func (e *Engine) Unsubscribe(n event.Notification, id event.ID) {
	e.hub.Unsubscribe(n, id)
}

func (e *Engine) Post(n event.Notification) error {
	return e.hub.Post(n)
}

func (e *Engine) SubscribeUpdate(fn func(time.Duration)) event.ID {
	return e.update.Subscribe(fn)
}

func (e *Engine) UnsubscribeUpdate(id event.ID) {
	e.update.Unsubscribe(id)
}

func (e *Engine) WindowProperties() window.Properties {
	return e.window.Properties()
}

var _ scripting.Host = (*Engine)(nil)
