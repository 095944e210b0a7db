// Package app runs the window loop: clock, engine, renderer, repeat.
package app

import (
	"log/slog"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"solar-system/internal/animation"
	"solar-system/internal/clock"
	"solar-system/internal/config"
	"solar-system/internal/graphics/renderer"
	"solar-system/internal/profiling"
)

// App owns the per-frame loop
type App struct {
	window   *glfw.Window
	engine   *animation.Engine
	renderer renderer.Renderer

	clock      *clock.Clock
	fpsLimiter *clock.FPSLimiter
	fps        *fpsCounter
	slowFrame  time.Duration
}

// New wires the window callbacks to r and the clock. Settings are read
// from config.Current, so config.Apply must run first.
func New(window *glfw.Window, engine *animation.Engine, r renderer.Renderer) *App {
	s := config.Current()
	a := &App{
		window:     window,
		engine:     engine,
		renderer:   r,
		clock:      clock.New(),
		fpsLimiter: clock.NewFPSLimiter(),
		fps:        newFPSCounter(time.Now()),
		slowFrame:  s.SlowFrame(),
	}

	width, height := window.GetFramebufferSize()
	r.SetViewport(width, height)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		a.renderer.SetViewport(width, height)
	})
	window.SetKeyCallback(a.onKey)
	return a
}

// Clock exposes the simulation clock, e.g. to start at a given time
func (a *App) Clock() *clock.Clock { return a.clock }

// Run loops until the window is closed
func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	start := time.Now()

	glfw.PollEvents()

	t := a.clock.Elapsed()
	stop := profiling.Track("animation.Frame")
	frame := a.engine.Frame(t)
	stop()

	a.renderer.Render(frame)

	stop = profiling.Track("window.SwapBuffers")
	a.window.SwapBuffers()
	stop()

	if d := time.Since(start); d > a.slowFrame {
		slog.Warn("slow frame", "duration", d, "render", profiling.SumWithPrefix("renderer."), "top", profiling.TopN(5))
	}
	if fps, ok := a.fps.tick(time.Now()); ok {
		slog.Debug("fps", "fps", fps, "t", t, "paused", a.clock.Paused())
	}

	a.fpsLimiter.Wait(a.clock.Paused())
}

func (a *App) onKey(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape, glfw.KeyQ:
		w.SetShouldClose(true)
	case glfw.KeyP, glfw.KeySpace:
		a.clock.Toggle()
		slog.Info("clock toggled", "paused", a.clock.Paused(), "t", a.clock.Elapsed())
	case glfw.KeyF:
		slog.Info("fps limit", "limit", cycleFPSLimit())
	}
}

// fpsSteps is the F key cycle; 0 is unlimited
var fpsSteps = []int{30, 60, 120, 0}

// cycleFPSLimit moves the process-wide cap to the next step and returns it
func cycleFPSLimit() int {
	cur := config.GetFPSLimit()
	next := fpsSteps[0]
	for i, v := range fpsSteps {
		if v == cur {
			next = fpsSteps[(i+1)%len(fpsSteps)]
			break
		}
	}
	config.SetFPSLimit(next)
	return next
}

// fpsCounter reports the frame rate once per second
type fpsCounter struct {
	frames int
	since  time.Time
}

func newFPSCounter(now time.Time) *fpsCounter {
	return &fpsCounter{since: now}
}

func (c *fpsCounter) tick(now time.Time) (float64, bool) {
	c.frames++
	elapsed := now.Sub(c.since)
	if elapsed < time.Second {
		return 0, false
	}
	fps := float64(c.frames) / elapsed.Seconds()
	c.frames = 0
	c.since = now
	return fps, true
}
