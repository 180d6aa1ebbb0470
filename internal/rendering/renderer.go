// Package rendering drives a swappable Renderer from the engine loop.
package rendering

import (
	"fmt"
	"time"
)

// Renderer is the capability the rendering server drives. Implementations
// are called from the game loop only.
type Renderer interface {
	Name() string
	// Resize is called with the new client size whenever the window resizes.
	Resize(width, height int)
	RenderScene(dt time.Duration) error
	Close() error
}

// NewRenderer builds a renderer by config name.
func NewRenderer(name string) (Renderer, error) {
	switch name {
	case "null":
		return &NullRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}

// NullRenderer draws nothing. It tracks the viewport and frame count so
// headless runs can be inspected.
type NullRenderer struct {
	Width, Height int
	Frames        uint64
	Elapsed       time.Duration
	Closed        bool
}

func (r *NullRenderer) Name() string { return "null" }

func (r *NullRenderer) Resize(width, height int) {
	r.Width, r.Height = width, height
}

func (r *NullRenderer) RenderScene(dt time.Duration) error {
	r.Frames++
	r.Elapsed += dt
	return nil
}

func (r *NullRenderer) Close() error {
	r.Closed = true
	return nil
}
