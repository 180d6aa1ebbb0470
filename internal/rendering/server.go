package rendering

import (
	"errors"
	"fmt"
	"time"

	"github.com/MartinDew/FeatherEngine/internal/core/event"
	"github.com/MartinDew/FeatherEngine/internal/window"
	"go.uber.org/zap"
)

// Server owns the active Renderer and keeps it sized to the window. It is
// one consumer of the window's resize notification.
type Server struct {
	window   *window.Window
	log      *zap.Logger
	renderer Renderer
	resizeID event.ID
}

func NewServer(w *window.Window, log *zap.Logger) *Server {
	return &Server{window: w, log: log, resizeID: event.InvalidID}
}

// Renderer returns the active renderer, or nil.
func (s *Server) Renderer() Renderer { return s.renderer }

// UseRenderer installs r, closing the previous renderer. r is sized to the
// current window immediately and on every resize afterwards.
func (s *Server) UseRenderer(r Renderer) error {
	if r == nil {
		return errors.New("use renderer: nil renderer")
	}
	if err := s.release(); err != nil {
		return fmt.Errorf("use renderer: %w", err)
	}

	id, err := s.window.RegisterNotification(event.WindowResized, func() {
		p := s.window.Properties()
		r.Resize(p.Width, p.Height)
	})
	if err != nil {
		return fmt.Errorf("use renderer: %w", err)
	}
	s.renderer = r
	s.resizeID = id

	p := s.window.Properties()
	r.Resize(p.Width, p.Height)
	s.log.Info("renderer installed", zap.String("renderer", r.Name()),
		zap.Int("width", p.Width), zap.Int("height", p.Height))
	return nil
}

// Update renders one frame.
func (s *Server) Update(dt time.Duration) error {
	if s.renderer == nil {
		return nil
	}
	if err := s.renderer.RenderScene(dt); err != nil {
		return fmt.Errorf("render %s: %w", s.renderer.Name(), err)
	}
	return nil
}

// Close releases the active renderer.
func (s *Server) Close() error {
	return s.release()
}

func (s *Server) release() error {
	if s.renderer == nil {
		return nil
	}
	s.window.UnregisterNotification(event.WindowResized, s.resizeID)
	old := s.renderer
	s.renderer, s.resizeID = nil, event.InvalidID
	if err := old.Close(); err != nil {
		return fmt.Errorf("close %s: %w", old.Name(), err)
	}
	return nil
}
