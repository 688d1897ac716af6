package handlers

import (
	"sync"

	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

const maxFlashes = 8

var (
	_ ports.Surface = (*Surface)(nil)
	_ ports.Alerter = (*Surface)(nil)
)

// Flash is an alert waiting to be shown on the next page render.
type Flash struct {
	Level   string
	Title   string
	Message string
}

// Frame is what a portal page renders: the active view and how to present it.
type Frame struct {
	View       ports.View
	Shown      bool
	FullScreen bool
	ExitKey    string
}

// Surface is the browser-backed rendering target of one portal. It also
// collects alerts so the page can display them; it has no operator to ask,
// so confirmations are declined.
type Surface struct {
	portal domain.Portal

	mu      sync.Mutex
	frame   Frame
	flashes []Flash
}

func NewSurface(portal domain.Portal) *Surface {
	return &Surface{portal: portal}
}

func (s *Surface) Portal() domain.Portal { return s.portal }

func (s *Surface) Show(view ports.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.View = view
	s.frame.Shown = true
}

func (s *Surface) SetFullScreen(exitKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.FullScreen = true
	s.frame.ExitKey = exitKey
}

// Snapshot returns the current frame.
func (s *Surface) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// TakeFlashes returns pending alerts and clears them.
func (s *Surface) TakeFlashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}

func (s *Surface) Success(title, message string) { s.flash("success", title, message) }
func (s *Surface) Error(title, message string)   { s.flash("error", title, message) }
func (s *Surface) Warning(title, message string) { s.flash("warning", title, message) }
func (s *Surface) Info(title, message string)    { s.flash("info", title, message) }

func (s *Surface) Confirm(string, string) bool                   { return false }
func (s *Surface) ConfirmWith(string, string, string, string) bool { return false }

func (s *Surface) flash(level, title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes = append(s.flashes, Flash{Level: level, Title: title, Message: message})
	if len(s.flashes) > maxFlashes {
		s.flashes = s.flashes[len(s.flashes)-maxFlashes:]
	}
}
