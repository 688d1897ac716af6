// Package controller holds the thin controllers that back each view.
//
// Setters run while the owning router holds its navigation lock, so they only
// record state. Anything that talks to an account store happens in Caption,
// which the surface calls while rendering.
package controller

import (
	"sync"

	"github.com/cafeteria/portal-system/internal/core/ports"
)

// Names used in view descriptions.
const (
	NameLogin       = "login"
	NameWelcome     = "welcome"
	NameDashboard   = "dashboard"
	NameManagerHome = "manager-home"
	NameStudentHome = "student-home"
	NameRecord      = "record"
)

// Registrar receives controller factories.
type Registrar interface {
	Register(name string, factory func() any)
}

// Register adds every controller factory to r.
func Register(r Registrar) {
	r.Register(NameLogin, func() any { return &Login{} })
	r.Register(NameWelcome, func() any { return &Welcome{} })
	r.Register(NameDashboard, func() any { return &Dashboard{} })
	r.Register(NameManagerHome, func() any { return &ManagerHome{} })
	r.Register(NameStudentHome, func() any { return &StudentHome{} })
	r.Register(NameRecord, func() any { return &Record{} })
}

// bound is embedded by controllers that keep their portal's navigator and services.
type bound struct {
	mu       sync.Mutex
	nav      ports.Navigator
	services ports.Services
}

func (b *bound) Bind(nav ports.Navigator, services ports.Services) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nav = nav
	b.services = services
}

// Navigator returns the navigator this controller was bound to, or nil.
func (b *bound) Navigator() ports.Navigator {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nav
}
