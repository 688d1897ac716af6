package domain

// Role is the outcome of classifying a credential pair. It is never stored.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleServiceManager Role = "service_manager"
	RoleITAdmin        Role = "it_admin"
	RoleUnknown        Role = "unknown"
)

// Portal identifies one of the three independent navigation roots.
type Portal string

const (
	PortalGeneral Portal = "general"
	PortalStudent Portal = "student"
	PortalAdmin   Portal = "admin"
)

// Portals lists every portal in a stable order.
var Portals = []Portal{PortalGeneral, PortalStudent, PortalAdmin}

// ParsePortal maps a path segment to a Portal.
func ParsePortal(s string) (Portal, error) {
	for _, p := range Portals {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrUnknownPortal
}

// FullScreen reports whether views on this portal are presented in exclusive full-screen mode.
func (p Portal) FullScreen() bool {
	return p == PortalAdmin || p == PortalStudent
}

// ResourceDir is the directory under which this portal's view descriptions live.
// The general portal is unscoped.
func (p Portal) ResourceDir() string {
	if p == PortalGeneral {
		return ""
	}
	return string(p)
}

// StartView is the view a portal opens on, and returns to on logout.
func (p Portal) StartView() string {
	if p == PortalGeneral {
		return "welcome"
	}
	return "login"
}
