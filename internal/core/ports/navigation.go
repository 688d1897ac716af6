package ports

import (
	"context"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

// Scene is a rendered view ready to be shown on a surface.
type Scene struct {
	Title string
	HTML  string
}

// View pairs a scene with the controller instance that backs it.
// Links are the view names a visitor may open from this view.
type View struct {
	Name       string
	Scene      Scene
	Controller any
	Links      []string
}

// ViewLoader builds a view from its external description.
type ViewLoader interface {
	Load(ctx context.Context, portal domain.Portal, name string) (View, error)
}

// Surface is the single rendering target a portal draws on.
type Surface interface {
	Show(view View)
	// SetFullScreen enters exclusive full-screen mode. exitKey leaves it
	// without any confirmation prompt.
	SetFullScreen(exitKey string)
}

// Alerter raises blocking user-facing dialogs.
type Alerter interface {
	Success(title, message string)
	Error(title, message string)
	Warning(title, message string)
	Info(title, message string)
	Confirm(title, message string) bool
	ConfirmWith(title, message, yes, no string) bool
}

// Navigator switches the active view of one portal.
type Navigator interface {
	NavigateTo(ctx context.Context, name string) bool
	NavigateWithData(ctx context.Context, name string, payload domain.Payload) bool
}

// Services is the bundle a router hands to every controller it builds.
type Services struct {
	Alerts   Alerter
	Accounts AccountDirectory
}

// Binder is implemented by controllers that need their portal's navigator
// and service bundle. It is called once, right after construction.
type Binder interface {
	Bind(nav Navigator, services Services)
}

// Captioner is implemented by controllers that add live text to their scene.
// Surfaces call it while rendering, never from inside a navigation.
type Captioner interface {
	Caption(ctx context.Context) string
}
