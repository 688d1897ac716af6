package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
	"github.com/cafeteria/portal-system/internal/core/service"
)

// PortalRouter is the slice of service.Router the web layer drives.
type PortalRouter interface {
	ports.Navigator
	ClearCache()
	Current() string
}

// PortalEntry ties a portal's router to the surface it draws on. Idle, when
// set, is told about every request to the portal.
type PortalEntry struct {
	Router  PortalRouter
	Surface *Surface
	Idle    interface{ Touch() }
}

// PortalHandler serves the three portals as plain HTML pages.
type PortalHandler struct {
	portals map[domain.Portal]PortalEntry
	login   *service.LoginFlow
	log     zerolog.Logger
}

func NewPortalHandler(portals map[domain.Portal]PortalEntry, login *service.LoginFlow, log zerolog.Logger) *PortalHandler {
	return &PortalHandler{portals: portals, login: login, log: log}
}

func (h *PortalHandler) entry(c echo.Context) (domain.Portal, PortalEntry, error) {
	p, err := domain.ParsePortal(c.Param("portal"))
	if err != nil {
		return "", PortalEntry{}, err
	}
	e, ok := h.portals[p]
	if !ok {
		return "", PortalEntry{}, domain.ErrUnknownPortal
	}
	if e.Idle != nil {
		e.Idle.Touch()
	}
	return p, e, nil
}

// Show renders the portal's active view, opening its start view on first visit.
func (h *PortalHandler) Show(c echo.Context) error {
	portal, e, err := h.entry(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if !e.Surface.Snapshot().Shown {
		e.Router.NavigateTo(ctx, portal.StartView())
	}
	frame := e.Surface.Snapshot()
	if !frame.Shown {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "portal has no view to show")
	}

	var caption string
	if cp, ok := frame.View.Controller.(ports.Captioner); ok {
		caption = cp.Caption(ctx)
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return pageTemplate.Execute(c.Response(), page{
		Portal:     string(portal),
		View:       frame.View.Name,
		Title:      frame.View.Scene.Title,
		Body:       trustedHTML(frame.View.Scene.HTML),
		Caption:    caption,
		Flashes:    e.Surface.TakeFlashes(),
		ShowLogin:  portal != domain.PortalGeneral && frame.View.Name == "login",
		Links:      frame.View.Links,
		FullScreen: frame.FullScreen,
		ExitKey:    browserKey(frame.ExitKey),
		CSRFField:  csrf.TemplateField(c.Request()),
	})
}

// Navigate switches the portal to the view named in the "view" form field.
// Only views linked from the one on screen can be opened; sign in and sign
// out go through Login and Logout.
func (h *PortalHandler) Navigate(c echo.Context) error {
	_, e, err := h.entry(c)
	if err != nil {
		return err
	}
	var form navigateForm
	if err := c.Bind(&form); err != nil {
		return err
	}
	form.View = strings.TrimSpace(form.View)
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if frame := e.Surface.Snapshot(); !frame.Shown || !slices.Contains(frame.View.Links, form.View) {
		return fmt.Errorf("%w: %q", domain.ErrViewNotLinked, form.View)
	}
	e.Router.NavigateTo(c.Request().Context(), form.View)
	return h.back(c)
}

// Login runs the student flow on the student portal and the staff flow on the admin portal.
func (h *PortalHandler) Login(c echo.Context) error {
	portal, e, err := h.entry(c)
	if err != nil {
		return err
	}
	if portal != domain.PortalStudent && portal != domain.PortalAdmin {
		return echo.NewHTTPError(http.StatusNotFound, "this portal has no sign in")
	}

	var form loginForm
	if err := c.Bind(&form); err != nil {
		return err
	}
	form.Username = strings.TrimSpace(form.Username)
	if err := c.Validate(&form); err != nil {
		e.Surface.Warning("Login failed", err.Error())
		return h.back(c)
	}

	ctx := c.Request().Context()
	var ok bool
	if portal == domain.PortalStudent {
		_, ok = h.login.Student(ctx, e.Router, form.Username, form.Password)
	} else {
		_, ok = h.login.Staff(ctx, e.Router, form.Username, form.Password)
	}
	if ok {
		h.log.Info().Str("portal", string(portal)).Str("username", form.Username).Msg("signed in")
	}
	return h.back(c)
}

// Logout drops every cached view so the next session starts clean.
func (h *PortalHandler) Logout(c echo.Context) error {
	portal, e, err := h.entry(c)
	if err != nil {
		return err
	}
	e.Router.ClearCache()
	e.Router.NavigateTo(c.Request().Context(), portal.StartView())
	h.log.Info().Str("portal", string(portal)).Msg("portal session reset")
	return h.back(c)
}

func (h *PortalHandler) back(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/"+c.Param("portal"))
}
