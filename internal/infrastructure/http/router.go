package http

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/api"
	"github.com/cafeteria/portal-system/internal/infrastructure/http/handlers"
	"github.com/cafeteria/portal-system/internal/pkg/validate"
)

// Options configures the optional parts of the router.
type Options struct {
	// CSRFKey enables gorilla/csrf on portal form posts. It must be 32 bytes.
	CSRFKey        []byte
	TrustedOrigins []string
	Pingers        []handlers.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(portals *handlers.PortalHandler, log zerolog.Logger, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(log)
	e.Validator = validate.New()

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))

	// --- Health checks and metrics ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Pingers...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Portals ---
	g := e.Group("")
	if len(opts.CSRFKey) > 0 {
		g.Use(plaintextHTTP)
		g.Use(echo.WrapMiddleware(csrf.Protect(
			opts.CSRFKey,
			csrf.Secure(false),
			csrf.Path("/"),
			csrf.TrustedOrigins(opts.TrustedOrigins),
		)))
	}
	g.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/general")
	})
	g.GET("/:portal", portals.Show)
	g.POST("/:portal/navigate", portals.Navigate)
	g.POST("/:portal/login", portals.Login)
	g.POST("/:portal/logout", portals.Logout)

	return e
}

// plaintextHTTP tells gorilla/csrf that requests without TLS are plain HTTP
// so its origin checks do not assume https.
func plaintextHTTP(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().TLS == nil {
			c.SetRequest(csrf.PlaintextHTTPRequest(c.Request()))
		}
		return next(c)
	}
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
