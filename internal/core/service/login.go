package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/api/metrics"
	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

// LoginFlow turns a credential pair into a navigation to the right home view.
type LoginFlow struct {
	resolver *RoleResolver
	students ports.CredentialSource
	alerts   ports.Alerter
	log      zerolog.Logger
}

func NewLoginFlow(resolver *RoleResolver, students ports.CredentialSource, alerts ports.Alerter, log zerolog.Logger) *LoginFlow {
	return &LoginFlow{resolver: resolver, students: students, alerts: alerts, log: log}
}

// Staff classifies an admin or manager login and, on success, navigates nav
// to the home view of the resolved kind with the account as payload. ok is
// true only when that home view is on screen.
func (f *LoginFlow) Staff(ctx context.Context, nav ports.Navigator, username, password string) (c Classification, ok bool) {
	c = f.resolver.Classify(ctx, username, password)
	if c.Role == domain.RoleUnknown {
		metrics.LoginsTotal.WithLabelValues(string(c.Role), outcomeRejected).Inc()
		f.reject(nav)
		return c, false
	}

	ok = f.openHome(ctx, nav, c.Kind, c.Account, string(c.Role), username)
	return c, ok
}

// Student authenticates against the Student collection and opens the student
// home view. ok is true only when the home view is on screen.
func (f *LoginFlow) Student(ctx context.Context, nav ports.Navigator, username, password string) (*domain.Student, bool) {
	acc, ok := f.students.Authenticate(ctx, username, password)
	if !ok {
		metrics.LoginsTotal.WithLabelValues(string(domain.RoleUnknown), outcomeRejected).Inc()
		f.log.Info().Str("username", username).Msg("student login rejected")
		f.reject(nav)
		return nil, false
	}

	s, _ := acc.(*domain.Student)
	if !f.openHome(ctx, nav, domain.KindStudent, acc, domain.KindStudent.String(), username) {
		return s, false
	}
	return s, true
}

const (
	outcomeSignedIn   = "signed_in"
	outcomeRejected   = "rejected"
	outcomeHomeFailed = "home_failed"
)

// openHome shows the landing view of kind. The router has already alerted the
// user when it fails.
func (f *LoginFlow) openHome(ctx context.Context, nav ports.Navigator, kind domain.Kind, acc domain.Payload, role, username string) bool {
	if !nav.NavigateWithData(ctx, domain.HomeView(kind), acc) {
		metrics.LoginsTotal.WithLabelValues(role, outcomeHomeFailed).Inc()
		f.log.Warn().
			Str("username", username).
			Str("kind", kind.String()).
			Str("view", domain.HomeView(kind)).
			Msg("credentials accepted but home view not shown")
		return false
	}
	metrics.LoginsTotal.WithLabelValues(role, outcomeSignedIn).Inc()
	return true
}

// alertSource is implemented by navigators that carry their own alerter,
// such as a Router bound to a portal surface.
type alertSource interface {
	Alerts() ports.Alerter
}

func (f *LoginFlow) reject(nav ports.Navigator) {
	alerts := f.alerts
	if src, ok := nav.(alertSource); ok {
		if a := src.Alerts(); a != nil {
			alerts = a
		}
	}
	if alerts != nil {
		alerts.Error("Login failed", "Incorrect username or password.")
	}
}
