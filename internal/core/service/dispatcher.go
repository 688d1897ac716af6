package service

import (
	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/api/metrics"
	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

// PayloadDispatcher hands a navigation payload to the one controller setter
// that accepts it.
type PayloadDispatcher struct {
	log zerolog.Logger
}

func NewPayloadDispatcher(log zerolog.Logger) *PayloadDispatcher {
	return &PayloadDispatcher{log: log}
}

// Dispatch invokes exactly one setter on controller: the typed setter for the
// payload's kind when the controller has it, otherwise SetPayload. It reports
// false when the controller accepts neither; a panicking setter also counts
// as not handled.
func (d *PayloadDispatcher) Dispatch(controller any, payload domain.Payload) (handled bool) {
	if controller == nil || payload == nil {
		return false
	}
	kind := payload.Kind().String()

	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error().Interface("panic", rec).Str("kind", kind).Msg("payload setter panicked")
			metrics.PayloadDispatchTotal.WithLabelValues(kind, "unhandled").Inc()
			handled = false
		}
	}()

	if dispatchTyped(controller, payload) {
		metrics.PayloadDispatchTotal.WithLabelValues(kind, "typed").Inc()
		return true
	}
	if r, ok := controller.(ports.PayloadReceiver); ok {
		r.SetPayload(payload)
		metrics.PayloadDispatchTotal.WithLabelValues(kind, "fallback").Inc()
		return true
	}

	d.log.Debug().Str("kind", kind).Msgf("controller %T accepts no %s payload", controller, kind)
	metrics.PayloadDispatchTotal.WithLabelValues(kind, "unhandled").Inc()
	return false
}

// dispatchTyped covers every member of the domain.Payload union. Opaque
// records have no typed setter.
func dispatchTyped(controller any, payload domain.Payload) bool {
	switch p := payload.(type) {
	case *domain.Student:
		if r, ok := controller.(ports.StudentReceiver); ok {
			r.SetStudent(p)
			return true
		}
	case *domain.Admin:
		if r, ok := controller.(ports.AdminReceiver); ok {
			r.SetAdmin(p)
			return true
		}
	case *domain.MenuManager:
		if r, ok := controller.(ports.MenuManagerReceiver); ok {
			r.SetMenuManager(p)
			return true
		}
	case *domain.OrderManager:
		if r, ok := controller.(ports.OrderManagerReceiver); ok {
			r.SetOrderManager(p)
			return true
		}
	case *domain.StudentManager:
		if r, ok := controller.(ports.StudentManagerReceiver); ok {
			r.SetStudentManager(p)
			return true
		}
	case *domain.PaymentManager:
		if r, ok := controller.(ports.PaymentManagerReceiver); ok {
			r.SetPaymentManager(p)
			return true
		}
	case *domain.ReportManager:
		if r, ok := controller.(ports.ReportManagerReceiver); ok {
			r.SetReportManager(p)
			return true
		}
	case *domain.NotificationManager:
		if r, ok := controller.(ports.NotificationManagerReceiver); ok {
			r.SetNotificationManager(p)
			return true
		}
	case *domain.Opaque:
	}
	return false
}
