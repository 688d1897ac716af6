package ports

import "github.com/cafeteria/portal-system/internal/core/domain"

// Controllers opt into payloads by implementing one or more of these.

type StudentReceiver interface {
	SetStudent(s *domain.Student)
}

type AdminReceiver interface {
	SetAdmin(a *domain.Admin)
}

type MenuManagerReceiver interface {
	SetMenuManager(m *domain.MenuManager)
}

type OrderManagerReceiver interface {
	SetOrderManager(m *domain.OrderManager)
}

type StudentManagerReceiver interface {
	SetStudentManager(m *domain.StudentManager)
}

type PaymentManagerReceiver interface {
	SetPaymentManager(m *domain.PaymentManager)
}

type ReportManagerReceiver interface {
	SetReportManager(m *domain.ReportManager)
}

type NotificationManagerReceiver interface {
	SetNotificationManager(m *domain.NotificationManager)
}

// PayloadReceiver accepts any payload that no typed setter claimed.
type PayloadReceiver interface {
	SetPayload(p domain.Payload)
}
