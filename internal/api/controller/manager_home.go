package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

// ManagerHome backs the six manager landing views.
type ManagerHome struct {
	bound
	kind    domain.Kind
	account domain.Payload
}

func (c *ManagerHome) set(p interface {
	domain.Payload
	Base() *domain.Account
}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kind = p.Kind()
	c.account = p
}

func (c *ManagerHome) SetMenuManager(m *domain.MenuManager)                 { c.set(m) }
func (c *ManagerHome) SetOrderManager(m *domain.OrderManager)               { c.set(m) }
func (c *ManagerHome) SetStudentManager(m *domain.StudentManager)           { c.set(m) }
func (c *ManagerHome) SetPaymentManager(m *domain.PaymentManager)           { c.set(m) }
func (c *ManagerHome) SetReportManager(m *domain.ReportManager)             { c.set(m) }
func (c *ManagerHome) SetNotificationManager(m *domain.NotificationManager) { c.set(m) }

// Manager returns the signed-in manager record and its kind.
func (c *ManagerHome) Manager() (domain.Kind, domain.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind, c.account
}

func (c *ManagerHome) Caption(context.Context) string {
	kind, acc := c.Manager()
	if acc == nil {
		return ""
	}
	base := acc.(interface{ Base() *domain.Account }).Base()
	return fmt.Sprintf("Signed in as %s (%s)", displayName(base), strings.ReplaceAll(kind.String(), "_", " "))
}
