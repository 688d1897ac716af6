package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

// Dashboard is the administrator's landing view.
type Dashboard struct {
	bound
	admin *domain.Admin
}

func (c *Dashboard) SetAdmin(a *domain.Admin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.admin = a
}

func (c *Dashboard) Admin() *domain.Admin {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.admin
}

// Caption lists the size of every account collection.
func (c *Dashboard) Caption(ctx context.Context) string {
	c.mu.Lock()
	admin, accounts := c.admin, c.services.Accounts
	c.mu.Unlock()

	var b strings.Builder
	if admin != nil {
		fmt.Fprintf(&b, "Signed in as %s. ", displayName(&admin.Account))
	}
	if accounts == nil {
		return strings.TrimSpace(b.String())
	}

	counts := accounts.Counts(ctx)
	kinds := append([]domain.Kind{domain.KindAdmin, domain.KindStudent}, domain.ManagerKinds...)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	b.WriteString("Accounts: ")
	b.WriteString(strings.Join(parts, ", "))
	return b.String()
}

func displayName(a *domain.Account) string {
	if a.Name != "" {
		return a.Name
	}
	return a.UserName
}
