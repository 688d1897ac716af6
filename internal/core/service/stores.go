package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

var _ ports.AccountDirectory = (*Stores)(nil)

// Stores holds one AccountStore per account collection, all sharing a backend.
type Stores struct {
	Admins               *AccountStore[domain.Admin, *domain.Admin]
	Students             *AccountStore[domain.Student, *domain.Student]
	MenuManagers         *AccountStore[domain.MenuManager, *domain.MenuManager]
	OrderManagers        *AccountStore[domain.OrderManager, *domain.OrderManager]
	StudentManagers      *AccountStore[domain.StudentManager, *domain.StudentManager]
	PaymentManagers      *AccountStore[domain.PaymentManager, *domain.PaymentManager]
	ReportManagers       *AccountStore[domain.ReportManager, *domain.ReportManager]
	NotificationManagers *AccountStore[domain.NotificationManager, *domain.NotificationManager]
}

// NewStores opens a repository for every collection on backend.
func NewStores(backend ports.AccountBackend, log zerolog.Logger, opts ...StoreOption) (*Stores, error) {
	repos := make(map[string]ports.AccountRepository, len(domain.Collections))
	for _, c := range domain.Collections {
		r, err := backend.Repository(c)
		if err != nil {
			return nil, fmt.Errorf("account repository %s: %w", c, err)
		}
		repos[c] = r
	}

	return &Stores{
		Admins:               NewAccountStore(domain.Admins, repos[domain.Admins.Collection], log, opts...),
		Students:             NewAccountStore(domain.Students, repos[domain.Students.Collection], log, opts...),
		MenuManagers:         NewAccountStore(domain.MenuManagers, repos[domain.MenuManagers.Collection], log, opts...),
		OrderManagers:        NewAccountStore(domain.OrderManagers, repos[domain.OrderManagers.Collection], log, opts...),
		StudentManagers:      NewAccountStore(domain.StudentManagers, repos[domain.StudentManagers.Collection], log, opts...),
		PaymentManagers:      NewAccountStore(domain.PaymentManagers, repos[domain.PaymentManagers.Collection], log, opts...),
		ReportManagers:       NewAccountStore(domain.ReportManagers, repos[domain.ReportManagers.Collection], log, opts...),
		NotificationManagers: NewAccountStore(domain.NotificationManagers, repos[domain.NotificationManagers.Collection], log, opts...),
	}, nil
}

// Bootstrap seeds the default Admin and manager accounts and returns how many
// rows this call inserted.
func (s *Stores) Bootstrap(ctx context.Context) int {
	created := 0
	if s.Admins.CreateDefaultAccount(ctx) {
		created++
	}
	for _, m := range s.managers() {
		if m.CreateDefaultAccount(ctx) {
			created++
		}
	}
	return created
}

// Managers returns the manager credential sources in domain.ManagerKinds order.
func (s *Stores) Managers() []ports.CredentialSource {
	ms := s.managers()
	out := make([]ports.CredentialSource, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

// Resolver builds a RoleResolver over these stores.
func (s *Stores) Resolver(log zerolog.Logger) *RoleResolver {
	return NewRoleResolver(s.Admins, s.Managers(), log)
}

// Counts reports the size of every collection, keyed by kind.
func (s *Stores) Counts(ctx context.Context) map[domain.Kind]int {
	out := map[domain.Kind]int{
		domain.KindAdmin:   s.Admins.Count(ctx),
		domain.KindStudent: s.Students.Count(ctx),
	}
	for _, m := range s.managers() {
		out[m.Kind()] = m.Count(ctx)
	}
	return out
}

// managedStore is the slice of the AccountStore API that does not depend on the record type.
type managedStore interface {
	ports.CredentialSource
	CreateDefaultAccount(ctx context.Context) bool
	Count(ctx context.Context) int
}

func (s *Stores) managers() []managedStore {
	return []managedStore{
		s.MenuManagers,
		s.OrderManagers,
		s.StudentManagers,
		s.PaymentManagers,
		s.ReportManagers,
		s.NotificationManagers,
	}
}
