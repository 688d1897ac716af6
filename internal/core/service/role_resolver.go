package service

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

// Classification is the outcome of a login attempt. Account is nil when Role
// is RoleUnknown.
type Classification struct {
	Role    domain.Role
	Kind    domain.Kind
	Account domain.Payload
}

// RoleResolver decides which collection a credential pair belongs to.
type RoleResolver struct {
	admin    ports.CredentialSource
	managers []ports.CredentialSource
	log      zerolog.Logger
}

// NewRoleResolver orders managers by domain.ManagerKinds, whatever order they
// are passed in, so the first-match rule is stable.
func NewRoleResolver(admin ports.CredentialSource, managers []ports.CredentialSource, log zerolog.Logger) *RoleResolver {
	ordered := slices.Clone(managers)
	slices.SortStableFunc(ordered, func(a, b ports.CredentialSource) int {
		return slices.Index(domain.ManagerKinds, a.Kind()) - slices.Index(domain.ManagerKinds, b.Kind())
	})
	return &RoleResolver{admin: admin, managers: ordered, log: log}
}

// Classify tries the Admin collection first, then each manager collection;
// the first collection that accepts the pair wins.
func (r *RoleResolver) Classify(ctx context.Context, username, password string) Classification {
	if r.admin != nil {
		if acc, ok := r.admin.Authenticate(ctx, username, password); ok {
			r.log.Info().Str("username", username).Str("role", string(domain.RoleAdmin)).Msg("login classified")
			return Classification{Role: domain.RoleAdmin, Kind: domain.KindAdmin, Account: acc}
		}
	}

	for _, m := range r.managers {
		if acc, ok := m.Authenticate(ctx, username, password); ok {
			r.log.Info().
				Str("username", username).
				Str("role", string(domain.RoleServiceManager)).
				Str("kind", m.Kind().String()).
				Msg("login classified")
			return Classification{Role: domain.RoleServiceManager, Kind: m.Kind(), Account: acc}
		}
	}

	r.log.Info().Str("username", username).Msg("login rejected")
	return Classification{Role: domain.RoleUnknown, Kind: domain.KindUnknown}
}
