package ports

import (
	"context"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

// AccountRepository persists the rows of a single account collection.
// Implementations return errors; the account store turns them into sentinels.
type AccountRepository interface {
	// Insert stores acc and returns the generated id. A taken username yields
	// domain.ErrDuplicateUserName.
	Insert(ctx context.Context, acc domain.Account) (int64, error)
	// InsertIfEmpty atomically inserts acc only when the collection has no rows.
	// inserted is false when another row already existed.
	InsertIfEmpty(ctx context.Context, acc domain.Account) (id int64, inserted bool, err error)
	// FindByUserName returns domain.ErrAccountNotFound when no row matches exactly.
	FindByUserName(ctx context.Context, username string) (domain.Account, error)
	FindAll(ctx context.Context) ([]domain.Account, error)
	// Update overwrites every column except Id of the row keyed by username and
	// returns the number of affected rows.
	Update(ctx context.Context, username string, acc domain.Account) (int64, error)
	Delete(ctx context.Context, username string) (int64, error)
	Count(ctx context.Context) (int, error)
}

// AccountBackend hands out repositories bound to a named collection.
type AccountBackend interface {
	Repository(collection string) (AccountRepository, error)
}

// Locker provides a best-effort exclusive lease shared between processes.
type Locker interface {
	// TryLock returns a release func when the lease was acquired, or ok=false
	// when another holder owns it.
	TryLock(ctx context.Context, key string) (release func(), ok bool, err error)
}

// Credentials decides how passwords are stored and compared. Seal is applied
// to every new password. Stores skip it when an update writes back the
// password already on file.
type Credentials interface {
	Seal(password string) (string, error)
	Match(stored, given string) bool
}

// CredentialSource authenticates against one account collection.
type CredentialSource interface {
	Kind() domain.Kind
	Authenticate(ctx context.Context, username, password string) (domain.Payload, bool)
}

// AccountDirectory answers aggregate questions about all account collections.
type AccountDirectory interface {
	Counts(ctx context.Context) map[domain.Kind]int
}
