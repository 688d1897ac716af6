package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/api/metrics"
	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
	"github.com/cafeteria/portal-system/internal/pkg/validate"
)

var (
	_ ports.CredentialSource = (*AccountStore[domain.Admin, *domain.Admin])(nil)
	_ ports.CredentialSource = (*AccountStore[domain.MenuManager, *domain.MenuManager])(nil)
)

var errNilRecord = errors.New("nil record")

// StoreOption tunes every AccountStore built with it.
type StoreOption func(*storeOptions)

type storeOptions struct {
	timeout     time.Duration
	locker      ports.Locker
	credentials ports.Credentials
}

// WithTimeout bounds each repository round trip. Zero, the default, means
// no timeout: a hung backend blocks the caller until it answers.
func WithTimeout(d time.Duration) StoreOption {
	return func(o *storeOptions) { o.timeout = d }
}

// WithLocker serialises default-account bootstrap across processes.
func WithLocker(l ports.Locker) StoreOption {
	return func(o *storeOptions) { o.locker = l }
}

// WithCredentials replaces the plaintext password policy.
func WithCredentials(c ports.Credentials) StoreOption {
	return func(o *storeOptions) { o.credentials = c }
}

// AccountStore is the repository contract shared by every account
// collection. It never returns errors: failures degrade to false, absent,
// zero or an empty slice, and are logged and counted.
type AccountStore[T any, P domain.AccountRecord[T]] struct {
	variant  domain.Variant[T]
	repo     ports.AccountRepository
	opts     storeOptions
	validate *validate.Validator
	log      zerolog.Logger
}

// NewAccountStore builds the store for one variant on top of repo.
func NewAccountStore[T any, P domain.AccountRecord[T]](
	variant domain.Variant[T],
	repo ports.AccountRepository,
	log zerolog.Logger,
	opts ...StoreOption,
) *AccountStore[T, P] {
	o := storeOptions{credentials: PlainCredentials{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &AccountStore[T, P]{
		variant:  variant,
		repo:     repo,
		opts:     o,
		validate: validate.New(),
		log:      log.With().Str("collection", variant.Collection).Logger(),
	}
}

func (s *AccountStore[T, P]) Kind() domain.Kind { return s.variant.Kind }

func (s *AccountStore[T, P]) Collection() string { return s.variant.Collection }

// Add inserts rec and writes the generated id back into it.
func (s *AccountStore[T, P]) Add(ctx context.Context, rec P) bool {
	if rec == nil {
		s.fail("add", errNilRecord)
		return false
	}
	acc, ok := s.prepare("add", *rec.Base(), "")
	if !ok {
		return false
	}

	ctx, cancel := s.scope(ctx)
	defer cancel()

	id, err := s.repo.Insert(ctx, acc)
	if err != nil {
		s.fail("add", err)
		return false
	}
	rec.Base().ID = id
	return true
}

// Delete removes the row keyed by username. It is false when no such row exists.
func (s *AccountStore[T, P]) Delete(ctx context.Context, username string) bool {
	ctx, cancel := s.scope(ctx)
	defer cancel()

	if _, err := s.repo.FindByUserName(ctx, username); err != nil {
		s.absentOrFail("delete", username, err)
		return false
	}

	n, err := s.repo.Delete(ctx, username)
	if err != nil {
		s.fail("delete", err)
		return false
	}
	return n == 1
}

// Update overwrites the row keyed by username with rec, which may carry a new
// username. The existing id is kept and written back into rec.
func (s *AccountStore[T, P]) Update(ctx context.Context, username string, rec P) bool {
	if rec == nil {
		s.fail("update", errNilRecord)
		return false
	}

	ctx, cancel := s.scope(ctx)
	defer cancel()

	existing, err := s.repo.FindByUserName(ctx, username)
	if err != nil {
		s.absentOrFail("update", username, err)
		return false
	}

	// A record read back from the store carries its sealed password.
	acc, ok := s.prepare("update", *rec.Base(), existing.Password)
	if !ok {
		return false
	}

	n, err := s.repo.Update(ctx, username, acc)
	if err != nil {
		s.fail("update", err)
		return false
	}
	if n > 0 {
		rec.Base().ID = existing.ID
	}
	return n > 0
}

// FindByUsername looks up an exact, case-sensitive username.
func (s *AccountStore[T, P]) FindByUsername(ctx context.Context, username string) (P, bool) {
	ctx, cancel := s.scope(ctx)
	defer cancel()

	acc, err := s.repo.FindByUserName(ctx, username)
	if err != nil {
		s.absentOrFail("find", username, err)
		return nil, false
	}
	return s.wrap(acc), true
}

// FindAll returns an unordered snapshot of the collection. The slice is never nil.
func (s *AccountStore[T, P]) FindAll(ctx context.Context) []T {
	ctx, cancel := s.scope(ctx)
	defer cancel()

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.fail("find_all", err)
		return []T{}
	}
	out := make([]T, 0, len(rows))
	for _, acc := range rows {
		out = append(out, *s.wrap(acc))
	}
	return out
}

func (s *AccountStore[T, P]) Exists(ctx context.Context, username string) bool {
	_, ok := s.FindByUsername(ctx, username)
	return ok
}

// Count returns the collection size, or 0 when the backend cannot answer.
func (s *AccountStore[T, P]) Count(ctx context.Context) int {
	ctx, cancel := s.scope(ctx)
	defer cancel()

	n, err := s.repo.Count(ctx)
	if err != nil {
		s.fail("count", err)
		return 0
	}
	return n
}

// CreateDefaultAccount seeds the variant's default record when the
// collection is empty. It reports whether this call inserted the row.
func (s *AccountStore[T, P]) CreateDefaultAccount(ctx context.Context) bool {
	if s.variant.Default == nil {
		return false
	}
	if s.Count(ctx) > 0 {
		return false
	}

	if s.opts.locker != nil {
		release, ok, err := s.opts.locker.TryLock(ctx, "bootstrap:"+s.variant.Collection)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("bootstrap lock unavailable, relying on conditional insert")
		case !ok:
			s.log.Info().Msg("default account bootstrap already in progress elsewhere")
			return false
		default:
			defer release()
		}
	}

	rec := s.variant.Default()
	acc, ok := s.prepare("create_default", *P(&rec).Base(), "")
	if !ok {
		return false
	}

	ctx, cancel := s.scope(ctx)
	defer cancel()

	id, inserted, err := s.repo.InsertIfEmpty(ctx, acc)
	if err != nil {
		s.fail("create_default", err)
		return false
	}
	if inserted {
		s.log.Info().Int64("id", id).Str("username", acc.UserName).Msg("default account created")
	}
	return inserted
}

// Authenticate returns the stored record when username exists and password
// matches under the configured credential policy.
func (s *AccountStore[T, P]) Authenticate(ctx context.Context, username, password string) (domain.Payload, bool) {
	rec, ok := s.FindByUsername(ctx, username)
	if !ok {
		return nil, false
	}
	if !s.opts.credentials.Match(rec.Base().Password, password) {
		return nil, false
	}
	return rec, true
}

// prepare validates acc and seals its password for storage. A password equal
// to sealed, the value already stored for the row, is kept as is.
func (s *AccountStore[T, P]) prepare(op string, acc domain.Account, sealed string) (domain.Account, bool) {
	if err := s.validate.Validate(&acc); err != nil {
		s.fail(op, err)
		return domain.Account{}, false
	}
	if sealed != "" && acc.Password == sealed {
		return acc, true
	}
	sealed, err := s.opts.credentials.Seal(acc.Password)
	if err != nil {
		s.fail(op, err)
		return domain.Account{}, false
	}
	acc.Password = sealed
	return acc, true
}

func (s *AccountStore[T, P]) wrap(acc domain.Account) P {
	var rec T
	p := P(&rec)
	*p.Base() = acc
	return p
}

func (s *AccountStore[T, P]) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.timeout > 0 {
		return context.WithTimeout(ctx, s.opts.timeout)
	}
	return ctx, func() {}
}

// absentOrFail treats not-found as an expected outcome and anything else as a failure.
func (s *AccountStore[T, P]) absentOrFail(op, username string, err error) {
	if errors.Is(err, domain.ErrAccountNotFound) {
		s.log.Debug().Str("op", op).Str("username", username).Msg("account not found")
		return
	}
	s.fail(op, err)
}

func (s *AccountStore[T, P]) fail(op string, err error) {
	metrics.StoreFailuresTotal.WithLabelValues(s.variant.Collection, op).Inc()
	s.log.Error().Err(err).Str("op", op).Msg("account store operation failed")
}
