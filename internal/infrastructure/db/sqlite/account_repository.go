package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

var _ ports.AccountBackend = (*Backend)(nil)

// Backend hands out one AccountRepository per account table.
type Backend struct {
	db *sqlx.DB
}

func NewBackend(db *sqlx.DB) *Backend {
	return &Backend{db: db}
}

// Repository only accepts the fixed table names; they are interpolated into SQL.
func (b *Backend) Repository(collection string) (ports.AccountRepository, error) {
	if !domain.IsCollection(collection) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}
	return newAccountRepository(b.db, collection), nil
}

// AccountRepository runs parameterised queries against one account table.
type AccountRepository struct {
	db *sqlx.DB
	q  queries
}

type queries struct {
	insert, insertIfEmpty, findOne, findAll, update, remove, count string
}

func newAccountRepository(db *sqlx.DB, table string) *AccountRepository {
	t := `"` + table + `"`
	return &AccountRepository{
		db: db,
		q: queries{
			insert: `INSERT INTO ` + t + ` (Name, Phone_Number, UserName, Password) VALUES (?, ?, ?, ?)`,
			insertIfEmpty: `INSERT INTO ` + t + ` (Name, Phone_Number, UserName, Password)
				SELECT ?, ?, ?, ? WHERE NOT EXISTS (SELECT 1 FROM ` + t + `)`,
			findOne: `SELECT Id, Name, Phone_Number, UserName, Password FROM ` + t + ` WHERE UserName = ?`,
			findAll: `SELECT Id, Name, Phone_Number, UserName, Password FROM ` + t,
			update:  `UPDATE ` + t + ` SET Name = ?, Phone_Number = ?, UserName = ?, Password = ? WHERE UserName = ?`,
			remove:  `DELETE FROM ` + t + ` WHERE UserName = ?`,
			count:   `SELECT COUNT(*) FROM ` + t,
		},
	}
}

func (r *AccountRepository) Insert(ctx context.Context, acc domain.Account) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.q.insert, acc.Name, acc.PhoneNumber, acc.UserName, acc.Password)
	if err != nil {
		return 0, mapError("insert account", err)
	}
	return res.LastInsertId()
}

// InsertIfEmpty is a single statement, so the emptiness check and the write
// cannot interleave with another writer.
func (r *AccountRepository) InsertIfEmpty(ctx context.Context, acc domain.Account) (int64, bool, error) {
	res, err := r.db.ExecContext(ctx, r.q.insertIfEmpty, acc.Name, acc.PhoneNumber, acc.UserName, acc.Password)
	if err != nil {
		err = mapError("insert default account", err)
		if errors.Is(err, domain.ErrDuplicateUserName) {
			return 0, false, nil
		}
		return 0, false, err
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		return 0, false, err
	}
	id, err := res.LastInsertId()
	return id, err == nil, err
}

func (r *AccountRepository) FindByUserName(ctx context.Context, username string) (domain.Account, error) {
	var acc domain.Account
	if err := r.db.GetContext(ctx, &acc, r.q.findOne, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("find account: %w", err)
	}
	return acc, nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	out := []domain.Account{}
	if err := r.db.SelectContext(ctx, &out, r.q.findAll); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, username string, acc domain.Account) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.q.update, acc.Name, acc.PhoneNumber, acc.UserName, acc.Password, username)
	if err != nil {
		return 0, mapError("update account", err)
	}
	return res.RowsAffected()
}

func (r *AccountRepository) Delete(ctx context.Context, username string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.q.remove, username)
	if err != nil {
		return 0, fmt.Errorf("delete account: %w", err)
	}
	return res.RowsAffected()
}

func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, r.q.count); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func mapError(op string, err error) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicateUserName
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
