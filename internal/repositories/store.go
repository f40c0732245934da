package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "github.com/lnascimentosilva/library/internal/config"
	intdb "github.com/lnascimentosilva/library/internal/db"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store is embedded by every repository. Zero values fall back to the
// process-wide connection from internal/config.
type Store struct {
	DB     *sql.DB
	Driver string
}

func NewStore(db *sql.DB, driver string) Store {
	return Store{DB: db, Driver: driver}
}

func (s Store) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s Store) conn(ctx context.Context) intdb.Executor {
	return intdb.Conn(ctx, s.db())
}

func (s Store) driver() string {
	if s.Driver != "" {
		return s.Driver
	}
	return intconfig.Dialect
}

// builder returns a goqu dialect whose datasets render placeholders.
func (s Store) builder() goqu.DialectWrapper {
	return goqu.Dialect(intconfig.GoquDialect(s.driver()))
}

func (s Store) from(table any) *goqu.SelectDataset {
	return s.builder().From(table).Prepared(true)
}

func (s Store) exec(ctx context.Context, sqlStr string, args []any) (sql.Result, error) {
	return s.conn(ctx).ExecContext(ctx, sqlStr, args...)
}

func (s Store) insert(ctx context.Context, table string, rec goqu.Record) (int64, error) {
	sqlStr, args, err := s.builder().Insert(table).Rows(rec).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := s.exec(ctx, sqlStr, args)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// update returns the number of rows matched by where.
func (s Store) update(ctx context.Context, table string, rec goqu.Record, where goqu.Ex) (int64, error) {
	sqlStr, args, err := s.builder().Update(table).Set(rec).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := s.exec(ctx, sqlStr, args)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s Store) exists(ctx context.Context, table string, where ...exp.Expression) (bool, error) {
	sqlStr, args, err := s.from(table).Select(goqu.I("id")).Where(where...).Limit(1).ToSQL()
	if err != nil {
		return false, err
	}
	var id int64
	err = s.conn(ctx).QueryRowContext(ctx, sqlStr, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// isDuplicateKey detects unique index violations from either driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
