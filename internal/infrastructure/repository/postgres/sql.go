package postgres

import (
	"context"
	"database/sql"
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports whether err carries a postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}

// withTx runs fn inside a transaction. fn's error is returned unchanged so
// callers can still match sentinel errors with errors.Is.
func withTx(ctx context.Context, db *sqlx.DB, name string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrapf(err, "begin tx %s", name)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrapf(err, "commit tx %s", name)
	}
	return nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, crerr.Wrap(err, "read rows affected")
	}
	return n, nil
}
