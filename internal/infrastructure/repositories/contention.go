package repositories

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	domainerrors "teamhub.backend/internal/domain/errors"
)

const (
	mysqlDeadlock       = 1213
	pgDeadlockDetected  = "40P01"
	pgSerializationFail  = "40001"
)

// translateContention tags deadlocks and serialization failures with
// ErrWriteConflict. The driver error stays in the chain.
func translateContention(err error) error {
	if isContention(err) {
		return fmt.Errorf("%w: %w", domainerrors.ErrWriteConflict, err)
	}
	return err
}

func isContention(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDeadlockDetected || pgErr.Code == pgSerializationFail
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == pgDeadlockDetected || code == pgSerializationFail
	}
	return false
}
