package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"teamhub.backend/internal/domain/entities"
	domainerrors "teamhub.backend/internal/domain/errors"
)

func newMySQLMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db, mock
}

func TestMembershipRepository_MySQL_DeadlockOnInsertIsWriteConflict(t *testing.T) {
	db, mock := newMySQLMock(t)
	repo := NewMembershipRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `memberships`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newMembership(uuid.New(), uuid.New(), entities.RoleMember))
	require.ErrorIs(t, err, domainerrors.ErrWriteConflict)
	require.NotErrorIs(t, err, domainerrors.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_MySQL_DuplicateEntryIsAlreadyExists(t *testing.T) {
	db, mock := newMySQLMock(t)
	repo := NewMembershipRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `memberships`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry for key 'idx_memberships_user_team'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newMembership(uuid.New(), uuid.New(), entities.RoleMember))
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}
