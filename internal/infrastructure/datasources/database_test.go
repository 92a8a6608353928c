package datasources

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"teamhub.backend/internal/config"
	"teamhub.backend/internal/infrastructure/models"
)

func TestDSN(t *testing.T) {
	base := config.DatabaseConfig{
		Host: "db", Port: 3306, User: "u", Password: "p", DBName: "teamhub", SSLMode: "disable", TimeZone: "UTC",
	}

	cfg := base
	cfg.Driver = config.DriverPostgres
	driver, dsn, err := DSN(cfg)
	require.NoError(t, err)
	require.Equal(t, "postgres", driver)
	require.Equal(t, "postgres://u:p@db:3306/teamhub?sslmode=disable&timezone=UTC", dsn)

	cfg.Driver = config.DriverMySQL
	driver, dsn, err = DSN(cfg)
	require.NoError(t, err)
	require.Equal(t, "mysql", driver)
	require.Contains(t, dsn, "u:p@tcp(db:3306)/teamhub?")
	require.Contains(t, dsn, "parseTime=true")

	cfg.TimeZone = "Not/AZone"
	_, _, err = DSN(cfg)
	require.ErrorContains(t, err, "invalid DB_TIMEZONE")

	cfg = base
	cfg.Driver = config.DriverSQLite
	cfg.DBName = "file::memory:"
	driver, dsn, err = DSN(cfg)
	require.NoError(t, err)
	require.Equal(t, "sqlite3", driver)
	require.Equal(t, "file::memory:", dsn)

	cfg.Driver = "oracle"
	_, _, err = DSN(cfg)
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestOpen_PingFailure(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Host:     "127.0.0.1",
		Port:     1,
		User:     "x",
		Password: "x",
		DBName:   "x",
		SSLMode:  "disable",
	}

	db, err := Open(cfg)
	require.Error(t, err)
	require.Nil(t, db)
	require.Contains(t, err.Error(), "failed to ping database")
}

func TestOpen_OpenAndPingHooks(t *testing.T) {
	origOpen := sqlOpen
	origPing := dbPing
	t.Cleanup(func() {
		sqlOpen = origOpen
		dbPing = origPing
	})

	cfg := config.DatabaseConfig{
		Driver: config.DriverPostgres, Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable",
	}

	sqlOpen = func(_, _ string) (*sql.DB, error) {
		return nil, errors.New("open failed")
	}
	db, err := Open(cfg)
	require.Error(t, err)
	require.Nil(t, db)
	require.Contains(t, err.Error(), "failed to open database")

	realDB, openErr := origOpen("postgres", "host=127.0.0.1 port=1 user=x password=x dbname=x sslmode=disable")
	require.NoError(t, openErr)
	t.Cleanup(func() { _ = realDB.Close() })
	sqlOpen = func(_, _ string) (*sql.DB, error) { return realDB, nil }
	dbPing = func(*sql.DB) error { return nil }

	db, err = Open(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
}

func TestOpen_SQLiteAppliesPoolAndMigrates(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		DBName:          fmt.Sprintf("file:datasources_%d?mode=memory&cache=shared", time.Now().UnixNano()),
		MaxOpenConns:    5,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
		ConnMaxIdleTime: 10 * time.Second,
	}

	db, err := Open(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.Equal(t, 5, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, Migrate(db))
	for _, m := range models.All() {
		require.True(t, db.Migrator().HasTable(m))
	}
	require.True(t, db.Migrator().HasIndex(&models.Membership{}, "idx_memberships_user_team"))
}
