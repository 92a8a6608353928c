package datasources

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"go.uber.org/zap"

	"teamhub.backend/internal/config"
	"teamhub.backend/internal/infrastructure/models"
	"teamhub.backend/pkg/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

var (
	sqlOpen = sql.Open
	dbPing  = func(db *sql.DB) error { return db.Ping() }
)

// DSN returns the database/sql driver name and data source name for cfg.
func DSN(cfg config.DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		return "postgres", cfg.URL(), nil
	case config.DriverMySQL:
		loc := time.UTC
		if cfg.TimeZone != "" {
			l, err := time.LoadLocation(cfg.TimeZone)
			if err != nil {
				return "", "", fmt.Errorf("invalid DB_TIMEZONE %q: %w", cfg.TimeZone, err)
			}
			loc = l
		}
		mc := mysqldriver.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		mc.Loc = loc
		return "mysql", mc.FormatDSN(), nil
	case config.DriverSQLite:
		return "sqlite3", cfg.DBName, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects to the configured database, applies the pool limits and
// returns a gorm handle that translates driver errors (duplicate keys) into
// gorm sentinels.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	driverName, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbPing(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := gorm.Open(dialector(cfg.Driver, sqlDB), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}
	return db, nil
}

// newGormLogger sends slow queries and SQL errors to the process zap logger.
// A missing row is an expected outcome for membership lookups and is not logged.
func newGormLogger() gormlogger.Interface {
	writer, err := zap.NewStdLogAt(logger.GetLogger().Named("gorm"), zap.WarnLevel)
	if err != nil {
		writer = zap.NewStdLog(logger.GetLogger().Named("gorm"))
	}
	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func dialector(driver string, conn *sql.DB) gorm.Dialector {
	switch driver {
	case config.DriverMySQL:
		return mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true})
	case config.DriverSQLite:
		return &sqlite.Dialector{DriverName: "sqlite3", Conn: conn}
	default:
		return postgres.New(postgres.Config{Conn: conn})
	}
}

// Migrate creates or updates the tables owned by this service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
