package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		avatar TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createTeamTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		color TEXT,
		is_active BOOLEAN NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createMembershipTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE memberships (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		team_id TEXT NOT NULL,
		role TEXT NOT NULL,
		is_active BOOLEAN NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(user_id, team_id)
	);`)
}

func createTaskTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createActivityTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE activities (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		description TEXT NOT NULL,
		user_id TEXT NOT NULL,
		team_id TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	createUserTable(t, db)
	createTeamTable(t, db)
	createMembershipTable(t, db)
	createTaskTable(t, db)
	createActivityTable(t, db)
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now()
	mustExec(t, db, `INSERT INTO users(id,email,name,created_at,updated_at) VALUES (?,?,?,?,?)`,
		id.String(), email, name, now, now)
	return id
}

func seedTask(t *testing.T, db *gorm.DB, teamID uuid.UUID, status string) {
	t.Helper()
	now := time.Now()
	mustExec(t, db, `INSERT INTO tasks(id,team_id,title,status,created_at,updated_at) VALUES (?,?,?,?,?,?)`,
		uuid.NewString(), teamID.String(), "task "+status, status, now, now)
}
