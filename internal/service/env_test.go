package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	ctx   context.Context
	store *repository.Store
	svc   *Services
	now   time.Time
}

// newTestEnv opens a private in-memory database. The clock starts on
// Wednesday 2025-03-05 12:00 UTC and can be moved through env.now.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := quietLogger()
	db, err := repository.OpenMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })
	return envOver(db, logger)
}

// newFileTestEnv is newTestEnv on a database file under t.TempDir(), so
// concurrent callers share one database through the connection pool.
func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := quietLogger()
	dsn := filepath.Join(t.TempDir(), "timekeeper.db")
	db, err := repository.Open(repository.Options{Driver: repository.DriverSQLite, DSN: dsn}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })
	require.NoError(t, repository.Migrate(db))
	return envOver(db, logger)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func envOver(db *gorm.DB, logger *logrus.Logger) *testEnv {
	env := &testEnv{
		ctx:   context.Background(),
		store: repository.NewStore(db, logger),
		now:   time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC),
	}
	env.svc = New(env.store, logger, func() time.Time { return env.now })
	return env
}

func (e *testEnv) employee(t *testing.T, name string) *models.Employee {
	t.Helper()
	employee, err := e.svc.Directory.CreateEmployee(e.ctx, EmployeeInput{
		FirstName: name,
		Email:     fmt.Sprintf("%s@example.com", name),
	})
	require.NoError(t, err)
	return employee
}

func (e *testEnv) team(t *testing.T, name string, members ...*models.Employee) *models.Team {
	t.Helper()
	team, err := e.svc.Directory.CreateTeam(e.ctx, name, nil)
	require.NoError(t, err)
	for _, m := range members {
		require.NoError(t, e.svc.Directory.AddTeamMember(e.ctx, team.ID, m.ID))
	}
	return team
}

// session stores a closed session directly.
func (e *testEnv) session(t *testing.T, employeeID uint, start, end string) *models.ClockSession {
	t.Helper()
	out := ts(end)
	s := &models.ClockSession{EmployeeID: employeeID, ClockIn: ts(start), ClockOut: &out}
	require.NoError(t, e.store.Sessions.Create(s))
	return s
}

// ts parses "2006-01-02 15:04" as UTC.
func ts(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return t
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T {
	return &v
}

func requireTime(t *testing.T, want, got time.Time) {
	t.Helper()
	require.Truef(t, want.Equal(got), "want %s, got %s", want.Format(time.RFC3339Nano), got.Format(time.RFC3339Nano))
}
