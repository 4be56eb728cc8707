package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendar2025 = `{
  "year": 2025,
  "months": [
    {"month": 1, "days": "1,2,3,4,5,6,7,8,11,12"},
    {"month": 2, "days": "22,23+"},
    {"month": 3, "days": "1,2,7*,8,9"}
  ]
}`

func TestHoliday_ImportCalendar(t *testing.T) {
	env := newTestEnv(t)

	count, err := env.svc.Holidays.ImportCalendar(env.ctx, strings.NewReader(calendar2025))
	require.NoError(t, err)
	assert.Equal(t, 16, count, "shortened days are working days")

	off, err := env.svc.Holidays.IsNonWorkingDay(env.ctx, day("2025-01-07"))
	require.NoError(t, err)
	assert.True(t, off)

	off, err = env.svc.Holidays.IsNonWorkingDay(env.ctx, day("2025-03-07"))
	require.NoError(t, err)
	assert.False(t, off)

	february, err := env.svc.Holidays.ListHolidays(env.ctx, 2025, time.February)
	require.NoError(t, err)
	require.Len(t, february, 2)
	assert.Equal(t, "non-working day", february[0].Name)
	assert.Equal(t, "transferred holiday", february[1].Name)

	_, err = env.svc.Holidays.ListHolidays(env.ctx, 2025, 0)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestHoliday_ReimportReplacesYear(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Holidays.ImportCalendar(env.ctx, strings.NewReader(calendar2025))
	require.NoError(t, err)
	_, err = env.svc.Holidays.ImportCalendar(env.ctx, strings.NewReader(`{"year": 2024, "months": [{"month": 12, "days": "31"}]}`))
	require.NoError(t, err)

	count, err := env.svc.Holidays.ImportCalendar(env.ctx, strings.NewReader(`{"year": 2025, "months": [{"month": 1, "days": "1"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	january, err := env.svc.Holidays.ListHolidays(env.ctx, 2025, time.January)
	require.NoError(t, err)
	assert.Len(t, january, 1)

	off, err := env.svc.Holidays.IsNonWorkingDay(env.ctx, day("2024-12-31"))
	require.NoError(t, err)
	assert.True(t, off, "other years are kept")
}

func TestHoliday_ImportErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Holidays.ImportCalendar(env.ctx, strings.NewReader(`{"year": 2025, "months": [{"month": 2, "days": "30"}]}`))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.Holidays.ImportCalendarFile(env.ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrConflict)

	path := filepath.Join(t.TempDir(), "2025.json")
	require.NoError(t, os.WriteFile(path, []byte(calendar2025), 0o600))
	count, err := env.svc.Holidays.ImportCalendarFile(env.ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 16, count)
}
