package service

import (
	"strings"
	"testing"

	"timekeeper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverride_Create(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")

	override, err := env.svc.Overrides.Create(env.ctx, OverrideInput{
		EmployeeID: ann.ID,
		Date:       ts("2025-03-03 15:30"),
		Field:      "  start ",
		Value:      " 10:00",
		Reason:     "  ",
	})
	require.NoError(t, err)
	assert.NotZero(t, override.ID)
	requireTime(t, day("2025-03-03"), override.Date)
	assert.Equal(t, "start", override.Field)
	assert.Equal(t, "10:00", override.Value)
	assert.Empty(t, override.Reason)

	_, err = env.svc.Overrides.Create(env.ctx, OverrideInput{EmployeeID: 999, Date: day("2025-03-03"), Field: "start", Value: "10:00"})
	assert.ErrorIs(t, err, ErrNotFound)

	cases := map[string]OverrideInput{
		"blank field":    {EmployeeID: ann.ID, Date: day("2025-03-03"), Field: "   ", Value: "10:00"},
		"blank value":    {EmployeeID: ann.ID, Date: day("2025-03-03"), Field: "start", Value: ""},
		"no date":        {EmployeeID: ann.ID, Field: "start", Value: "10:00"},
		"field too long": {EmployeeID: ann.ID, Date: day("2025-03-03"), Field: strings.Repeat("f", 51), Value: "x"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Overrides.Create(env.ctx, in)
			assert.ErrorIs(t, err, ErrConflict)
		})
	}
}

func TestOverride_UpdateListDelete(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")
	bob := env.employee(t, "bob")

	create := func(employeeID uint, date, field, value string) *models.ScheduleOverride {
		t.Helper()
		o, err := env.svc.Overrides.Create(env.ctx, OverrideInput{EmployeeID: employeeID, Date: day(date), Field: field, Value: value})
		require.NoError(t, err)
		return o
	}
	late := create(ann.ID, "2025-03-05", "start", "11:00")
	early := create(ann.ID, "2025-03-03", "location", "remote")
	create(ann.ID, "2025-03-20", "start", "08:00")
	create(bob.ID, "2025-03-04", "start", "12:00")

	list, err := env.svc.Overrides.ListForEmployee(env.ctx, ann.ID, day("2025-03-01"), day("2025-03-05"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID, "ordered by date")
	assert.Equal(t, late.ID, list[1].ID)

	_, err = env.svc.Overrides.ListForEmployee(env.ctx, ann.ID, day("2025-03-05"), day("2025-03-01"))
	assert.ErrorIs(t, err, ErrConflict)
	_, err = env.svc.Overrides.ListForEmployee(env.ctx, 999, day("2025-03-01"), day("2025-03-05"))
	assert.ErrorIs(t, err, ErrNotFound)

	moved, err := env.svc.Overrides.Update(env.ctx, late.ID, models.OverridePatch{
		Date:   ptr(day("2025-03-06")),
		Value:  ptr(" 11:30 "),
		Reason: ptr("doctor"),
	})
	require.NoError(t, err)
	requireTime(t, day("2025-03-06"), moved.Date)
	assert.Equal(t, "start", moved.Field)
	assert.Equal(t, "11:30", moved.Value)
	assert.Equal(t, "doctor", moved.Reason)

	_, err = env.svc.Overrides.Update(env.ctx, late.ID, models.OverridePatch{Field: ptr(" ")})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = env.svc.Overrides.Update(env.ctx, 999, models.OverridePatch{Value: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = env.svc.Overrides.ListForEmployee(env.ctx, ann.ID, day("2025-03-01"), day("2025-03-05"))
	require.NoError(t, err)
	assert.Len(t, list, 1, "moved out of the window")

	require.NoError(t, env.svc.Overrides.Delete(env.ctx, early.ID))
	assert.ErrorIs(t, env.svc.Overrides.Delete(env.ctx, early.ID), ErrNotFound)
}

func TestOverride_ShownOnTimesheet(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")

	for _, in := range []OverrideInput{
		{EmployeeID: ann.ID, Date: day("2025-03-03"), Field: "start", Value: "10:00"},
		{EmployeeID: ann.ID, Date: day("2025-03-03"), Field: "location", Value: "remote"},
		{EmployeeID: ann.ID, Date: day("2025-03-04"), Field: "end", Value: "15:00"},
	} {
		_, err := env.svc.Overrides.Create(env.ctx, in)
		require.NoError(t, err)
	}

	sheet, err := env.svc.Reports.Timesheet(env.ctx, ann.ID, day("2025-03-03"), day("2025-03-05"), nil)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "start=10:00; location=remote", sheet.Rows[0].Overrides)
	assert.Equal(t, "end=15:00", sheet.Rows[1].Overrides)
	assert.Empty(t, sheet.Rows[2].Overrides)
}
