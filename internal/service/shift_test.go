package service

import (
	"testing"

	"timekeeper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shiftInput(teamID uint, employeeID *uint, start, end string) ShiftInput {
	return ShiftInput{TeamID: teamID, EmployeeID: employeeID, Start: ts(start), End: ts(end)}
}

func TestShift_OverlapPerEmployee(t *testing.T) {
	env := newTestEnv(t)
	p := env.employee(t, "p")
	q := env.employee(t, "q")
	team := env.team(t, "Ops", p, q)

	_, err := env.svc.Shifts.Create(env.ctx, shiftInput(team.ID, &p.ID, "2025-03-10 09:00", "2025-03-10 17:00"))
	require.NoError(t, err)

	_, err = env.svc.Shifts.Create(env.ctx, shiftInput(team.ID, &p.ID, "2025-03-10 16:00", "2025-03-10 18:00"))
	assert.ErrorIs(t, err, ErrConflict)

	other, err := env.svc.Shifts.Create(env.ctx, shiftInput(team.ID, &q.ID, "2025-03-10 16:00", "2025-03-10 18:00"))
	require.NoError(t, err)
	assert.Equal(t, q.ID, *other.EmployeeID)

	_, err = env.svc.Shifts.Create(env.ctx, shiftInput(team.ID, &p.ID, "2025-03-10 17:00", "2025-03-10 21:00"))
	require.NoError(t, err, "back-to-back shifts do not overlap")

	open, err := env.svc.Shifts.Create(env.ctx, shiftInput(team.ID, nil, "2025-03-10 10:00", "2025-03-10 12:00"))
	require.NoError(t, err, "unassigned shifts never conflict")
	assert.False(t, open.Assigned())
}

func TestShift_CreateRejections(t *testing.T) {
	env := newTestEnv(t)
	p := env.employee(t, "p")
	team := env.team(t, "Ops", p)

	_, err := env.svc.Shifts.Create(env.ctx, shiftInput(team.ID, nil, "2025-03-10 17:00", "2025-03-10 09:00"))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.Shifts.Create(env.ctx, shiftInput(999, nil, "2025-03-10 09:00", "2025-03-10 17:00"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Shifts.Create(env.ctx, shiftInput(team.ID, ptr(uint(999)), "2025-03-10 09:00", "2025-03-10 17:00"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShift_UpdateAssignUnassign(t *testing.T) {
	env := newTestEnv(t)
	p := env.employee(t, "p")
	q := env.employee(t, "q")
	team := env.team(t, "Ops", p, q)

	morning, err := env.svc.Shifts.Create(env.ctx, shiftInput(team.ID, &p.ID, "2025-03-11 08:00", "2025-03-11 12:00"))
	require.NoError(t, err)
	afternoon, err := env.svc.Shifts.Create(env.ctx, shiftInput(team.ID, nil, "2025-03-11 11:00", "2025-03-11 15:00"))
	require.NoError(t, err)

	longer, err := env.svc.Shifts.Update(env.ctx, morning.ID, models.ShiftPatch{EndAt: ptr(ts("2025-03-11 13:00"))})
	require.NoError(t, err, "a shift never collides with itself")
	requireTime(t, ts("2025-03-11 13:00"), longer.EndAt)

	_, err = env.svc.Shifts.Assign(env.ctx, afternoon.ID, p.ID)
	assert.ErrorIs(t, err, ErrConflict)

	assigned, err := env.svc.Shifts.Assign(env.ctx, afternoon.ID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, *assigned.EmployeeID)

	freed, err := env.svc.Shifts.Unassign(env.ctx, morning.ID)
	require.NoError(t, err)
	assert.Nil(t, freed.EmployeeID)

	stored, err := env.svc.Shifts.Get(env.ctx, morning.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EmployeeID)

	_, err = env.svc.Shifts.Update(env.ctx, afternoon.ID, models.ShiftPatch{EmployeeID: &p.ID, Note: ptr("swap")})
	require.NoError(t, err, "p is free after the unassign")

	_, err = env.svc.Shifts.Update(env.ctx, afternoon.ID, models.ShiftPatch{StartAt: ptr(ts("2025-03-11 16:00"))})
	assert.ErrorIs(t, err, ErrConflict, "start after end")

	_, err = env.svc.Shifts.Assign(env.ctx, 999, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShift_ListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	p := env.employee(t, "p")
	ops := env.team(t, "Ops", p)
	dev := env.team(t, "Dev", p)

	first, err := env.svc.Shifts.Create(env.ctx, shiftInput(ops.ID, &p.ID, "2025-03-12 09:00", "2025-03-12 13:00"))
	require.NoError(t, err)
	unassigned, err := env.svc.Shifts.Create(env.ctx, shiftInput(ops.ID, nil, "2025-03-13 09:00", "2025-03-13 13:00"))
	require.NoError(t, err)
	_, err = env.svc.Shifts.Create(env.ctx, shiftInput(dev.ID, &p.ID, "2025-03-13 14:00", "2025-03-13 18:00"))
	require.NoError(t, err)

	opsShifts, err := env.svc.Shifts.ListForTeam(env.ctx, ops.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, opsShifts, 2)

	from, to := day("2025-03-13"), day("2025-03-14")
	windowed, err := env.svc.Shifts.ListForTeam(env.ctx, ops.ID, &from, &to)
	require.NoError(t, err)
	assert.Len(t, windowed, 1)

	mine, err := env.svc.Shifts.ListForEmployee(env.ctx, p.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)

	_, err = env.svc.Shifts.ListForTeam(env.ctx, 999, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.svc.Shifts.Delete(env.ctx, first.ID))
	assert.ErrorIs(t, env.svc.Shifts.Delete(env.ctx, first.ID), ErrNotFound)
	require.NoError(t, env.svc.Shifts.Delete(env.ctx, unassigned.ID))
	_, err = env.svc.Shifts.Unassign(env.ctx, unassigned.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
