package service

import (
	"testing"
	"time"

	"timekeeper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_InOutCycle(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")

	opened, err := env.svc.Clock.ClockIn(env.ctx, ann.ID, ptr(ts("2025-03-05 09:00")))
	require.NoError(t, err)
	assert.True(t, opened.IsOpen())
	assert.Equal(t, "still clocked in", opened.Duration())

	_, err = env.svc.Clock.ClockIn(env.ctx, ann.ID, ptr(ts("2025-03-05 10:00")))
	assert.ErrorIs(t, err, ErrConflict)

	closed, err := env.svc.Clock.ClockOut(env.ctx, ann.ID, ptr(ts("2025-03-05 17:30")))
	require.NoError(t, err)
	assert.Equal(t, opened.ID, closed.ID)
	requireTime(t, ts("2025-03-05 17:30"), *closed.ClockOut)
	assert.Equal(t, "8h 30m", closed.Duration())

	_, err = env.svc.Clock.ClockOut(env.ctx, ann.ID, ptr(ts("2025-03-05 18:00")))
	assert.ErrorIs(t, err, ErrConflict)

	active, err := env.svc.Clock.ActiveSession(env.ctx, ann.ID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestClock_DefaultsToNow(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")

	session, err := env.svc.Clock.ClockIn(env.ctx, ann.ID, nil)
	require.NoError(t, err)
	requireTime(t, env.now, session.ClockIn)

	env.now = env.now.Add(2 * time.Hour)
	session, err = env.svc.Clock.ClockOut(env.ctx, ann.ID, nil)
	require.NoError(t, err)
	requireTime(t, env.now, *session.ClockOut)
}

func TestClock_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")

	_, err := env.svc.Clock.ClockOut(env.ctx, ann.ID, nil)
	assert.ErrorIs(t, err, ErrConflict, "clock-out without a session")

	_, err = env.svc.Clock.ClockIn(env.ctx, 999, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Clock.ClockIn(env.ctx, ann.ID, ptr(ts("2025-03-05 09:00")))
	require.NoError(t, err)
	_, err = env.svc.Clock.ClockOut(env.ctx, ann.ID, ptr(ts("2025-03-05 09:00")))
	assert.ErrorIs(t, err, ErrConflict, "clock-out must be after clock-in")
	_, err = env.svc.Clock.ClockOut(env.ctx, ann.ID, ptr(ts("2025-03-05 08:00")))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.Directory.SetEmployeeActive(env.ctx, ann.ID, false)
	require.NoError(t, err)
	_, err = env.svc.Clock.ClockOut(env.ctx, ann.ID, ptr(ts("2025-03-05 17:00")))
	assert.ErrorIs(t, err, ErrConflict, "inactive employee")
}

func TestClock_ClockInMustNotOverlapClosedSession(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")
	env.session(t, ann.ID, "2025-03-04 09:00", "2025-03-04 17:00")

	_, err := env.svc.Clock.ClockIn(env.ctx, ann.ID, ptr(ts("2025-03-04 16:00")))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.Clock.ClockIn(env.ctx, ann.ID, ptr(ts("2025-03-04 08:00")))
	assert.ErrorIs(t, err, ErrConflict)

	session, err := env.svc.Clock.ClockIn(env.ctx, ann.ID, ptr(ts("2025-03-04 17:00")))
	require.NoError(t, err, "touching the previous session is allowed")
	requireTime(t, ts("2025-03-04 17:00"), session.ClockIn)
}

func TestClock_ClockOutClosesOpenPause(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")

	session, err := env.svc.Clock.ClockIn(env.ctx, ann.ID, ptr(ts("2025-03-05 09:00")))
	require.NoError(t, err)
	pause, err := env.svc.Pauses.AddPause(env.ctx, session.ID, models.Open(ts("2025-03-05 16:30")), "errand")
	require.NoError(t, err)

	_, err = env.svc.Clock.ClockOut(env.ctx, ann.ID, ptr(ts("2025-03-05 16:30")))
	assert.ErrorIs(t, err, ErrConflict, "open pause starts at clock-out")

	_, err = env.svc.Clock.ClockOut(env.ctx, ann.ID, ptr(ts("2025-03-05 17:00")))
	require.NoError(t, err)

	pauses, err := env.svc.Pauses.ListPauses(env.ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, pauses, 1)
	assert.Equal(t, pause.ID, pauses[0].ID)
	require.NotNil(t, pauses[0].EndAt)
	requireTime(t, ts("2025-03-05 17:00"), *pauses[0].EndAt)
}

func TestClock_ClockOutBeforeClosedPauseEnds(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")

	session, err := env.svc.Clock.ClockIn(env.ctx, ann.ID, ptr(ts("2025-03-05 09:00")))
	require.NoError(t, err)
	_, err = env.svc.Pauses.AddPause(env.ctx, session.ID, models.Closed(ts("2025-03-05 12:00"), ts("2025-03-05 12:30")), "")
	require.NoError(t, err)

	_, err = env.svc.Clock.ClockOut(env.ctx, ann.ID, ptr(ts("2025-03-05 12:15")))
	assert.ErrorIs(t, err, ErrConflict)

	active, err := env.svc.Clock.ActiveSession(env.ctx, ann.ID)
	require.NoError(t, err)
	require.NotNil(t, active, "a rejected clock-out leaves the session open")
	assert.Equal(t, session.ID, active.ID)
}

func TestClock_HistoryAndWindow(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")
	bob := env.employee(t, "bob")

	env.session(t, ann.ID, "2025-03-03 09:00", "2025-03-03 17:00")
	env.session(t, ann.ID, "2025-03-04 09:00", "2025-03-04 17:00")
	env.session(t, ann.ID, "2025-03-04 23:00", "2025-03-05 01:00")
	env.session(t, bob.ID, "2025-03-04 09:00", "2025-03-04 17:00")

	history, err := env.svc.Clock.SessionHistory(env.ctx, ann.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	requireTime(t, ts("2025-03-04 23:00"), history[0].ClockIn)
	requireTime(t, ts("2025-03-04 09:00"), history[1].ClockIn)

	inWindow, err := env.svc.Clock.ListSessions(env.ctx, ann.ID, day("2025-03-05"), day("2025-03-06"))
	require.NoError(t, err)
	require.Len(t, inWindow, 1, "a session crossing midnight belongs to both days")
	requireTime(t, ts("2025-03-04 23:00"), inWindow[0].ClockIn)

	_, err = env.svc.Clock.ListSessions(env.ctx, ann.ID, day("2025-03-06"), day("2025-03-05"))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.Clock.SessionHistory(env.ctx, 999, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClock_LatestSessionTieBreak(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")

	first := &models.ClockSession{EmployeeID: ann.ID, ClockIn: ts("2025-03-05 09:00")}
	require.NoError(t, env.store.Sessions.Create(first))
	second := &models.ClockSession{EmployeeID: ann.ID, ClockIn: ts("2025-03-05 09:00")}
	require.NoError(t, env.store.Sessions.Create(second))

	closed, err := env.svc.Clock.ClockOut(env.ctx, ann.ID, ptr(ts("2025-03-05 10:00")))
	require.NoError(t, err)
	assert.Equal(t, second.ID, closed.ID, "equal starts resolve to the larger id")
}

func TestClock_DeleteSessionRemovesPauses(t *testing.T) {
	env := newTestEnv(t)
	ann := env.employee(t, "ann")
	session := env.session(t, ann.ID, "2025-03-04 09:00", "2025-03-04 17:00")
	pause, err := env.svc.Pauses.AddPause(env.ctx, session.ID, models.Closed(ts("2025-03-04 12:00"), ts("2025-03-04 12:30")), "")
	require.NoError(t, err)

	require.NoError(t, env.svc.Clock.DeleteSession(env.ctx, session.ID))

	stored, err := env.store.Pauses.GetByID(pause.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	err = env.svc.Clock.DeleteSession(env.ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
