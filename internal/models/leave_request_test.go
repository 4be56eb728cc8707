package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLeaveStatusTransitions(t *testing.T) {
	all := []LeaveStatus{LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled}
	for _, from := range all {
		for _, to := range all {
			want := from == LeaveStatusPending && to != LeaveStatusPending
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, LeaveStatusPending.IsTerminal())
	assert.True(t, LeaveStatusApproved.IsTerminal())
	assert.True(t, LeaveStatusRejected.IsTerminal())
	assert.True(t, LeaveStatusCancelled.IsTerminal())

	assert.True(t, LeaveStatusPending.Blocking())
	assert.True(t, LeaveStatusApproved.Blocking())
	assert.False(t, LeaveStatusRejected.Blocking())
	assert.False(t, LeaveStatusCancelled.Blocking())
}

func TestLeaveRequestTransition(t *testing.T) {
	lr := &LeaveRequest{ID: 7, Type: LeaveTypeSick, Status: LeaveStatusPending}
	require.NoError(t, lr.Transition(LeaveStatusApproved))
	assert.Equal(t, "APPROVED SICK", lr.Label())

	err := lr.Transition(LeaveStatusCancelled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot go from APPROVED to CANCELLED")
	assert.Equal(t, LeaveStatusApproved, lr.Status)
}

func TestLeaveInterval(t *testing.T) {
	a := LeaveInterval(date(2025, 1, 10), date(2025, 1, 12))
	assert.Equal(t, date(2025, 1, 10), a.Start)
	assert.Equal(t, date(2025, 1, 13), *a.End)

	single := LeaveInterval(date(2025, 1, 12), date(2025, 1, 12))
	assert.True(t, Overlaps(a, single), "the last day is included")
	assert.False(t, Overlaps(a, LeaveInterval(date(2025, 1, 13), date(2025, 1, 14))))

	lr := &LeaveRequest{StartDate: date(2025, 1, 10), EndDate: date(2025, 1, 12)}
	assert.True(t, lr.CoversDay(time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC)))
	assert.False(t, lr.CoversDay(date(2025, 1, 9)))
}

func TestLeavePatchApply(t *testing.T) {
	base := LeaveRequest{Type: LeaveTypePaid, StartDate: date(2025, 1, 10), EndDate: date(2025, 1, 12), Reason: "trip"}
	sick := LeaveTypeSick
	end := time.Date(2025, 1, 15, 18, 30, 0, 0, time.UTC)

	got := LeavePatch{Type: &sick, EndDate: &end}.Apply(base)
	assert.Equal(t, LeaveTypeSick, got.Type)
	assert.Equal(t, date(2025, 1, 10), got.StartDate)
	assert.Equal(t, date(2025, 1, 15), got.EndDate, "the clock part is dropped")
	assert.Equal(t, "trip", got.Reason)
	assert.Equal(t, LeaveTypePaid, base.Type, "the original is untouched")
}

func TestDateOf(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	assert.Equal(t, date(2025, 3, 4), DateOf(time.Date(2025, 3, 4, 23, 0, 0, 0, zone)))
}
