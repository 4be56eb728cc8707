package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverridePatch_Apply(t *testing.T) {
	base := ScheduleOverride{ID: 4, EmployeeID: 2, Date: date(2025, time.March, 3), Field: "start", Value: "10:00", Reason: "dentist"}

	assert.Equal(t, base, OverridePatch{}.Apply(base))

	moved := OverridePatch{Date: ptrTo(time.Date(2025, time.March, 4, 15, 0, 0, 0, time.UTC)), Value: ptrTo(" 11:00 "), Reason: ptrTo("")}.Apply(base)
	assert.Equal(t, date(2025, time.March, 4), moved.Date)
	assert.Equal(t, "start", moved.Field)
	assert.Equal(t, "11:00", moved.Value)
	assert.Empty(t, moved.Reason)
	assert.Equal(t, "10:00", base.Value, "the original is untouched")
}

func TestOverrideNotes(t *testing.T) {
	assert.Empty(t, OverrideNotes(nil))
	assert.Equal(t, "start=10:00; location=remote", OverrideNotes([]ScheduleOverride{
		{Field: "start", Value: "10:00"},
		{Field: "location", Value: "remote"},
	}))
}
