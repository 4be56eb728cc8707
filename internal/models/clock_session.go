package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ClockSession is one clock-in/clock-out work period of an employee.
type ClockSession struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	EmployeeID uint       `gorm:"not null;index:ix_session_employee_in" json:"employee_id"`
	ClockIn    time.Time  `gorm:"not null;index:ix_session_employee_in" json:"clock_in"`
	ClockOut   *time.Time `gorm:"index" json:"clock_out"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClockSession) TableName() string {
	return "clock_sessions"
}

// BeforeSave keeps stored instants in UTC so range queries compare correctly.
func (cs *ClockSession) BeforeSave(tx *gorm.DB) error {
	cs.ClockIn = cs.ClockIn.UTC()
	cs.ClockOut = utcPtr(cs.ClockOut)
	return nil
}

func (cs *ClockSession) Interval() Interval {
	return Interval{Start: cs.ClockIn, End: cs.ClockOut}
}

// IsOpen reports whether the employee is still clocked in.
func (cs *ClockSession) IsOpen() bool {
	return cs.ClockOut == nil
}

// Duration returns the worked span as "8h" or "7h 30m", gross of pauses.
func (cs *ClockSession) Duration() string {
	if cs.ClockOut == nil {
		return "still clocked in"
	}
	return formatMinutes(int(cs.ClockOut.Sub(cs.ClockIn).Minutes()))
}

// SessionPauses is a session together with the pauses loaded in the same read.
type SessionPauses struct {
	Session ClockSession
	Pauses  []Pause
}

func formatMinutes(total int) string {
	hours := total / 60
	minutes := total % 60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// SessionSpans converts sessions into spans for overlap checks.
func SessionSpans(sessions []ClockSession) []Span {
	spans := make([]Span, 0, len(sessions))
	for i := range sessions {
		spans = append(spans, Span{ID: sessions[i].ID, Interval: sessions[i].Interval()})
	}
	return spans
}
