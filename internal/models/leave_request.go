package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type LeaveType string

const (
	LeaveTypePaid   LeaveType = "PAID"
	LeaveTypeUnpaid LeaveType = "UNPAID"
	LeaveTypeSick   LeaveType = "SICK"
	LeaveTypeOther  LeaveType = "OTHER"
)

type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "PENDING"
	LeaveStatusApproved  LeaveStatus = "APPROVED"
	LeaveStatusRejected  LeaveStatus = "REJECTED"
	LeaveStatusCancelled LeaveStatus = "CANCELLED"
)

// leaveTransitions lists every legal status change. Anything not listed,
// including leaving a terminal status, is rejected.
var leaveTransitions = map[LeaveStatus][]LeaveStatus{
	LeaveStatusPending: {LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled},
}

// CanTransition reports whether a request may move from one status to another.
func (s LeaveStatus) CanTransition(to LeaveStatus) bool {
	for _, next := range leaveTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s LeaveStatus) IsTerminal() bool {
	return len(leaveTransitions[s]) == 0
}

// Blocking reports whether a request in this status reserves its days.
func (s LeaveStatus) Blocking() bool {
	return s == LeaveStatusPending || s == LeaveStatusApproved
}

type LeaveRequest struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	EmployeeID uint        `gorm:"not null;index" json:"employee_id"`
	Type       LeaveType   `gorm:"type:varchar(24);not null" json:"type"`
	Status     LeaveStatus `gorm:"type:varchar(24);not null;index" json:"status"`
	StartDate  time.Time   `gorm:"type:date;not null;index" json:"start_date"`
	EndDate    time.Time   `gorm:"type:date;not null" json:"end_date"`
	Reason     string      `gorm:"size:500" json:"reason"`
	DecidedAt  *time.Time  `json:"decided_at"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (lr *LeaveRequest) BeforeSave(tx *gorm.DB) error {
	lr.StartDate = DateOf(lr.StartDate)
	lr.EndDate = DateOf(lr.EndDate)
	lr.DecidedAt = utcPtr(lr.DecidedAt)
	return nil
}

// Interval maps the inclusive day range onto instants:
// [StartDate 00:00, EndDate+1 00:00).
func (lr *LeaveRequest) Interval() Interval {
	return LeaveInterval(lr.StartDate, lr.EndDate)
}

// CoversDay reports whether the request includes the given calendar day.
func (lr *LeaveRequest) CoversDay(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(lr.StartDate)) && !d.After(DateOf(lr.EndDate))
}

// Transition moves the request to the given status or explains why it cannot.
func (lr *LeaveRequest) Transition(to LeaveStatus) error {
	if !lr.Status.CanTransition(to) {
		return fmt.Errorf("leave request %d cannot go from %s to %s", lr.ID, lr.Status, to)
	}
	lr.Status = to
	return nil
}

// Label is the short "STATUS TYPE" form used on timesheets.
func (lr *LeaveRequest) Label() string {
	return fmt.Sprintf("%s %s", lr.Status, lr.Type)
}

// LeavePatch carries the fields of a leave update; nil means "keep".
type LeavePatch struct {
	Type      *LeaveType
	StartDate *time.Time
	EndDate   *time.Time
	Reason    *string
}

func (lp LeavePatch) Apply(lr LeaveRequest) LeaveRequest {
	if lp.Type != nil {
		lr.Type = *lp.Type
	}
	if lp.StartDate != nil {
		lr.StartDate = DateOf(*lp.StartDate)
	}
	if lp.EndDate != nil {
		lr.EndDate = DateOf(*lp.EndDate)
	}
	if lp.Reason != nil {
		lr.Reason = *lp.Reason
	}
	return lr
}

// LeaveInterval is the instant range of an inclusive day range.
func LeaveInterval(from, to time.Time) Interval {
	return Closed(DateOf(from), DateOf(to).AddDate(0, 0, 1))
}

// LeaveSpans converts requests into spans for overlap checks.
func LeaveSpans(requests []LeaveRequest) []Span {
	spans := make([]Span, 0, len(requests))
	for i := range requests {
		spans = append(spans, Span{ID: requests[i].ID, Interval: requests[i].Interval()})
	}
	return spans
}

// DateOf drops the clock part of t, keeping its calendar date, as UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
