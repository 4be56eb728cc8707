package models

import (
	"time"

	"gorm.io/gorm"
)

// Shift is a planned work slot of a team, optionally assigned to an employee.
type Shift struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TeamID     uint      `gorm:"not null;index" json:"team_id"`
	EmployeeID *uint     `gorm:"index" json:"employee_id"`
	StartAt    time.Time `gorm:"not null;index" json:"start_at"`
	EndAt      time.Time `gorm:"not null" json:"end_at"`
	Note       string    `gorm:"size:300" json:"note"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Shift) TableName() string {
	return "shifts"
}

func (s *Shift) BeforeSave(tx *gorm.DB) error {
	s.StartAt = s.StartAt.UTC()
	s.EndAt = s.EndAt.UTC()
	return nil
}

func (s *Shift) Interval() Interval {
	return Closed(s.StartAt, s.EndAt)
}

func (s *Shift) Assigned() bool {
	return s.EmployeeID != nil
}

// ShiftPatch carries the fields of a shift update; nil means "keep".
// Unassigning goes through its own operation, not through a patch.
type ShiftPatch struct {
	EmployeeID *uint
	StartAt    *time.Time
	EndAt      *time.Time
	Note       *string
}

func (sp ShiftPatch) Apply(s Shift) Shift {
	if sp.EmployeeID != nil {
		id := *sp.EmployeeID
		s.EmployeeID = &id
	}
	if sp.StartAt != nil {
		s.StartAt = *sp.StartAt
	}
	if sp.EndAt != nil {
		s.EndAt = *sp.EndAt
	}
	if sp.Note != nil {
		s.Note = *sp.Note
	}
	return s
}

func ShiftSpans(shifts []Shift) []Span {
	spans := make([]Span, 0, len(shifts))
	for i := range shifts {
		spans = append(spans, Span{ID: shifts[i].ID, Interval: shifts[i].Interval()})
	}
	return spans
}
