package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ScheduleOverride is an ad-hoc change to one employee's plan on one day,
// such as special hours or a different location.
type ScheduleOverride struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	EmployeeID uint      `gorm:"not null;index" json:"employee_id"`
	Date       time.Time `gorm:"type:date;not null;index" json:"date"`
	Field      string    `gorm:"size:50;not null" json:"field"`
	Value      string    `gorm:"size:200;not null" json:"value"`
	Reason     string    `gorm:"size:300" json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ScheduleOverride) TableName() string {
	return "schedule_overrides"
}

func (o *ScheduleOverride) BeforeSave(tx *gorm.DB) error {
	o.Date = DateOf(o.Date)
	return nil
}

// Note is the "field=value" form shown on timesheets.
func (o *ScheduleOverride) Note() string {
	return o.Field + "=" + o.Value
}

// OverrideNotes joins the notes of overrides in order with "; ".
func OverrideNotes(overrides []ScheduleOverride) string {
	notes := make([]string, 0, len(overrides))
	for i := range overrides {
		notes = append(notes, overrides[i].Note())
	}
	return strings.Join(notes, "; ")
}

// OverridePatch carries the fields of an override update; nil means "keep".
// An empty Reason clears it.
type OverridePatch struct {
	Date   *time.Time
	Field  *string
	Value  *string
	Reason *string
}

func (p OverridePatch) Apply(o ScheduleOverride) ScheduleOverride {
	if p.Date != nil {
		o.Date = DateOf(*p.Date)
	}
	if p.Field != nil {
		o.Field = strings.TrimSpace(*p.Field)
	}
	if p.Value != nil {
		o.Value = strings.TrimSpace(*p.Value)
	}
	if p.Reason != nil {
		o.Reason = strings.TrimSpace(*p.Reason)
	}
	return o
}
