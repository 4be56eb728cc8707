package models

import (
	"time"

	"gorm.io/gorm"
)

// Pause is a break inside a clock session. It is owned by the session and
// removed with it.
type Pause struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	SessionID uint       `gorm:"not null;index" json:"session_id"`
	StartAt   time.Time  `gorm:"not null" json:"start_at"`
	EndAt     *time.Time `json:"end_at"`
	Note      string     `gorm:"size:300" json:"note"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Pause) TableName() string {
	return "pauses"
}

func (p *Pause) BeforeSave(tx *gorm.DB) error {
	p.StartAt = p.StartAt.UTC()
	p.EndAt = utcPtr(p.EndAt)
	return nil
}

func (p *Pause) Interval() Interval {
	return Interval{Start: p.StartAt, End: p.EndAt}
}

func (p *Pause) IsOpen() bool {
	return p.EndAt == nil
}

// PausePatch carries the fields of a pause update; nil means "keep".
type PausePatch struct {
	StartAt *time.Time
	EndAt   *time.Time
	Note    *string
}

// TouchesInterval reports whether the patch changes the pause window.
func (pp PausePatch) TouchesInterval() bool {
	return pp.StartAt != nil || pp.EndAt != nil
}

// Apply returns a copy of p with the provided fields overwritten.
func (pp PausePatch) Apply(p Pause) Pause {
	if pp.StartAt != nil {
		p.StartAt = *pp.StartAt
	}
	if pp.EndAt != nil {
		end := *pp.EndAt
		p.EndAt = &end
	}
	if pp.Note != nil {
		p.Note = *pp.Note
	}
	return p
}

// PauseSpans converts pauses into spans for overlap checks.
func PauseSpans(pauses []Pause) []Span {
	spans := make([]Span, 0, len(pauses))
	for i := range pauses {
		spans = append(spans, Span{ID: pauses[i].ID, Interval: pauses[i].Interval()})
	}
	return spans
}
