package models

import (
	"fmt"
	"strings"
	"time"
)

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
	time.Sunday:    "sun",
}

// WeeklyPattern maps a weekday key ("mon".."sun") to its [start, end] clock
// times, e.g. {"mon": [["09:00", "17:00"]]}.
type WeeklyPattern map[string][][2]string

// Slot is a planned period of a day, in minutes after midnight.
type Slot struct {
	Start int
	End   int
}

// At places the slot on the given day in loc.
func (s Slot) At(day time.Time, loc *time.Location) (time.Time, time.Time) {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return midnight.Add(time.Duration(s.Start) * time.Minute), midnight.Add(time.Duration(s.End) * time.Minute)
}

func (s Slot) Minutes() int {
	return s.End - s.Start
}

var defaultSlot = Slot{Start: 9 * 60, End: 17 * 60}

// Slots returns the slots planned for a weekday. An empty pattern means
// Monday to Friday, 09:00 to 17:00.
func (p WeeklyPattern) Slots(day time.Weekday) ([]Slot, error) {
	if len(p) == 0 {
		if day == time.Saturday || day == time.Sunday {
			return nil, nil
		}
		return []Slot{defaultSlot}, nil
	}
	raw := p[weekdayKeys[day]]
	slots := make([]Slot, 0, len(raw))
	for _, pair := range raw {
		start, err := ParseClock(pair[0])
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(pair[1])
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{Start: start, End: end})
	}
	return slots, nil
}

// Validate checks keys, clock syntax, slot order and that no two slots of a day
// overlap.
func (p WeeklyPattern) Validate() error {
	known := make(map[string]bool, len(weekdayKeys))
	for _, k := range weekdayKeys {
		known[k] = true
	}
	for key := range p {
		if !known[key] {
			return fmt.Errorf("unknown weekday %q", key)
		}
	}
	ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for day, key := range weekdayKeys {
		slots, err := p.Slots(day)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		spans := make([]Span, 0, len(slots))
		for i, s := range slots {
			if s.End <= s.Start {
				return fmt.Errorf("%s: slot %d ends before it starts", key, i+1)
			}
			start, end := s.At(ref, time.UTC)
			iv := Closed(start, end)
			if ExistsOverlap(iv, spans, 0) {
				return fmt.Errorf("%s: slot %d overlaps another slot", key, i+1)
			}
			spans = append(spans, Span{ID: uint(i + 1), Interval: iv})
		}
	}
	return nil
}

// WeeklyMinutes is the planned time of one week of the pattern.
func (p WeeklyPattern) WeeklyMinutes() int {
	total := 0
	for day := range weekdayKeys {
		slots, _ := p.Slots(day)
		for _, s := range slots {
			total += s.Minutes()
		}
	}
	return total
}

// ParseClock turns "HH:MM" into minutes after midnight. "24:00" is accepted as
// the end of the day.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return 24 * 60, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

type ScheduleTemplate struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	TeamID    uint          `gorm:"not null;index" json:"team_id"`
	Name      string        `gorm:"size:120;not null" json:"name"`
	Active    bool          `gorm:"not null;default:false;index" json:"active"`
	Pattern   WeeklyPattern `gorm:"serializer:json;type:text" json:"pattern"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScheduleTemplate) TableName() string {
	return "schedule_templates"
}

// TemplatePatch carries the fields of a template update; nil means "keep".
type TemplatePatch struct {
	Name    *string
	Active  *bool
	Pattern *WeeklyPattern
}

func (tp TemplatePatch) Apply(t ScheduleTemplate) ScheduleTemplate {
	if tp.Name != nil {
		t.Name = strings.TrimSpace(*tp.Name)
	}
	if tp.Active != nil {
		t.Active = *tp.Active
	}
	if tp.Pattern != nil {
		t.Pattern = *tp.Pattern
	}
	return t
}
