package models

import (
	"time"

	"gorm.io/gorm"
)

// Holiday is a non-working calendar day.
type Holiday struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Date      time.Time `gorm:"type:date;uniqueIndex" json:"date"`
	Year      int       `gorm:"index" json:"year"`
	Month     int       `gorm:"index" json:"month"`
	Day       int       `json:"day"`
	Name      string    `gorm:"size:120" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Holiday) TableName() string {
	return "holidays"
}

func (h *Holiday) BeforeSave(tx *gorm.DB) error {
	h.Date = DateOf(h.Date)
	h.Year, h.Month, h.Day = h.Date.Year(), int(h.Date.Month()), h.Date.Day()
	return nil
}
