package service

import (
	"context"
	"io"
	"time"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"
	"timekeeper/pkg/calendar"

	"github.com/sirupsen/logrus"
)

// HolidayService stores the production calendar.
type HolidayService struct {
	store  *repository.Store
	logger *logrus.Logger
}

func NewHolidayService(store *repository.Store, logger *logrus.Logger) *HolidayService {
	return &HolidayService{store: store, logger: logger}
}

// ImportCalendar replaces the stored non-working days of the calendar's year.
func (s *HolidayService) ImportCalendar(ctx context.Context, r io.Reader) (int, error) {
	cal, err := calendar.Parse(r)
	if err != nil {
		return 0, conflict("%v", err)
	}
	return s.save(ctx, cal)
}

func (s *HolidayService) ImportCalendarFile(ctx context.Context, path string) (int, error) {
	cal, err := calendar.ParseFile(path)
	if err != nil {
		return 0, conflict("%v", err)
	}
	return s.save(ctx, cal)
}

func (s *HolidayService) save(ctx context.Context, cal *calendar.Calendar) (int, error) {
	days := make([]models.Holiday, 0, len(cal.NonWorking))
	for _, d := range cal.NonWorking {
		name := "non-working day"
		if d.Transferred {
			name = "transferred holiday"
		}
		days = append(days, models.Holiday{
			Date:  d.Date,
			Year:  d.Year(),
			Month: d.Month(),
			Day:   d.Day(),
			Name:  name,
		})
	}

	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if err := tx.Holidays.DeleteYears([]int{cal.Year}); err != nil {
			return err
		}
		return tx.Holidays.BulkCreate(days)
	})
	if err != nil {
		s.logger.WithError(err).WithField("year", cal.Year).Error("Failed to import calendar")
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"year":      cal.Year,
		"count":     len(days),
		"shortened": len(cal.Shortened),
	}).Info("Calendar imported")
	return len(days), nil
}

func (s *HolidayService) IsNonWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	return s.store.WithContext(ctx).Holidays.IsHoliday(date)
}

func (s *HolidayService) ListHolidays(ctx context.Context, year int, month time.Month) ([]models.Holiday, error) {
	if month < time.January || month > time.December {
		return nil, conflict("month %d is out of range", month)
	}
	return s.store.WithContext(ctx).Holidays.GetByYearMonth(year, int(month))
}
